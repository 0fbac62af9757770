// Package seed holds the allow-list of known secret codes and the demo
// catalog loaded at startup.
package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
)

// User is a known identity that is provisioned on its first login.
type User struct {
	SecretCode string `json:"secret_code"`
	Nickname   string `json:"nickname"`
	Avatar     string `json:"avatar"`
	Color      string `json:"color"`
	Role       string `json:"role"`
}

type Song struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Duration string `json:"duration"`
	URL      string `json:"url"`
	Color    string `json:"color"`
}

type File struct {
	SystemNickname string `json:"system_nickname"`
	Users          []User `json:"users"`
	DemoSongs      []Song `json:"demo_songs"`
}

type Registry struct {
	mu             sync.RWMutex
	users          map[string]*User
	songs          []Song
	systemNickname string
}

func NewRegistry() *Registry {
	return &Registry{
		users:          make(map[string]*User),
		systemNickname: "Harmony",
	}
}

// LoadFromFile reads the seed file at path. A missing file yields the
// built-in defaults.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read seeds file: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seeds file: %w", err)
	}
	return FromFile(&file)
}

func FromFile(file *File) (*Registry, error) {
	registry := NewRegistry()
	if file.SystemNickname != "" {
		registry.systemNickname = file.SystemNickname
	}
	for i := range file.Users {
		if err := registry.Register(&file.Users[i]); err != nil {
			return nil, err
		}
	}
	registry.songs = append(registry.songs, file.DemoSongs...)
	return registry, nil
}

func (r *Registry) Register(u *User) error {
	if u.SecretCode == "" || u.Nickname == "" {
		return fmt.Errorf("seed user needs secret_code and nickname")
	}
	switch u.Role {
	case "":
		u.Role = models.RoleUser
	case models.RoleUser, models.RoleAdmin, models.RoleSpecial:
	default:
		return fmt.Errorf("seed user %q has unknown role %q", u.Nickname, u.Role)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.SecretCode] = u
	return nil
}

// Lookup returns the seed identity for a secret code.
func (r *Registry) Lookup(secretCode string) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[secretCode]
	if !ok {
		return User{}, false
	}
	return *u, true
}

func (r *Registry) Users() []User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out
}

// NicknameOwner reports whether nickname is reserved for a seed user or the
// system user, whether or not that user has been provisioned yet. owner is
// the seed's secret code, or empty for the system user. Matching ignores case.
func (r *Registry) NicknameOwner(nickname string) (owner string, reserved bool) {
	if strings.EqualFold(nickname, r.SystemNickname()) {
		return "", true
	}
	for _, u := range r.Users() {
		if strings.EqualFold(u.Nickname, nickname) {
			return u.SecretCode, true
		}
	}
	return "", false
}

func (r *Registry) DemoSongs() []Song {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Song(nil), r.songs...)
}

func (r *Registry) SystemNickname() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.systemNickname
}
