package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
	"github.com/google/uuid"
)

// MemoryStore is a process-local Store. Every operation runs under one mutex,
// which makes each call atomic the same way a single SQL statement is.
type MemoryStore struct {
	mu sync.RWMutex

	users     map[uuid.UUID]*models.User
	secrets   map[string]uuid.UUID
	nicknames map[string]uuid.UUID

	songs     map[uuid.UUID]*models.Song
	songOrder []uuid.UUID
	songSeq   int64

	playlists map[uuid.UUID]*models.Playlist

	rooms map[uuid.UUID]*models.Room
	codes map[string]uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.reset()
	return s
}

func (s *MemoryStore) reset() {
	s.users = make(map[uuid.UUID]*models.User)
	s.secrets = make(map[string]uuid.UUID)
	s.nicknames = make(map[string]uuid.UUID)
	s.songs = make(map[uuid.UUID]*models.Song)
	s.songOrder = nil
	s.playlists = make(map[uuid.UUID]*models.Playlist)
	s.rooms = make(map[uuid.UUID]*models.Room)
	s.codes = make(map[string]uuid.UUID)
}

// --- users ---

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.nicknames[user.Nickname]; taken {
		return ErrDuplicate
	}
	if user.SecretHash != nil {
		if _, taken := s.secrets[*user.SecretHash]; taken {
			return ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	u := *user
	s.users[u.ID] = &u
	s.nicknames[u.Nickname] = u.ID
	if u.SecretHash != nil {
		s.secrets[*u.SecretHash] = u.ID
	}
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) GetUserBySecret(ctx context.Context, secretHash string) (*models.User, error) {
	s.mu.RLock()
	id, ok := s.secrets[secretHash]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, id)
}

func (s *MemoryStore) GetUsers(_ context.Context, ids []uuid.UUID) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, id uuid.UUID, update UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.Nickname != nil && *update.Nickname != u.Nickname {
		if _, taken := s.nicknames[*update.Nickname]; taken {
			return nil, ErrDuplicate
		}
		delete(s.nicknames, u.Nickname)
		u.Nickname = *update.Nickname
		s.nicknames[u.Nickname] = u.ID
	}
	if update.Avatar != nil {
		u.Avatar = *update.Avatar
	}
	if update.Color != nil {
		u.Color = *update.Color
	}
	if !update.Empty() {
		u.UpdatedAt = time.Now().UTC()
	}
	cp := *u
	return &cp, nil
}

// --- songs ---

func (s *MemoryStore) CreateSong(_ context.Context, song *models.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if song.ID == uuid.Nil {
		song.ID = uuid.New()
	}
	if _, exists := s.songs[song.ID]; exists {
		return ErrDuplicate
	}
	song.CreatedAt = time.Now().UTC()
	s.songSeq++
	song.Seq = s.songSeq

	cp := *song
	s.songs[cp.ID] = &cp
	s.songOrder = append(s.songOrder, cp.ID)
	return nil
}

func (s *MemoryStore) GetSong(_ context.Context, id uuid.UUID) (*models.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	song, ok := s.songs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *song
	return &cp, nil
}

func (s *MemoryStore) ListSongs(_ context.Context, filter SongFilter) ([]models.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Song, 0, len(s.songOrder))
	for _, id := range s.songOrder {
		song := s.songs[id]
		if filter.DemoOnly && !song.IsDemo {
			continue
		}
		if filter.OwnerID != nil && song.OwnerID != *filter.OwnerID {
			continue
		}
		out = append(out, *song)
	}
	return out, nil
}

func (s *MemoryStore) IncrementPlays(_ context.Context, id uuid.UUID) (*models.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	song, ok := s.songs[id]
	if !ok {
		return nil, ErrNotFound
	}
	song.Plays++
	cp := *song
	return &cp, nil
}

// --- playlists ---

func (s *MemoryStore) CreatePlaylist(_ context.Context, playlist *models.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if playlist.ID == uuid.Nil {
		playlist.ID = uuid.New()
	}
	now := time.Now().UTC()
	playlist.CreatedAt, playlist.UpdatedAt = now, now
	s.playlists[playlist.ID] = copyPlaylist(playlist)
	return nil
}

func (s *MemoryStore) ownedPlaylist(id, ownerID uuid.UUID) (*models.Playlist, error) {
	p, ok := s.playlists[id]
	if !ok || p.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) GetPlaylist(_ context.Context, id, ownerID uuid.UUID) (*models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.ownedPlaylist(id, ownerID)
	if err != nil {
		return nil, err
	}
	return copyPlaylist(p), nil
}

func (s *MemoryStore) ListPlaylists(_ context.Context, ownerID uuid.UUID) ([]models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Playlist, 0)
	for _, p := range s.playlists {
		if p.OwnerID == ownerID {
			out = append(out, *copyPlaylist(p))
		}
	}
	sortPlaylists(out)
	return out, nil
}

func (s *MemoryStore) UpdatePlaylist(_ context.Context, id, ownerID uuid.UUID, update PlaylistUpdate) (*models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ownedPlaylist(id, ownerID)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Color != nil {
		p.Color = *update.Color
	}
	p.UpdatedAt = time.Now().UTC()
	return copyPlaylist(p), nil
}

func (s *MemoryStore) DeletePlaylist(_ context.Context, id, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ownedPlaylist(id, ownerID); err != nil {
		return err
	}
	delete(s.playlists, id)
	return nil
}

func (s *MemoryStore) AddPlaylistSong(_ context.Context, id, ownerID, songID uuid.UUID) (*models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ownedPlaylist(id, ownerID)
	if err != nil {
		return nil, err
	}
	next := 0
	for _, e := range p.Entries {
		if e.SongID == songID {
			return nil, ErrDuplicate
		}
		if e.Position >= next {
			next = e.Position + 1
		}
	}
	p.Entries = append(p.Entries, models.PlaylistSong{
		PlaylistID: id,
		SongID:     songID,
		Position:   next,
		AddedAt:    time.Now().UTC(),
	})
	p.UpdatedAt = time.Now().UTC()
	return copyPlaylist(p), nil
}

func (s *MemoryStore) RemovePlaylistSong(_ context.Context, id, ownerID, songID uuid.UUID) (*models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ownedPlaylist(id, ownerID)
	if err != nil {
		return nil, err
	}
	for i, e := range p.Entries {
		if e.SongID == songID {
			p.Entries = append(p.Entries[:i:i], p.Entries[i+1:]...)
			p.UpdatedAt = time.Now().UTC()
			return copyPlaylist(p), nil
		}
	}
	return nil, ErrNotFound
}

// --- rooms ---

func (s *MemoryStore) CreateRoom(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.codes[room.Code]; taken {
		return ErrDuplicate
	}
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	now := time.Now().UTC()
	room.CreatedAt, room.UpdatedAt = now, now
	for i := range room.Members {
		room.Members[i].RoomID = room.ID
		if room.Members[i].JoinedAt.IsZero() {
			room.Members[i].JoinedAt = now
		}
	}
	s.rooms[room.ID] = copyRoom(room)
	s.codes[room.Code] = room.ID
	return nil
}

func (s *MemoryStore) GetRoom(_ context.Context, id uuid.UUID) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRoom(r), nil
}

func (s *MemoryStore) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	s.mu.RLock()
	id, ok := s.codes[code]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s.GetRoom(ctx, id)
}

func (s *MemoryStore) AddRoomMember(_ context.Context, roomID, userID uuid.UUID) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	if !r.IsMember(userID) {
		r.Members = append(r.Members, models.RoomMember{
			RoomID:   roomID,
			UserID:   userID,
			JoinedAt: time.Now().UTC(),
		})
	}
	return copyRoom(r), nil
}

func (s *MemoryStore) UpdatePlayback(_ context.Context, roomID uuid.UUID, songID *uuid.UUID, playing bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return ErrNotFound
	}
	if songID != nil {
		id := *songID
		r.CurrentSongID = &id
	}
	r.IsPlaying = playing
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// --- misc ---

func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		Users:     int64(len(s.users)),
		Songs:     int64(len(s.songs)),
		Playlists: int64(len(s.playlists)),
		Rooms:     int64(len(s.rooms)),
	}, nil
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

func copyPlaylist(p *models.Playlist) *models.Playlist {
	cp := *p
	cp.Entries = append([]models.PlaylistSong(nil), p.Entries...)
	return &cp
}

func copyRoom(r *models.Room) *models.Room {
	cp := *r
	cp.Members = append([]models.RoomMember(nil), r.Members...)
	if r.CurrentSongID != nil {
		id := *r.CurrentSongID
		cp.CurrentSongID = &id
	}
	return &cp
}

func sortPlaylists(playlists []models.Playlist) {
	sort.SliceStable(playlists, func(i, j int) bool {
		if playlists[i].CreatedAt.Equal(playlists[j].CreatedAt) {
			return playlists[i].ID.String() < playlists[j].ID.String()
		}
		return playlists[i].CreatedAt.Before(playlists[j].CreatedAt)
	})
}
