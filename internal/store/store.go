// Package store is the persistence contract behind the identity, catalog and
// room services. GormStore backs it with Postgres; MemoryStore keeps
// everything in process and is used by tests and DB_DRIVER=memory.
package store

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// UserUpdate carries a partial profile change. Nil fields are left untouched.
type UserUpdate struct {
	Nickname *string
	Avatar   *string
	Color    *string
}

func (u UserUpdate) Empty() bool {
	return u.Nickname == nil && u.Avatar == nil && u.Color == nil
}

type PlaylistUpdate struct {
	Name        *string
	Description *string
	Color       *string
}

func (u PlaylistUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Color == nil
}

// SongFilter narrows ListSongs. The zero value lists every song.
type SongFilter struct {
	DemoOnly bool
	OwnerID  *uuid.UUID
}

type Stats struct {
	Users     int64 `json:"users"`
	Songs     int64 `json:"songs"`
	Playlists int64 `json:"playlists"`
	Rooms     int64 `json:"rooms"`
}

type UserStore interface {
	// CreateUser returns ErrDuplicate when the nickname or secret is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserBySecret(ctx context.Context, secretHash string) (*models.User, error)
	GetUsers(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, update UserUpdate) (*models.User, error)
}

type SongStore interface {
	CreateSong(ctx context.Context, song *models.Song) error
	GetSong(ctx context.Context, id uuid.UUID) (*models.Song, error)
	// ListSongs returns songs in insertion order.
	ListSongs(ctx context.Context, filter SongFilter) ([]models.Song, error)
	IncrementPlays(ctx context.Context, id uuid.UUID) (*models.Song, error)
}

// PlaylistStore operations are owner scoped: a playlist owned by someone else
// is reported as ErrNotFound.
type PlaylistStore interface {
	CreatePlaylist(ctx context.Context, playlist *models.Playlist) error
	GetPlaylist(ctx context.Context, id, ownerID uuid.UUID) (*models.Playlist, error)
	ListPlaylists(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error)
	UpdatePlaylist(ctx context.Context, id, ownerID uuid.UUID, update PlaylistUpdate) (*models.Playlist, error)
	DeletePlaylist(ctx context.Context, id, ownerID uuid.UUID) error
	// AddPlaylistSong appends songID to the end of the playlist and returns
	// ErrDuplicate if it is already present.
	AddPlaylistSong(ctx context.Context, id, ownerID, songID uuid.UUID) (*models.Playlist, error)
	// RemovePlaylistSong returns ErrNotFound if songID is not in the playlist.
	RemovePlaylistSong(ctx context.Context, id, ownerID, songID uuid.UUID) (*models.Playlist, error)
}

type RoomStore interface {
	// CreateRoom inserts the room with its initial members and returns
	// ErrDuplicate when the join code is already in use.
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error)
	GetRoomByCode(ctx context.Context, code string) (*models.Room, error)
	// AddRoomMember is idempotent.
	AddRoomMember(ctx context.Context, roomID, userID uuid.UUID) (*models.Room, error)
	UpdatePlayback(ctx context.Context, roomID uuid.UUID, songID *uuid.UUID, playing bool) error
}

type Store interface {
	UserStore
	SongStore
	PlaylistStore
	RoomStore

	Stats(ctx context.Context) (Stats, error)
	Ping(ctx context.Context) error
	// Reset removes every record. Callers reseed afterwards.
	Reset(ctx context.Context) error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*GormStore)(nil)
)
