package catalog

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/seed"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/store"
	"github.com/google/uuid"
)

const (
	maxTitleLen       = 200
	maxNameLen        = 120
	maxDescriptionLen = 2000
	maxColorLen       = 16

	defaultSongColor     = "#ffcfe1"
	defaultPlaylistColor = "#ffb6d0"
)

type Store interface {
	store.SongStore
	store.PlaylistStore
}

type CatalogService struct {
	store Store
}

func NewCatalogService(st Store) *CatalogService {
	return &CatalogService{store: st}
}

// --- songs ---

func (s *CatalogService) ListDemoSongs(ctx context.Context) ([]SongResponse, error) {
	songs, err := s.store.ListSongs(ctx, store.SongFilter{DemoOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list demo songs: %w", err)
	}
	return newSongList(songs), nil
}

// ListSongs is the public feed: every song, demo and uploaded.
func (s *CatalogService) ListSongs(ctx context.Context) ([]SongResponse, error) {
	songs, err := s.store.ListSongs(ctx, store.SongFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	return newSongList(songs), nil
}

func (s *CatalogService) ListOwnSongs(ctx context.Context, ownerID uuid.UUID) ([]SongResponse, error) {
	songs, err := s.store.ListSongs(ctx, store.SongFilter{OwnerID: &ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	return newSongList(songs), nil
}

func (s *CatalogService) UploadSong(ctx context.Context, ownerID uuid.UUID, req UploadSongRequest) (*SongResponse, error) {
	title := strings.TrimSpace(req.Title)
	artist := strings.TrimSpace(req.Artist)
	if title == "" || artist == "" || strings.TrimSpace(string(req.Duration)) == "" {
		return nil, services.Validation("title, artist and duration are required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen || utf8.RuneCountInString(artist) > maxTitleLen {
		return nil, services.Validation("title and artist must be at most %d characters", maxTitleLen)
	}

	seconds, err := models.ParseDuration(string(req.Duration))
	if err != nil {
		return nil, services.Validation("duration must look like 3:45 or be a number of seconds")
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		url = seed.SampleMediaURL(rand.Intn(16) + 1)
	}

	song := &models.Song{
		ID:              uuid.New(),
		Title:           title,
		Artist:          artist,
		DurationSeconds: seconds,
		MediaURL:        url,
		Color:           colorOrDefault(req.Color, defaultSongColor),
		OwnerID:         ownerID,
	}
	if err := s.store.CreateSong(ctx, song); err != nil {
		return nil, fmt.Errorf("failed to create song: %w", err)
	}

	resp := NewSongResponse(song)
	return &resp, nil
}

func (s *CatalogService) RecordPlay(ctx context.Context, songID uuid.UUID) (*SongResponse, error) {
	song, err := s.store.IncrementPlays(ctx, songID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, services.NotFound("song not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record play: %w", err)
	}
	resp := NewSongResponse(song)
	return &resp, nil
}

// --- playlists ---

func (s *CatalogService) CreatePlaylist(ctx context.Context, ownerID uuid.UUID, req CreatePlaylistRequest) (*PlaylistResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, services.Validation("playlist name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, services.Validation("playlist name must be at most %d characters", maxNameLen)
	}
	description := strings.TrimSpace(req.Description)
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, services.Validation("description must be at most %d characters", maxDescriptionLen)
	}

	playlist := &models.Playlist{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Color:       colorOrDefault(req.Color, defaultPlaylistColor),
		OwnerID:     ownerID,
	}
	if err := s.store.CreatePlaylist(ctx, playlist); err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	resp := NewPlaylistResponse(playlist)
	return &resp, nil
}

func (s *CatalogService) ListPlaylists(ctx context.Context, ownerID uuid.UUID) ([]PlaylistResponse, error) {
	playlists, err := s.store.ListPlaylists(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	out := make([]PlaylistResponse, len(playlists))
	for i := range playlists {
		out[i] = NewPlaylistResponse(&playlists[i])
	}
	return out, nil
}

func (s *CatalogService) GetPlaylist(ctx context.Context, ownerID, playlistID uuid.UUID) (*PlaylistResponse, error) {
	playlist, err := s.store.GetPlaylist(ctx, playlistID, ownerID)
	if err != nil {
		return nil, playlistError(err)
	}
	resp := NewPlaylistResponse(playlist)
	return &resp, nil
}

func (s *CatalogService) UpdatePlaylist(ctx context.Context, ownerID, playlistID uuid.UUID, req UpdatePlaylistRequest) (*PlaylistResponse, error) {
	var update store.PlaylistUpdate
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || utf8.RuneCountInString(name) > maxNameLen {
			return nil, services.Validation("playlist name must be 1 to %d characters", maxNameLen)
		}
		update.Name = &name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if utf8.RuneCountInString(description) > maxDescriptionLen {
			return nil, services.Validation("description must be at most %d characters", maxDescriptionLen)
		}
		update.Description = &description
	}
	if req.Color != nil {
		color := strings.TrimSpace(*req.Color)
		if color == "" || len(color) > maxColorLen {
			return nil, services.Validation("invalid color")
		}
		update.Color = &color
	}

	if update.Empty() {
		return s.GetPlaylist(ctx, ownerID, playlistID)
	}

	playlist, err := s.store.UpdatePlaylist(ctx, playlistID, ownerID, update)
	if err != nil {
		return nil, playlistError(err)
	}
	resp := NewPlaylistResponse(playlist)
	return &resp, nil
}

func (s *CatalogService) DeletePlaylist(ctx context.Context, ownerID, playlistID uuid.UUID) error {
	if err := s.store.DeletePlaylist(ctx, playlistID, ownerID); err != nil {
		return playlistError(err)
	}
	return nil
}

// AddSong appends songID to the end of the playlist. Adding a song that is
// already present is a Conflict and leaves the playlist unchanged.
func (s *CatalogService) AddSong(ctx context.Context, ownerID, playlistID, songID uuid.UUID) (*PlaylistResponse, error) {
	if _, err := s.store.GetPlaylist(ctx, playlistID, ownerID); err != nil {
		return nil, playlistError(err)
	}
	if _, err := s.store.GetSong(ctx, songID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, services.NotFound("song not found")
		}
		return nil, fmt.Errorf("failed to load song: %w", err)
	}

	playlist, err := s.store.AddPlaylistSong(ctx, playlistID, ownerID, songID)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, services.Conflict("song is already in the playlist")
	}
	if err != nil {
		return nil, playlistError(err)
	}
	resp := NewPlaylistResponse(playlist)
	return &resp, nil
}

func (s *CatalogService) RemoveSong(ctx context.Context, ownerID, playlistID, songID uuid.UUID) (*PlaylistResponse, error) {
	if _, err := s.store.GetPlaylist(ctx, playlistID, ownerID); err != nil {
		return nil, playlistError(err)
	}

	playlist, err := s.store.RemovePlaylistSong(ctx, playlistID, ownerID, songID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, services.NotFound("song is not in the playlist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to remove song: %w", err)
	}
	resp := NewPlaylistResponse(playlist)
	return &resp, nil
}

func playlistError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return services.NotFound("playlist not found")
	}
	return fmt.Errorf("playlist store: %w", err)
}

func colorOrDefault(color, fallback string) string {
	color = strings.TrimSpace(color)
	if color == "" || len(color) > maxColorLen {
		return fallback
	}
	return color
}
