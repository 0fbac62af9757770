package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/store"
	"github.com/google/uuid"
)

// SystemUserID owns the demo catalog. It is derived from a fixed name so
// reseeding an existing database finds the same row.
var SystemUserID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("harmony:system-user"))

// Apply makes sure the system user and the demo catalog exist. It is safe to
// run on every start.
func Apply(ctx context.Context, st store.Store, r *Registry) error {
	if _, err := st.GetUser(ctx, SystemUserID); errors.Is(err, store.ErrNotFound) {
		system := &models.User{
			ID:       SystemUserID,
			Nickname: r.SystemNickname(),
			Avatar:   "fas fa-music",
			Color:    "#ffcfe1",
			Role:     models.RoleSpecial,
		}
		if err := st.CreateUser(ctx, system); err != nil && !errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("failed to create system user: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to load system user: %w", err)
	}

	existing, err := st.ListSongs(ctx, store.SongFilter{DemoOnly: true})
	if err != nil {
		return fmt.Errorf("failed to list demo songs: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for i, s := range r.DemoSongs() {
		seconds, err := models.ParseDuration(s.Duration)
		if err != nil {
			return fmt.Errorf("demo song %q: %w", s.Title, err)
		}
		url := s.URL
		if url == "" {
			url = SampleMediaURL(i + 1)
		}
		song := &models.Song{
			ID:              uuid.New(),
			Title:           s.Title,
			Artist:          s.Artist,
			DurationSeconds: seconds,
			MediaURL:        url,
			Color:           s.Color,
			IsDemo:          true,
			OwnerID:         SystemUserID,
		}
		if err := st.CreateSong(ctx, song); err != nil {
			return fmt.Errorf("failed to seed demo song %q: %w", s.Title, err)
		}
	}

	slog.Info("demo catalog seeded", "songs", len(r.DemoSongs()))
	return nil
}
