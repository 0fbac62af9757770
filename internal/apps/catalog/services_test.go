package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*CatalogService, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewCatalogService(st), st
}

func upload(t *testing.T, svc *CatalogService, owner uuid.UUID, title string) *SongResponse {
	t.Helper()
	song, err := svc.UploadSong(context.Background(), owner, UploadSongRequest{Title: title, Artist: "B", Duration: "3:00"})
	require.NoError(t, err)
	return song
}

func TestDurationInput(t *testing.T) {
	var req UploadSongRequest
	require.NoError(t, json.Unmarshal([]byte(`{"duration":"3:45"}`), &req))
	assert.Equal(t, DurationInput("3:45"), req.Duration)

	require.NoError(t, json.Unmarshal([]byte(`{"duration":225}`), &req))
	assert.Equal(t, DurationInput("225"), req.Duration)

	require.NoError(t, json.Unmarshal([]byte(`{"duration":null}`), &req))
	assert.Equal(t, DurationInput(""), req.Duration)

	assert.Error(t, json.Unmarshal([]byte(`{"duration":true}`), &req))
}

func TestUploadSong(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	owner := uuid.New()

	song, err := svc.UploadSong(ctx, owner, UploadSongRequest{Title: "A", Artist: "B", Duration: "3:00"})
	require.NoError(t, err)
	assert.Equal(t, 0, song.Plays)
	assert.Equal(t, 180, song.DurationSeconds)
	assert.Equal(t, "3:00", song.Duration)
	assert.Equal(t, owner, song.OwnerID)
	assert.False(t, song.IsDemo)
	assert.Contains(t, song.MediaURL, "soundhelix.com")

	missing := []UploadSongRequest{
		{Artist: "B", Duration: "3:00"},
		{Title: "A", Duration: "3:00"},
		{Title: "A", Artist: "B"},
		{Title: "  ", Artist: "B", Duration: "3:00"},
	}
	for _, req := range missing {
		_, err := svc.UploadSong(ctx, owner, req)
		assert.ErrorIs(t, err, services.ErrValidation)
	}

	_, err = svc.UploadSong(ctx, owner, UploadSongRequest{Title: "A", Artist: "B", Duration: "soon"})
	assert.ErrorIs(t, err, services.ErrValidation)

	song, err = svc.UploadSong(ctx, owner, UploadSongRequest{Title: "A", Artist: "B", Duration: "95", URL: "https://cdn.example/a.mp3"})
	require.NoError(t, err)
	assert.Equal(t, "1:35", song.Duration)
	assert.Equal(t, "https://cdn.example/a.mp3", song.MediaURL)
}

func TestSongFeeds(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, st.CreateSong(ctx, &models.Song{ID: uuid.New(), Title: "demo", Artist: "x", DurationSeconds: 60, IsDemo: true}))
	upload(t, svc, alice, "a1")
	upload(t, svc, bob, "b1")
	upload(t, svc, alice, "a2")

	demo, err := svc.ListDemoSongs(ctx)
	require.NoError(t, err)
	require.Len(t, demo, 1)
	assert.Equal(t, "demo", demo[0].Title)

	all, err := svc.ListSongs(ctx)
	require.NoError(t, err)
	titles := make([]string, len(all))
	for i, s := range all {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"demo", "a1", "b1", "a2"}, titles)

	mine, err := svc.ListOwnSongs(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "a1", mine[0].Title)
	assert.Equal(t, "a2", mine[1].Title)
}

func TestRecordPlay(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	song := upload(t, svc, uuid.New(), "a")

	for i := 1; i <= 3; i++ {
		played, err := svc.RecordPlay(ctx, song.ID)
		require.NoError(t, err)
		assert.Equal(t, i, played.Plays)
	}

	_, err := svc.RecordPlay(ctx, uuid.New())
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPlaylistOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	owner, stranger := uuid.New(), uuid.New()

	_, err := svc.CreatePlaylist(ctx, owner, CreatePlaylistRequest{})
	assert.ErrorIs(t, err, services.ErrValidation)

	pl, err := svc.CreatePlaylist(ctx, owner, CreatePlaylistRequest{Name: "Road trip"})
	require.NoError(t, err)
	assert.Equal(t, defaultPlaylistColor, pl.Color)
	assert.Empty(t, pl.Songs)

	_, err = svc.GetPlaylist(ctx, stranger, pl.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	name := "Hijacked"
	_, err = svc.UpdatePlaylist(ctx, stranger, pl.ID, UpdatePlaylistRequest{Name: &name})
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.ErrorIs(t, svc.DeletePlaylist(ctx, stranger, pl.ID), services.ErrNotFound)

	desc := "summer"
	updated, err := svc.UpdatePlaylist(ctx, owner, pl.ID, UpdatePlaylistRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Road trip", updated.Name)
	assert.Equal(t, "summer", updated.Description)

	empty := " "
	_, err = svc.UpdatePlaylist(ctx, owner, pl.ID, UpdatePlaylistRequest{Name: &empty})
	assert.ErrorIs(t, err, services.ErrValidation)

	list, err := svc.ListPlaylists(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, svc.DeletePlaylist(ctx, owner, pl.ID))
	_, err = svc.GetPlaylist(ctx, owner, pl.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestAddSong_DuplicateIsConflict(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	owner := uuid.New()
	song := upload(t, svc, owner, "a")
	pl, err := svc.CreatePlaylist(ctx, owner, CreatePlaylistRequest{Name: "p"})
	require.NoError(t, err)

	first, err := svc.AddSong(ctx, owner, pl.ID, song.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{song.ID}, first.Songs)

	_, err = svc.AddSong(ctx, owner, pl.ID, song.ID)
	assert.ErrorIs(t, err, services.ErrConflict)

	got, err := svc.GetPlaylist(ctx, owner, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{song.ID}, got.Songs)
	assert.Equal(t, 1, got.SongCount)
}

func TestAddSong_Missing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	owner := uuid.New()
	song := upload(t, svc, owner, "a")
	pl, err := svc.CreatePlaylist(ctx, owner, CreatePlaylistRequest{Name: "p"})
	require.NoError(t, err)

	_, err = svc.AddSong(ctx, owner, pl.ID, uuid.New())
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.AddSong(ctx, owner, uuid.New(), song.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.AddSong(ctx, uuid.New(), pl.ID, song.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestAddSong_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	owner := uuid.New()
	pl, err := svc.CreatePlaylist(ctx, owner, CreatePlaylistRequest{Name: "p"})
	require.NoError(t, err)

	var want []uuid.UUID
	for _, title := range []string{"one", "two", "three"} {
		song := upload(t, svc, owner, title)
		_, err := svc.AddSong(ctx, owner, pl.ID, song.ID)
		require.NoError(t, err)
		want = append(want, song.ID)
	}

	got, err := svc.GetPlaylist(ctx, owner, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got.Songs)

	got, err = svc.RemoveSong(ctx, owner, pl.ID, want[1])
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{want[0], want[2]}, got.Songs)
}

func TestRemoveSong_NotMemberLeavesPlaylistUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	owner := uuid.New()
	in := upload(t, svc, owner, "in")
	out := upload(t, svc, owner, "out")
	pl, err := svc.CreatePlaylist(ctx, owner, CreatePlaylistRequest{Name: "p"})
	require.NoError(t, err)
	_, err = svc.AddSong(ctx, owner, pl.ID, in.ID)
	require.NoError(t, err)

	_, err = svc.RemoveSong(ctx, owner, pl.ID, out.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	got, err := svc.GetPlaylist(ctx, owner, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{in.ID}, got.Songs)

	_, err = svc.RemoveSong(ctx, owner, uuid.New(), in.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
