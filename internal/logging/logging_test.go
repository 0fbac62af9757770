package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogStore struct {
	mu      sync.Mutex
	entries []models.SystemLog
	cutoff  time.Time
}

func (f *fakeLogStore) WriteLogs(_ context.Context, entries []models.SystemLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeLogStore) PruneLogs(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoff = before
	return 3, nil
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestDBHandler_OnlyErrorsWithKnownKeys(t *testing.T) {
	st := &fakeLogStore{}
	h := NewDBHandler(st)
	logger := slog.New(h).With("request_id", "req-1")

	logger.Info("ignored")
	logger.Error("room relay failed", "room_id", "r1", "user_id", "u1", "path", "/ws", "error", "boom", "attempt", 2)
	h.Stop()

	require.Len(t, st.entries, 1)
	e := st.entries[0]
	assert.Equal(t, "room relay failed", e.Message)
	assert.Equal(t, "ERROR", e.Level)
	assert.Equal(t, "req-1", e.RequestID)
	require.NotNil(t, e.RoomID)
	assert.Equal(t, "r1", *e.RoomID)
	require.NotNil(t, e.UserID)
	assert.Equal(t, "u1", *e.UserID)
	assert.Equal(t, "/ws", e.Path)
	assert.Equal(t, "boom", e.Error)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(e.Extra, &extra))
	assert.EqualValues(t, 2, extra["attempt"])

	// stopping twice is safe
	h.Stop()
}

func TestMultiHandler(t *testing.T) {
	var buf bytes.Buffer
	stdout := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	st := &fakeLogStore{}
	db := NewDBHandler(st)

	logger := slog.New(NewMultiHandler(stdout, db))
	logger.Debug("dropped everywhere")
	logger.Info("stdout only")
	logger.Error("both")
	db.Stop()

	assert.NotContains(t, buf.String(), "dropped everywhere")
	assert.Contains(t, buf.String(), "stdout only")
	assert.Contains(t, buf.String(), "both")
	require.Len(t, st.entries, 1)
	assert.Equal(t, "both", st.entries[0].Message)
}

func TestPruneOnce(t *testing.T) {
	st := &fakeLogStore{}
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	PruneOnce(context.Background(), st, 30, now)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), st.cutoff)
}
