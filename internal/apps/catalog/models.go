package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
	"github.com/google/uuid"
)

// DurationInput accepts either "m:ss" or a number of seconds on the wire.
type DurationInput string

func (d *DurationInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = DurationInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("duration must be a string or a number")
	}
	*d = DurationInput(n.String())
	return nil
}

// --- DTOs ---

type UploadSongRequest struct {
	Title    string        `json:"title"`
	Artist   string        `json:"artist"`
	Duration DurationInput `json:"duration"`
	URL      string        `json:"url"`
	Color    string        `json:"color"`
}

type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type UpdatePlaylistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

type AddSongRequest struct {
	SongID string `json:"songId"`
}

type SongResponse struct {
	models.Song
	Duration string `json:"duration"`
}

func NewSongResponse(s *models.Song) SongResponse {
	return SongResponse{Song: *s, Duration: models.FormatDuration(s.DurationSeconds)}
}

func newSongList(songs []models.Song) []SongResponse {
	out := make([]SongResponse, len(songs))
	for i := range songs {
		out[i] = NewSongResponse(&songs[i])
	}
	return out
}

type PlaylistResponse struct {
	models.Playlist
	Songs     []uuid.UUID `json:"songs"`
	SongCount int         `json:"songCount"`
}

func NewPlaylistResponse(p *models.Playlist) PlaylistResponse {
	ids := p.SongIDs()
	return PlaylistResponse{Playlist: *p, Songs: ids, SongCount: len(ids)}
}
