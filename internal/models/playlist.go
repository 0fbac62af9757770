package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type Playlist struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"size:120;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Color       string         `gorm:"size:16" json:"color"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;index;not null" json:"ownerId"`
	Entries     []PlaylistSong `gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// PlaylistSong is one ordered entry of a playlist. The composite primary key
// forbids the same song appearing twice in one playlist.
type PlaylistSong struct {
	PlaylistID uuid.UUID `gorm:"type:uuid;primaryKey" json:"playlistId"`
	SongID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"songId"`
	Position   int       `gorm:"not null" json:"position"`
	AddedAt    time.Time `json:"addedAt"`
}

// SongIDs returns the playlist's song ids in playlist order.
func (p *Playlist) SongIDs() []uuid.UUID {
	entries := make([]PlaylistSong, len(p.Entries))
	copy(entries, p.Entries)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })

	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.SongID
	}
	return ids
}
