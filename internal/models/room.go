package models

import (
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string       `gorm:"size:120;not null" json:"name"`
	Code          string       `gorm:"size:6;not null;uniqueIndex" json:"code"`
	PasswordHash  string       `gorm:"size:60" json:"-"`
	HostID        uuid.UUID    `gorm:"type:uuid;index;not null" json:"hostId"`
	CurrentSongID *uuid.UUID   `gorm:"type:uuid" json:"currentSong"`
	IsPlaying     bool         `gorm:"default:false" json:"isPlaying"`
	Members       []RoomMember `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

func (r *Room) HasPassword() bool {
	return r.PasswordHash != ""
}

func (r *Room) IsMember(userID uuid.UUID) bool {
	for _, m := range r.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// MemberIDs returns member ids in join order.
func (r *Room) MemberIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Members))
	for i, m := range r.Members {
		ids[i] = m.UserID
	}
	return ids
}

type RoomMember struct {
	RoomID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"roomId"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	JoinedAt time.Time `gorm:"index" json:"joinedAt"`
}
