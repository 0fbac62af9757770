package rooms

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
	"github.com/google/uuid"
)

// --- DTOs ---

type CreateRoomRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type JoinRoomRequest struct {
	Code     string `json:"code"`
	Password string `json:"password"`
}

type RoomSummary struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	Host        uuid.UUID  `json:"host"`
	MemberCount int        `json:"memberCount"`
	HasPassword bool       `json:"hasPassword"`
	CurrentSong *uuid.UUID `json:"currentSong"`
	IsPlaying   bool       `json:"isPlaying"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func NewRoomSummary(r *models.Room) RoomSummary {
	return RoomSummary{
		ID:          r.ID,
		Name:        r.Name,
		Code:        r.Code,
		Host:        r.HostID,
		MemberCount: len(r.Members),
		HasPassword: r.HasPassword(),
		CurrentSong: r.CurrentSongID,
		IsPlaying:   r.IsPlaying,
		CreatedAt:   r.CreatedAt,
	}
}

type RoomDetail struct {
	RoomSummary
	Members []dto.MemberResponse `json:"members"`
}
