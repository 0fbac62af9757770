package rooms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/store"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxRoomNameLen = 120
	// bcrypt ignores everything past 72 bytes
	maxPasswordLen = 72
)

var ErrCodeSpaceExhausted = errors.New("could not allocate a unique room code")

type Store interface {
	store.RoomStore
	GetUsers(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
}

type RoomService struct {
	store        Store
	codeAttempts int
	newCode      func() (string, error)
}

func NewRoomService(st Store, cfg *config.Config) *RoomService {
	attempts := cfg.RoomCodeAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &RoomService{store: st, codeAttempts: attempts, newCode: NewJoinCode}
}

// CreateRoom makes hostID the first member of a new room. Join code
// collisions reported by the store are retried with a fresh code.
func (s *RoomService) CreateRoom(ctx context.Context, hostID uuid.UUID, req CreateRoomRequest) (*RoomSummary, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, services.Validation("room name is required")
	}
	if utf8.RuneCountInString(name) > maxRoomNameLen {
		return nil, services.Validation("room name must be at most %d characters", maxRoomNameLen)
	}
	if err := services.CheckPublicName("room name", name); err != nil {
		return nil, err
	}

	var passwordHash string
	if req.Password != "" {
		if len(req.Password) > maxPasswordLen {
			return nil, services.Validation("room password must be at most %d bytes", maxPasswordLen)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash room password: %w", err)
		}
		passwordHash = string(hash)
	}

	for attempt := 1; attempt <= s.codeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate room code: %w", err)
		}

		room := &models.Room{
			ID:           uuid.New(),
			Name:         name,
			Code:         code,
			PasswordHash: passwordHash,
			HostID:       hostID,
			Members:      []models.RoomMember{{UserID: hostID}},
		}
		err = s.store.CreateRoom(ctx, room)
		if errors.Is(err, store.ErrDuplicate) {
			slog.Warn("room code collision, retrying", "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create room: %w", err)
		}

		slog.Info("room created", "room_id", room.ID.String(), "user_id", hostID.String())
		summary := NewRoomSummary(room)
		return &summary, nil
	}

	return nil, ErrCodeSpaceExhausted
}

// JoinRoom adds userID to the room's members. A wrong password is Forbidden
// and leaves membership untouched; joining twice is a no-op.
func (s *RoomService) JoinRoom(ctx context.Context, userID uuid.UUID, req JoinRoomRequest) (*RoomSummary, error) {
	code := NormalizeCode(req.Code)
	if code == "" {
		return nil, services.Validation("room code is required")
	}

	room, err := s.roomByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if room.HasPassword() {
		if bcrypt.CompareHashAndPassword([]byte(room.PasswordHash), []byte(req.Password)) != nil {
			return nil, services.Forbidden("wrong room password")
		}
	}

	room, err = s.store.AddRoomMember(ctx, room.ID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, services.NotFound("room not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to join room: %w", err)
	}

	summary := NewRoomSummary(room)
	return &summary, nil
}

// GetRoomDetail is member only. Non-members get NotFound so room existence
// does not leak.
func (s *RoomService) GetRoomDetail(ctx context.Context, code string, callerID uuid.UUID) (*RoomDetail, error) {
	room, err := s.roomByCode(ctx, NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if !room.IsMember(callerID) {
		return nil, services.NotFound("room not found")
	}

	ids := room.MemberIDs()
	users, err := s.store.GetUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve room members: %w", err)
	}
	byID := make(map[uuid.UUID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	members := make([]dto.MemberResponse, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			members = append(members, dto.NewMemberResponse(u))
		}
	}

	return &RoomDetail{RoomSummary: NewRoomSummary(room), Members: members}, nil
}

// RecordPlayback stores the room's playback pointer. roomRef is either the
// room id or its join code. A nil songID keeps the current song.
func (s *RoomService) RecordPlayback(ctx context.Context, roomRef string, songID *uuid.UUID, playing bool) error {
	roomID, err := uuid.Parse(roomRef)
	if err != nil {
		room, lookupErr := s.roomByCode(ctx, NormalizeCode(roomRef))
		if lookupErr != nil {
			return lookupErr
		}
		roomID = room.ID
	}

	err = s.store.UpdatePlayback(ctx, roomID, songID, playing)
	if errors.Is(err, store.ErrNotFound) {
		return services.NotFound("room not found")
	}
	return err
}

func (s *RoomService) roomByCode(ctx context.Context, code string) (*models.Room, error) {
	if !ValidCode(code) {
		return nil, services.NotFound("room not found")
	}
	room, err := s.store.GetRoomByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, services.NotFound("room not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load room: %w", err)
	}
	return room, nil
}
