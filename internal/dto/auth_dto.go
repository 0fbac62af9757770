package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
	"github.com/google/uuid"
)

type LoginRequest struct {
	SecretCode string `json:"secretCode"`
}

type RegisterRequest struct {
	Nickname   string `json:"nickname"`
	SecretCode string `json:"secretCode"`
	Avatar     string `json:"avatar"`
	Color      string `json:"color"`
}

// UpdateProfileRequest is a partial update; absent fields stay unchanged.
type UpdateProfileRequest struct {
	Nickname *string `json:"nickname"`
	Avatar   *string `json:"avatar"`
	Color    *string `json:"color"`
}

type AuthResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Nickname  string    `json:"nickname"`
	Avatar    string    `json:"avatar"`
	Color     string    `json:"color"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Nickname:  u.Nickname,
		Avatar:    u.Avatar,
		Color:     u.Color,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// MemberResponse is the public display identity of a room member.
type MemberResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Color  string    `json:"color"`
}

func NewMemberResponse(u *models.User) MemberResponse {
	return MemberResponse{ID: u.ID, Name: u.Nickname, Avatar: u.Avatar, Color: u.Color}
}
