package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleSpecial = "special"
)

// User is a listener identity. SecretHash is the SHA-256 digest of the secret
// code and is nil for the system user that owns the demo catalog.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nickname   string    `gorm:"size:64;not null;uniqueIndex" json:"nickname"`
	SecretHash *string   `gorm:"size:64;uniqueIndex" json:"-"`
	Avatar     string    `gorm:"size:64" json:"avatar"`
	Color      string    `gorm:"size:16" json:"color"`
	Role       string    `gorm:"size:20;default:'user'" json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
