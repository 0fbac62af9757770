package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Song is a catalog entry. Seq is assigned on insert and fixes catalog order
// when songs share a created_at timestamp.
type Song struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Seq             int64     `gorm:"autoIncrement;uniqueIndex;not null" json:"-"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Artist          string    `gorm:"size:200;not null" json:"artist"`
	DurationSeconds int       `gorm:"not null" json:"durationSeconds"`
	MediaURL        string    `gorm:"type:text" json:"url"`
	Color           string    `gorm:"size:16" json:"color"`
	IsDemo          bool      `gorm:"index;default:false" json:"demo"`
	OwnerID         uuid.UUID `gorm:"type:uuid;index;not null" json:"ownerId"`
	Plays           int       `gorm:"default:0" json:"plays"`
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`
}

// ParseDuration accepts "m:ss", "h:mm:ss" or a plain number of seconds.
func ParseDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("duration is empty")
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("duration %q is not m:ss", s)
	}
	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("duration %q is not m:ss", s)
		}
		if i > 0 && (n >= 60 || len(p) != 2) {
			return 0, fmt.Errorf("duration %q is not m:ss", s)
		}
		total = total*60 + n
	}
	if total == 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return total, nil
}

// FormatDuration renders seconds as "m:ss", or "h:mm:ss" from one hour up.
func FormatDuration(seconds int) string {
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
