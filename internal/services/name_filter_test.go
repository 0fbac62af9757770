package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPublicName(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		reject bool
	}{
		{"plain", "Friday Jams", false},
		{"cyrillic", "Гість", false},
		{"empty", "", false},
		{"word inside another word", "Classic Passage", false},
		{"banned word", "shit room", true},
		{"banned word any case", "SHIT room", true},
		{"link", "join www.example.com now", true},
		{"scheme link", "https://x.io", true},
		{"email", "me@example.com", true},
		{"repeated runes", "a" + strings.Repeat("!", 8), true},
		{"short repeat", "Yeeeah", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPublicName("room name", tt.text)
			if tt.reject {
				assert.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, err.Error(), "room name")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
