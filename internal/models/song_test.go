package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"3:00", 180, false},
		{"3:45", 225, false},
		{" 0:07 ", 7, false},
		{"1:02:03", 3723, false},
		{"215", 215, false},
		{"", 0, true},
		{"0:00", 0, true},
		{"3:5", 0, true},
		{"3:60", 0, true},
		{"a:bc", 0, true},
		{"-1", 0, true},
		{"1:2:3:4", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "3:00", FormatDuration(180))
	assert.Equal(t, "0:07", FormatDuration(7))
	assert.Equal(t, "1:02:03", FormatDuration(3723))
}
