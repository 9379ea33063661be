package coerce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"0", 0},
		{"42", 42},
		{"1,200", 1200},
		{"1,204,331", 1204331},
		{"1.5k", 1500},
		{"1.2K", 1200},
		{"1.25k", 1250},
		{"2M", 2000000},
		{"3.7m", 3700000},
		{"12K play", 12000},
		{" 15 ", 15},
		{".5k", 500},
		{"-3", -3},
		{"1.5", 1},
	}

	for _, tt := range tests {
		got, err := Number(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestNumberRejects(t *testing.T) {
	for _, raw := range []string{"", "abc", "k", "-", "1.", "1.2.3", "1.5kk", "12 views", "2024-07-01", "99999999999999999999"} {
		_, err := Number(raw)
		assert.ErrorIs(t, err, ErrNotNumeric, raw)
	}
}

func TestTimestamp(t *testing.T) {
	got, err := Timestamp("2024-07-01T12:00:00", "2006-01-02T15:04:05", -4*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC), got)

	got, err = Timestamp(" 2024-07-01 10:30:00 ", "2006-01-02 15:04:05", 0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 1, 10, 30, 0, 0, time.UTC), got)
}

func TestTimestampRejects(t *testing.T) {
	_, err := Timestamp("yesterday", "2006-01-02 15:04:05", 0)
	assert.ErrorIs(t, err, ErrNotATimestamp)

	_, err = Timestamp("2024-07-01 10:30:00", "", 0)
	assert.ErrorIs(t, err, ErrNotATimestamp)
}
