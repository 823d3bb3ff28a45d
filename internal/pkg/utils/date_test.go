package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

func TestToday(t *testing.T) {
	// 01:30 UTC is still the previous day at UTC-3
	now := time.Date(2024, 3, 10, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-09", Today(now, saoPaulo))
	assert.Equal(t, "2024-03-10", Today(now, time.UTC))
}

func TestDayBounds(t *testing.T) {
	start, end, err := DayBounds("2024-02-29", saoPaulo)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, saoPaulo), start)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, saoPaulo), end)

	_, _, err = DayBounds("2024-02-30", saoPaulo)
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, _, err = DayBounds("29/02/2024", saoPaulo)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestStartOfMonth(t *testing.T) {
	got := StartOfMonth(time.Date(2024, 3, 31, 18, 0, 0, 0, saoPaulo), saoPaulo)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, saoPaulo), got)
}

func TestResolveDate(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

	got, err := ResolveDate("", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-20", got)

	got, err = ResolveDate("2024-01-02", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", got)

	_, err = ResolveDate("tomorrow", now, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)
}
