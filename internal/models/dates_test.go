package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWoWDateRange(t *testing.T) {
	asOf := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	dr := NewWoWDateRange(asOf)

	assert.Equal(t, "2026-01-08", dr.Start)
	assert.Equal(t, "2026-01-14", dr.End)
	assert.Equal(t, "2026-01-01", dr.ComparisonStart)
	assert.Equal(t, "2026-01-07", dr.ComparisonEnd)
}

func TestNewWoWDateRangeMonthBoundary(t *testing.T) {
	asOf := time.Date(2026, 3, 2, 1, 30, 0, 0, time.UTC)
	dr := NewWoWDateRange(asOf)

	assert.Equal(t, "2026-02-23", dr.Start)
	assert.Equal(t, "2026-03-01", dr.End)
	assert.Equal(t, "2026-02-16", dr.ComparisonStart)
	assert.Equal(t, "2026-02-22", dr.ComparisonEnd)
}

func TestNewWoWDateRangeYearBoundary(t *testing.T) {
	asOf := time.Date(2026, 1, 1, 23, 59, 59, 0, time.UTC)
	dr := NewWoWDateRange(asOf)

	assert.Equal(t, "2025-12-25", dr.Start)
	assert.Equal(t, "2025-12-31", dr.End)
	assert.Equal(t, "2025-12-18", dr.ComparisonStart)
	assert.Equal(t, "2025-12-24", dr.ComparisonEnd)
}

// Both windows are exactly seven days and contiguous for every day of a
// whole year.
func TestWoWWindowsAlwaysContiguousSevenDays(t *testing.T) {
	day := 24 * time.Hour
	for d := 0; d < 366; d++ {
		asOf := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, d)
		dr := NewWoWDateRange(asOf)

		curStart, curEnd := dr.CurrentBounds()
		prevStart, prevEnd := dr.PreviousBounds()

		require.Equal(t, 7*day, curEnd.Sub(curStart), "asOf=%s", asOf)
		require.Equal(t, 7*day, prevEnd.Sub(prevStart), "asOf=%s", asOf)
		require.Equal(t, curStart, prevEnd, "windows must touch, asOf=%s", asOf)

		// current window ends the day before asOf
		require.Equal(t, asOf.Truncate(day), curEnd, "asOf=%s", asOf)
	}
}

func TestBusinessDate(t *testing.T) {
	khi, err := time.LoadLocation("Asia/Karachi")
	require.NoError(t, err)

	// 21:00 UTC is already the next calendar day in Karachi (UTC+5)
	utc := time.Date(2026, 5, 10, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-05-11", BusinessDate(utc, khi))
	assert.Equal(t, "2026-05-10", BusinessDate(utc, time.UTC))
}
