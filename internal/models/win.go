package models

import (
	"time"

	"github.com/julianstephens/smallwins/internal/calendar"
	"github.com/julianstephens/smallwins/internal/constants"
)

// WinRecord is one user-submitted entry for a calendar day. Records are
// immutable once created; several may share a Date.
type WinRecord struct {
	ID        string       `json:"id"`
	Date      calendar.Day `json:"date"`      // YYYY-MM-DD in the store's timezone
	Text      string       `json:"text"`      // trimmed, 1-280 characters
	Timestamp time.Time    `json:"timestamp"` // creation instant, RFC3339
}

// Stats is a snapshot of the derived statistics shown on the stats screen.
type Stats struct {
	Total         int     `json:"total"`
	ThisWeek      int     `json:"this_week"`
	ThisMonth     int     `json:"this_month"`
	Streak        int     `json:"streak"`
	LongestStreak int     `json:"longest_streak"`
	WeeklyAverage float64 `json:"weekly_average"`
}

// Milestone reports whether the current streak deserves a celebration.
func (s Stats) Milestone() bool {
	return s.Streak >= constants.StreakMilestone
}
