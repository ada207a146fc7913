package wins

import (
	"context"
	"math"

	"github.com/julianstephens/smallwins/internal/calendar"
	"github.com/julianstephens/smallwins/internal/constants"
	"github.com/julianstephens/smallwins/internal/models"
)

// HasWinToday reports whether any record is dated today.
func (s *Store) HasWinToday(ctx context.Context) bool {
	today := s.Today()
	for _, w := range s.GetAllWins(ctx) {
		if w.Date == today {
			return true
		}
	}
	return false
}

// GetStreak returns the number of consecutive days with at least one win,
// ending today. Today counts as pending: without a win today the run ending
// yesterday is reported, and with neither the streak is 0.
func (s *Store) GetStreak(ctx context.Context) int {
	return currentStreak(dateSet(s.GetAllWins(ctx)), s.Today())
}

// GetLongestStreak returns the longest run of consecutive days with at
// least one win over the whole history.
func (s *Store) GetLongestStreak(ctx context.Context) int {
	return longestStreak(dateSet(s.GetAllWins(ctx)))
}

// CountSince returns the number of records dated within the last daysAgo
// days, today included. Every record counts, not every distinct day.
func (s *Store) CountSince(ctx context.Context, daysAgo int) int {
	return countSince(s.GetAllWins(ctx), s.Today(), daysAgo)
}

// GetWeeklyAverage returns total wins divided by the whole weeks elapsed
// since the earliest record, with the divisor floored at 1.
func (s *Store) GetWeeklyAverage(ctx context.Context) float64 {
	return weeklyAverage(s.GetAllWins(ctx), s.Today())
}

// Stats computes every aggregate from a single read of the collection.
func (s *Store) Stats(ctx context.Context) models.Stats {
	wins := s.GetAllWins(ctx)
	today := s.Today()
	days := dateSet(wins)

	return models.Stats{
		Total:         len(wins),
		ThisWeek:      countSince(wins, today, constants.WeekWindowDays),
		ThisMonth:     countSince(wins, today, constants.MonthWindowDays),
		Streak:        currentStreak(days, today),
		LongestStreak: longestStreak(days),
		WeeklyAverage: weeklyAverage(wins, today),
	}
}

// RoundOneDecimal rounds v for display.
func RoundOneDecimal(v float64) float64 {
	scale := math.Pow(10, constants.StatsDecimalPlaces)
	return math.Round(v*scale) / scale
}

func dateSet(wins []models.WinRecord) map[calendar.Day]struct{} {
	days := make(map[calendar.Day]struct{}, len(wins))
	for _, w := range wins {
		days[w.Date] = struct{}{}
	}
	return days
}

func currentStreak(days map[calendar.Day]struct{}, today calendar.Day) int {
	cursor := today
	if _, ok := days[cursor]; !ok {
		cursor = today.AddDays(-1)
	}

	streak := 0
	for {
		if _, ok := days[cursor]; !ok {
			return streak
		}
		streak++
		cursor = cursor.AddDays(-1)
	}
}

func longestStreak(days map[calendar.Day]struct{}) int {
	longest := 0
	for day := range days {
		// Only walk forward from the first day of each run
		if _, ok := days[day.AddDays(-1)]; ok {
			continue
		}
		length := 1
		for next := day.AddDays(1); ; next = next.AddDays(1) {
			if _, ok := days[next]; !ok {
				break
			}
			length++
		}
		if length > longest {
			longest = length
		}
	}
	return longest
}

func countSince(wins []models.WinRecord, today calendar.Day, daysAgo int) int {
	if daysAgo <= 0 {
		return 0
	}
	start := today.AddDays(-(daysAgo - 1))

	count := 0
	for _, w := range wins {
		if !w.Date.Before(start) && !w.Date.After(today) {
			count++
		}
	}
	return count
}

func weeklyAverage(wins []models.WinRecord, today calendar.Day) float64 {
	if len(wins) == 0 {
		return 0
	}

	earliest := wins[0].Date
	for _, w := range wins[1:] {
		if w.Date.Before(earliest) {
			earliest = w.Date
		}
	}

	weeks := calendar.DaysBetween(earliest, today) / constants.DaysPerWeek
	if weeks < 1 {
		weeks = 1
	}
	return float64(len(wins)) / float64(weeks)
}
