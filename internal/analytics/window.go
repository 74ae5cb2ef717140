package analytics

import (
	"time"

	"github.com/Blue-Davinci/WealthWise/internal/data"
)

// DateWindow holds the canonical calendar windows that every calculation
// in a single analytics request is evaluated against. It is built once per
// request from an injected reference instant and never shared.
type DateWindow struct {
	Now                  time.Time
	CurrentMonthStart    time.Time
	CurrentMonthEnd      time.Time
	LastMonthStart       time.Time
	LastMonthEnd         time.Time
	ThreeMonthsAgo       time.Time
	Today                time.Time
	DaysElapsedInMonth   int
	DaysRemainingInMonth int
	TotalDaysInMonth     int
}

// Epoch is the start of the "all time" window used for balances.
var Epoch = time.Unix(0, 0).UTC()

// NewDateWindow derives the request's windows from now. All instants share
// now's location so month boundaries follow the caller's calendar.
func NewDateWindow(now time.Time) DateWindow {
	loc := now.Location()
	year, month, day := now.Date()

	currentMonthStart := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	lastMonthStart := currentMonthStart.AddDate(0, -1, 0)
	totalDays := daysIn(year, month, loc)

	return DateWindow{
		Now:                  now,
		CurrentMonthStart:    currentMonthStart,
		CurrentMonthEnd:      endOfDay(time.Date(year, month, totalDays, 0, 0, 0, 0, loc)),
		LastMonthStart:       lastMonthStart,
		LastMonthEnd:         currentMonthStart.Add(-time.Nanosecond),
		ThreeMonthsAgo:       currentMonthStart.AddDate(0, -2, 0),
		Today:                now,
		DaysElapsedInMonth:   day,
		DaysRemainingInMonth: totalDays - day,
		TotalDaysInMonth:     totalDays,
	}
}

// PeriodWindow is the calendar span a budget is paced against.
type PeriodWindow struct {
	Start         time.Time
	End           time.Time
	DaysElapsed   int
	DaysRemaining int
	TotalDays     int
}

// PeriodWindow returns the window containing w.Now for the given budget
// period. Weekly periods run Monday to Sunday. Unknown periods fall back to
// the calendar month.
func (w DateWindow) PeriodWindow(period data.BudgetPeriod) PeriodWindow {
	loc := w.Now.Location()
	year, month, day := w.Now.Date()

	switch period {
	case data.BudgetPeriodWeekly:
		// time.Weekday starts on Sunday; shift so Monday is day 1.
		offset := (int(w.Now.Weekday()) + 6) % 7
		start := time.Date(year, month, day-offset, 0, 0, 0, 0, loc)
		return PeriodWindow{
			Start:         start,
			End:           endOfDay(start.AddDate(0, 0, 6)),
			DaysElapsed:   offset + 1,
			DaysRemaining: 6 - offset,
			TotalDays:     7,
		}
	case data.BudgetPeriodYearly:
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		total := time.Date(year, time.December, 31, 0, 0, 0, 0, loc).YearDay()
		elapsed := w.Now.YearDay()
		return PeriodWindow{
			Start:         start,
			End:           endOfDay(time.Date(year, time.December, 31, 0, 0, 0, 0, loc)),
			DaysElapsed:   elapsed,
			DaysRemaining: total - elapsed,
			TotalDays:     total,
		}
	default:
		return PeriodWindow{
			Start:         w.CurrentMonthStart,
			End:           w.CurrentMonthEnd,
			DaysElapsed:   w.DaysElapsedInMonth,
			DaysRemaining: w.DaysRemainingInMonth,
			TotalDays:     w.TotalDaysInMonth,
		}
	}
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
