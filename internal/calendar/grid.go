package calendar

import (
	"time"

	"github.com/campushub/campushub/internal/model"
)

// Day is one cell of the month grid. Number is 0 for padding cells
// outside the month.
type Day struct {
	Number int           `json:"number"`
	Date   string        `json:"date,omitempty"` // ISO YYYY-MM-DD
	Events []model.Event `json:"events,omitempty"`
}

// Month is a rendered month grid: up to 6 week rows of 7 day columns,
// weeks starting on Sunday.
type Month struct {
	Year  int      `json:"year"`
	Month int      `json:"month"` // 0-based, January = 0
	Title string   `json:"title"`
	Weeks [][7]Day `json:"weeks"`
}

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Prev steps one month back, wrapping the year boundary
// (month 0 goes to the previous year's month 11).
func Prev(year, month int) (int, int) {
	if month == 0 {
		return year - 1, 11
	}
	return year, month - 1
}

// Next steps one month forward, wrapping the year boundary
// (month 11 goes to the next year's month 0).
func Next(year, month int) (int, int) {
	if month == 11 {
		return year + 1, 0
	}
	return year, month + 1
}

// DaysIn returns the number of days in the given 0-based month.
func DaysIn(year, month int) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// EventsByDay buckets events falling in the given month by day number.
func EventsByDay(events []model.Event, year, month int) map[int][]model.Event {
	byDay := make(map[int][]model.Event)
	for _, e := range events {
		d := e.EventDate
		if d.Year() == year && int(d.Month())-1 == month {
			day := d.Day()
			byDay[day] = append(byDay[day], e)
		}
	}
	return byDay
}

// BuildMonth lays out the month grid. The first week is padded with
// empty cells up to the month's starting weekday; trailing cells after
// the last day are empty too.
func BuildMonth(year, month int, events []model.Event) Month {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	firstWeekday := int(first.Weekday()) // 0 = Sunday
	daysInMonth := DaysIn(year, month)
	byDay := EventsByDay(events, year, month)

	m := Month{
		Year:  year,
		Month: month,
		Title: monthNames[month] + " " + first.Format("2006"),
	}

	day := 1
	for week := 0; week < 6 && day <= daysInMonth; week++ {
		var row [7]Day
		for dow := 0; dow < 7; dow++ {
			if (week == 0 && dow < firstWeekday) || day > daysInMonth {
				continue
			}
			row[dow] = Day{
				Number: day,
				Date:   time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
				Events: byDay[day],
			}
			day++
		}
		m.Weeks = append(m.Weeks, row)
	}
	return m
}
