package tracker

import (
	"fmt"
	"time"
)

// Classification labels one calendar cell.
type Classification string

const (
	ClassPast      Classification = "past"
	ClassCurrent   Classification = "current"
	ClassFuture    Classification = "future"
	ClassCompleted Classification = "completed"
	ClassSkipped   Classification = "skipped"
	ClassPending   Classification = "pending"
)

// WeekdayHeader is the fixed Monday-first column order.
var WeekdayHeader = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DayCell is one rendered day.
type DayCell struct {
	DayNumber      int            `json:"dayNumber"`
	Date           string         `json:"date"`
	Classification Classification `json:"classification"`
}

// MonthSection is the grid for one calendar month.
type MonthSection struct {
	MonthLabel    string    `json:"monthLabel"`
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	WeekdayHeader [7]string `json:"weekdayHeader"`
	LeadingBlanks int       `json:"leadingBlanks"`
	Days          []DayCell `json:"days"`
}

// LeadingBlanks returns how many Monday-first columns precede the 1st of the
// month containing day.
func LeadingBlanks(day time.Time) int {
	first := Date(day.In(anchor).Year(), day.In(anchor).Month(), 1)
	return (int(first.Weekday()) + 6) % 7
}

// BuildGrid partitions [start, end] into month sections. Each month is laid
// out from its 1st so that leading blanks line up; the last month stops at
// end. Cells inside [start, start+len(progress)) take their class from
// progress, all others are classified against today.
func BuildGrid(start, end, today time.Time, progress Progress) []MonthSection {
	start, end, today = DayOf(start), DayOf(end), DayOf(today)
	if end.Before(start) {
		return nil
	}

	var sections []MonthSection
	cursor := Date(start.Year(), start.Month(), 1)
	for !cursor.After(end) {
		year, month := cursor.Year(), cursor.Month()
		section := MonthSection{
			MonthLabel:    fmt.Sprintf("%s %d", month, year),
			Year:          year,
			Month:         int(month),
			WeekdayHeader: WeekdayHeader,
			LeadingBlanks: LeadingBlanks(cursor),
		}
		for cursor.Month() == month && !cursor.After(end) {
			section.Days = append(section.Days, DayCell{
				DayNumber:      cursor.Day(),
				Date:           FormatDate(cursor),
				Classification: classify(cursor, start, today, progress),
			})
			cursor = cursor.AddDate(0, 0, 1)
		}
		sections = append(sections, section)
	}
	return sections
}

func classify(day, start, today time.Time, progress Progress) Classification {
	if progress != nil && !day.Before(start) {
		if idx := DaysBetween(start, day); idx < len(progress) {
			switch progress[idx] {
			case StatusCompleted:
				return ClassCompleted
			case StatusSkipped:
				return ClassSkipped
			case StatusPending:
				return ClassPending
			}
		}
	}
	switch {
	case day.Before(today):
		return ClassPast
	case day.Equal(today):
		return ClassCurrent
	default:
		return ClassFuture
	}
}
