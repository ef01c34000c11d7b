package tracker

import (
	"strings"
	"time"
)

// Exam is a fixed-date countdown target. Date is a "YYYY-MM-DD" calendar date.
type Exam struct {
	Name string `json:"name" yaml:"name"`
	Date string `json:"date" yaml:"date"`
}

// NewExam validates and normalizes exam input.
func NewExam(name, date string) (Exam, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Exam{}, invalidField("name", "must not be empty")
	}
	day, err := ParseDate(strings.TrimSpace(date))
	if err != nil {
		return Exam{}, invalidField("date", "must be a YYYY-MM-DD date")
	}
	return Exam{Name: name, Date: FormatDate(day)}, nil
}

// Day returns the exam date as anchor-zone midnight.
func (e *Exam) Day() (time.Time, error) {
	day, err := ParseDate(e.Date)
	if err != nil {
		return time.Time{}, corrupted("exam date %q", e.Date)
	}
	return day, nil
}

// Countdown is the derived view of an exam.
type Countdown struct {
	DaysLeft int            `json:"daysLeft"`
	Grid     []MonthSection `json:"grid"`
}

// CountdownFor computes days remaining and the calendar from today to the
// exam date. DaysLeft goes negative once the exam has passed. The calendar
// covers at most MaxDays days.
func (e *Exam) CountdownFor(today time.Time) (Countdown, error) {
	day, err := e.Day()
	if err != nil {
		return Countdown{}, err
	}
	end := day
	if last := AddDays(today, MaxDays-1); end.After(last) {
		end = last
	}
	return Countdown{
		DaysLeft: DaysBetween(today, day),
		Grid:     BuildGrid(today, end, today, nil),
	}, nil
}
