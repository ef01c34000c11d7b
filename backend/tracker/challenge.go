package tracker

import (
	"fmt"
	"strings"
	"time"
)

// DayStatus is the state of one challenge day.
type DayStatus string

const (
	StatusPending   DayStatus = "pending"
	StatusCompleted DayStatus = "completed"
	StatusSkipped   DayStatus = "skipped"
)

// Valid reports whether s is one of the known statuses.
func (s DayStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusSkipped:
		return true
	}
	return false
}

// Progress holds one status per challenge day, index 0 being the start date.
type Progress []DayStatus

// NewProgress returns an all-pending progress of the given length.
func NewProgress(days int) Progress {
	p := make(Progress, days)
	for i := range p {
		p[i] = StatusPending
	}
	return p
}

// FirstPending returns the index of the earliest pending slot, or -1.
func (p Progress) FirstPending() int {
	for i, s := range p {
		if s == StatusPending {
			return i
		}
	}
	return -1
}

// Count returns how many slots hold status s.
func (p Progress) Count(s DayStatus) int {
	n := 0
	for _, v := range p {
		if v == s {
			n++
		}
	}
	return n
}

// MaxDays bounds a challenge length and the span of an exam calendar.
const MaxDays = 3650

// Challenge is a fixed-duration streak goal. Field names match the stored
// record shape.
type Challenge struct {
	Name        string    `json:"name" yaml:"name"`
	Days        int       `json:"days" yaml:"days"`
	Progress    Progress  `json:"progress" yaml:"progress" gorm:"serializer:json"`
	Streak      int       `json:"streak" yaml:"streak"`
	LastUpdated time.Time `json:"lastUpdated" yaml:"lastUpdated"`
	StartDate   time.Time `json:"startDate" yaml:"startDate"`
}

// NewChallenge starts a challenge today.
func NewChallenge(name string, days int, today time.Time) (Challenge, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Challenge{}, invalidField("name", "must not be empty")
	}
	if err := checkDays(days); err != nil {
		return Challenge{}, err
	}
	today = DayOf(today)
	return Challenge{
		Name:        name,
		Days:        days,
		Progress:    NewProgress(days),
		LastUpdated: today,
		StartDate:   today,
	}, nil
}

func checkDays(days int) error {
	switch {
	case days < 1:
		return invalidField("days", "must be at least 1")
	case days > MaxDays:
		return invalidField("days", fmt.Sprintf("must be at most %d", MaxDays))
	}
	return nil
}

// Validate checks the record shape. Every transition assumes it passed.
func (c *Challenge) Validate() error {
	switch {
	case c.StartDate.IsZero():
		return corrupted("missing startDate")
	case c.LastUpdated.IsZero():
		return corrupted("missing lastUpdated")
	case c.Days < 1 || c.Days > MaxDays:
		return corrupted("days must be between 1 and %d, got %d", MaxDays, c.Days)
	case len(c.Progress) != c.Days:
		return corrupted("progress has %d entries for %d days", len(c.Progress), c.Days)
	case c.Streak < 0:
		return corrupted("negative streak %d", c.Streak)
	}
	for i, s := range c.Progress {
		if !s.Valid() {
			return corrupted("unknown status %q at day %d", s, i)
		}
	}
	return nil
}

// EndDate is the last day of the challenge period.
func (c *Challenge) EndDate() time.Time {
	return AddDays(c.StartDate, c.Days-1)
}

// DayIndex is today's offset from the start date. It may fall outside
// [0, Days).
func (c *Challenge) DayIndex(today time.Time) int {
	return DaysBetween(c.StartDate, today)
}

func (c *Challenge) slot(today time.Time) (int, bool) {
	idx := c.DayIndex(today)
	return idx, idx >= 0 && idx < len(c.Progress)
}

// IsCompleted is true once no day is pending and the period has elapsed.
func (c *Challenge) IsCompleted(today time.Time) bool {
	return c.Progress.FirstPending() == -1 && DayOf(today).After(c.EndDate())
}

// Backfill turns days that passed without a mark into skips. It only runs
// when lastUpdated is before today and reports whether it did. Only slots
// before today's index are skipped, so today stays markable.
func (c *Challenge) Backfill(today time.Time) bool {
	today = DayOf(today)
	if !DayOf(c.LastUpdated).Before(today) {
		return false
	}
	missed := DaysBetween(c.LastUpdated, today)
	current := c.DayIndex(today)
	skipped := false
	for i := 0; i < missed; i++ {
		next := c.Progress.FirstPending()
		if next == -1 || next >= current {
			break
		}
		c.Progress[next] = StatusSkipped
		skipped = true
	}
	if skipped {
		c.Streak = 0
	}
	c.LastUpdated = today
	return true
}

// CanMarkToday reports whether today's slot accepts a mark.
func (c *Challenge) CanMarkToday(today time.Time) bool {
	if c.IsCompleted(today) {
		return false
	}
	idx, ok := c.slot(today)
	return ok && c.Progress[idx] == StatusPending
}

// Mark resolves today's pending slot as completed or skipped.
func (c *Challenge) Mark(today time.Time, status DayStatus) error {
	if status != StatusCompleted && status != StatusSkipped {
		return invalidField("status", "must be completed or skipped")
	}
	idx, ok := c.slot(today)
	if !ok {
		return ErrInvalidTransition
	}
	if c.Progress[idx] != StatusPending {
		return ErrInvalidTransition
	}
	c.Progress[idx] = status
	if status == StatusCompleted {
		c.Streak++
	} else {
		c.Streak = 0
	}
	c.LastUpdated = DayOf(today)
	return nil
}

// CanUnmarkToday reports whether today's completed slot may be undone.
func (c *Challenge) CanUnmarkToday(today time.Time) bool {
	if c.IsCompleted(today) {
		return false
	}
	idx, ok := c.slot(today)
	return ok && c.Progress[idx] == StatusCompleted
}

// Unmark reverts today's completed slot to pending.
func (c *Challenge) Unmark(today time.Time) error {
	idx, ok := c.slot(today)
	if !ok || c.Progress[idx] != StatusCompleted {
		return ErrInvalidTransition
	}
	c.Progress[idx] = StatusPending
	if c.Streak > 0 {
		c.Streak--
	}
	c.LastUpdated = DayOf(today)
	return nil
}

// Resize changes the challenge length, keeping statuses by index and padding
// with pending. Streak and lastUpdated are left alone.
func (c *Challenge) Resize(days int) error {
	if err := checkDays(days); err != nil {
		return err
	}
	next := NewProgress(days)
	copy(next, c.Progress)
	c.Progress = next
	c.Days = days
	return nil
}

// Rename replaces the challenge name.
func (c *Challenge) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalidField("name", "must not be empty")
	}
	c.Name = name
	return nil
}

// Grid lays the challenge period out as calendar months.
func (c *Challenge) Grid(today time.Time) []MonthSection {
	return BuildGrid(c.StartDate, c.EndDate(), today, c.Progress)
}
