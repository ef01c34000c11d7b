package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mehulBhatt911/Studysyn/backend/tracker"
)

// Challenge is a stored streak challenge.
type Challenge struct {
	ID                string `json:"id" gorm:"primaryKey;size:36"`
	tracker.Challenge `gorm:"embedded"`
	Seq               int       `json:"-" gorm:"index"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// BeforeCreate assigns the immutable record id.
func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// TrackerCard is one entry on the home list.
type TrackerCard struct {
	Kind        string `json:"kind"` // "exam" or "challenge"
	Position    int    `json:"position"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Date        string `json:"date,omitempty"`
	Days        int    `json:"days,omitempty"`
	IsCompleted bool   `json:"isCompleted"`
	Corrupted   bool   `json:"corrupted,omitempty"`
}

// ChallengeView is everything a client needs to render one challenge.
type ChallengeView struct {
	Challenge      Challenge              `json:"challenge"`
	EndDate        string                 `json:"endDate"`
	DayIndex       int                    `json:"dayIndex"`
	Streak         int                    `json:"streak"`
	IsCompleted    bool                   `json:"isCompleted"`
	CanMarkToday   bool                   `json:"canMarkToday"`
	CanUnmarkToday bool                   `json:"canUnmarkToday"`
	Grid           []tracker.MonthSection `json:"grid"`
}

// ExamView is the countdown page for one exam.
type ExamView struct {
	Exam     Exam                   `json:"exam"`
	DaysLeft int                    `json:"daysLeft"`
	Grid     []tracker.MonthSection `json:"grid"`
}

// NewChallengeView derives the view of c for today. c must be valid.
func NewChallengeView(c Challenge, today time.Time) ChallengeView {
	return ChallengeView{
		Challenge:      c,
		EndDate:        tracker.FormatDate(c.EndDate()),
		DayIndex:       c.DayIndex(today),
		Streak:         c.Streak,
		IsCompleted:    c.IsCompleted(today),
		CanMarkToday:   c.CanMarkToday(today),
		CanUnmarkToday: c.CanUnmarkToday(today),
		Grid:           c.Grid(today),
	}
}
