package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mehulBhatt911/Studysyn/backend/tracker"
)

// Exam is a stored countdown target.
type Exam struct {
	ID           string `json:"id" gorm:"primaryKey;size:36"`
	tracker.Exam `gorm:"embedded"`
	Seq          int       `json:"-" gorm:"index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Exam) TableName() string {
	return "exams"
}

// BeforeCreate assigns the immutable record id.
func (e *Exam) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
