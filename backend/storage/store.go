// Package storage persists exam and challenge records with load-all/save-all
// semantics. Each save replaces the full sequence for one entity type inside a
// single transaction.
package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mehulBhatt911/Studysyn/backend/models"
)

var (
	// ErrStorageFailure wraps any database error. In-memory state may have
	// diverged from what is persisted.
	ErrStorageFailure = errors.New("storage failure")
	// ErrNotFound is returned when no record has the requested id or position.
	ErrNotFound = errors.New("record not found")
)

// Store is the GORM-backed entity store.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the exam and challenge tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Exam{}, &models.Challenge{}); err != nil {
		return fmt.Errorf("%w: migrate: %v", ErrStorageFailure, err)
	}
	return nil
}

// LoadExams returns every exam in list order.
func (s *Store) LoadExams(ctx context.Context) ([]models.Exam, error) {
	return loadAll[models.Exam](ctx, s.db)
}

// SaveExams replaces the stored exams with exams.
func (s *Store) SaveExams(ctx context.Context, exams []models.Exam) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		return replaceRows(tx, exams, examIDs(exams))
	})
}

// LoadChallenges returns every challenge in list order.
func (s *Store) LoadChallenges(ctx context.Context) ([]models.Challenge, error) {
	return loadAll[models.Challenge](ctx, s.db)
}

// SaveChallenges replaces the stored challenges with challenges.
func (s *Store) SaveChallenges(ctx context.Context, challenges []models.Challenge) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		return replaceRows(tx, challenges, challengeIDs(challenges))
	})
}

// SaveAll replaces both sequences in one transaction.
func (s *Store) SaveAll(ctx context.Context, exams []models.Exam, challenges []models.Challenge) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := replaceRows(tx, exams, examIDs(exams)); err != nil {
			return err
		}
		return replaceRows(tx, challenges, challengeIDs(challenges))
	})
}

func (s *Store) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := s.db.WithContext(ctx).Transaction(fn); err != nil {
		return fmt.Errorf("%w: save: %v", ErrStorageFailure, err)
	}
	return nil
}

func examIDs(exams []models.Exam) []string {
	ids := make([]string, 0, len(exams))
	for i := range exams {
		exams[i].Seq = i
		if exams[i].ID != "" {
			ids = append(ids, exams[i].ID)
		}
	}
	return ids
}

func challengeIDs(challenges []models.Challenge) []string {
	ids := make([]string, 0, len(challenges))
	for i := range challenges {
		challenges[i].Seq = i
		if challenges[i].ID != "" {
			ids = append(ids, challenges[i].ID)
		}
	}
	return ids
}

func loadAll[T any](ctx context.Context, db *gorm.DB) ([]T, error) {
	var rows []T
	if err := db.WithContext(ctx).Order("seq").Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: load: %v", ErrStorageFailure, err)
	}
	return rows, nil
}

// replaceRows deletes rows whose id is not in keep, then upserts rows.
func replaceRows[T any](tx *gorm.DB, rows []T, keep []string) error {
	var model T
	del := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	if len(keep) > 0 {
		del = del.Where("id NOT IN ?", keep)
	}
	if err := del.Delete(&model).Error; err != nil {
		return err
	}
	for i := range rows {
		if err := tx.Save(&rows[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindExam returns the position of the exam with id.
func FindExam(exams []models.Exam, id string) (int, error) {
	for i := range exams {
		if exams[i].ID == id {
			return i, nil
		}
	}
	return -1, ErrNotFound
}

// FindChallenge returns the position of the challenge with id.
func FindChallenge(challenges []models.Challenge, id string) (int, error) {
	for i := range challenges {
		if challenges[i].ID == id {
			return i, nil
		}
	}
	return -1, ErrNotFound
}
