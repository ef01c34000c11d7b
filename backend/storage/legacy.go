package storage

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/mehulBhatt911/Studysyn/backend/models"
	"github.com/mehulBhatt911/Studysyn/backend/tracker"
)

// Backup is the browser-storage payload: one array per entity type, using the
// record field names the browser version stored.
type Backup struct {
	Exams      []tracker.Exam      `json:"exams" yaml:"exams"`
	Challenges []tracker.Challenge `json:"challenges" yaml:"challenges"`
}

// DecodeBackup parses a backup. A section that is missing or malformed is
// treated as empty, and a record that cannot be decoded is dropped; every
// such problem is returned in warnings.
func DecodeBackup(data []byte) (Backup, []string) {
	var (
		out      Backup
		warnings []string
		sections map[string]json.RawMessage
	)
	if err := json.Unmarshal(data, &sections); err != nil {
		return Backup{Exams: []tracker.Exam{}, Challenges: []tracker.Challenge{}},
			[]string{fmt.Sprintf("backup is not a JSON object: %v", err)}
	}

	out.Exams, warnings = decodeSection[tracker.Exam](sections["exams"], "exams", warnings)
	out.Challenges, warnings = decodeSection[tracker.Challenge](sections["challenges"], "challenges", warnings)

	for i := range out.Challenges {
		c := &out.Challenges[i]
		if !c.StartDate.IsZero() {
			c.StartDate = tracker.DayOf(c.StartDate)
		}
		if !c.LastUpdated.IsZero() {
			c.LastUpdated = tracker.DayOf(c.LastUpdated)
		}
	}
	return out, warnings
}

func decodeSection[T any](raw json.RawMessage, name string, warnings []string) ([]T, []string) {
	out := []T{}
	if len(raw) == 0 || string(raw) == "null" {
		return out, warnings
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out, append(warnings, fmt.Sprintf("%s: not an array: %v", name, err))
	}
	for i, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s[%d]: %v", name, i, err))
			continue
		}
		out = append(out, v)
	}
	return out, warnings
}

// EncodeBackup renders stored records in the backup shape.
func EncodeBackup(b Backup) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// BackupOf strips storage fields from stored records.
func BackupOf(exams []models.Exam, challenges []models.Challenge) Backup {
	b := Backup{
		Exams:      make([]tracker.Exam, 0, len(exams)),
		Challenges: make([]tracker.Challenge, 0, len(challenges)),
	}
	for _, e := range exams {
		b.Exams = append(b.Exams, e.Exam)
	}
	for _, c := range challenges {
		b.Challenges = append(b.Challenges, c.Challenge)
	}
	return b
}

// Merge appends the backup's records to the stored sequences, or replaces
// them when replace is set. New records get fresh ids on save.
func Merge(exams []models.Exam, challenges []models.Challenge, b Backup, replace bool) ([]models.Exam, []models.Challenge) {
	if replace {
		exams, challenges = nil, nil
	}
	for _, e := range b.Exams {
		exams = append(exams, models.Exam{Exam: e})
	}
	for _, c := range b.Challenges {
		challenges = append(challenges, models.Challenge{Challenge: c})
	}
	return exams, challenges
}

// Import decodes data and merges it into the stored records in one
// transaction. The decoded backup and its warnings are returned so callers can
// report what was taken.
func (s *Store) Import(ctx context.Context, data []byte, replace bool) (Backup, []string, error) {
	backup, warnings := DecodeBackup(data)

	exams, err := s.LoadExams(ctx)
	if err != nil {
		return backup, warnings, err
	}
	challenges, err := s.LoadChallenges(ctx)
	if err != nil {
		return backup, warnings, err
	}

	exams, challenges = Merge(exams, challenges, backup, replace)
	if err := s.SaveAll(ctx, exams, challenges); err != nil {
		return backup, warnings, err
	}
	return backup, warnings, nil
}

// Export loads every record in the backup shape.
func (s *Store) Export(ctx context.Context) (Backup, error) {
	exams, err := s.LoadExams(ctx)
	if err != nil {
		return Backup{}, err
	}
	challenges, err := s.LoadChallenges(ctx)
	if err != nil {
		return Backup{}, err
	}
	return BackupOf(exams, challenges), nil
}
