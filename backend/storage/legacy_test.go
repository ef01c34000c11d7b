package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehulBhatt911/Studysyn/backend/models"
	"github.com/mehulBhatt911/Studysyn/backend/tracker"
)

// Saved by the browser version: midnight IST serialized as UTC.
const browserBackup = `{
  "exams": [{"name": "GATE", "date": "2027-02-01"}],
  "challenges": [{
    "name": "Revise",
    "days": 3,
    "progress": ["completed", "pending", "pending"],
    "streak": 1,
    "lastUpdated": "2026-10-13T18:30:00.000Z",
    "startDate": "2026-10-13T18:30:00.000Z"
  }]
}`

func TestDecodeBrowserBackup(t *testing.T) {
	b, warnings := DecodeBackup([]byte(browserBackup))
	assert.Empty(t, warnings)

	require.Len(t, b.Exams, 1)
	assert.Equal(t, tracker.Exam{Name: "GATE", Date: "2027-02-01"}, b.Exams[0])

	require.Len(t, b.Challenges, 1)
	c := b.Challenges[0]
	assert.Equal(t, "Revise", c.Name)
	assert.Equal(t, today, c.StartDate)
	assert.Equal(t, today, c.LastUpdated)
	assert.Equal(t, 1, c.Streak)
	require.NoError(t, c.Validate())
}

func TestDecodeMalformedSections(t *testing.T) {
	b, warnings := DecodeBackup([]byte(`{"exams": "oops", "challenges": [{"name": "x", "days": "three"}, {"name": "y", "days": 1, "progress": ["pending"]}]}`))

	assert.NotNil(t, b.Exams)
	assert.Empty(t, b.Exams)
	require.Len(t, b.Challenges, 1)
	assert.Equal(t, "y", b.Challenges[0].Name)
	assert.ErrorIs(t, b.Challenges[0].Validate(), tracker.ErrCorruptedRecord, "missing startDate survives decoding")
	assert.Len(t, warnings, 2)
}

func TestDecodeGarbage(t *testing.T) {
	b, warnings := DecodeBackup([]byte("not json"))
	assert.Empty(t, b.Exams)
	assert.Empty(t, b.Challenges)
	assert.Len(t, warnings, 1)

	b, warnings = DecodeBackup([]byte(`{}`))
	assert.Empty(t, b.Exams)
	assert.Empty(t, b.Challenges)
	assert.Empty(t, warnings)
}

func TestEncodeBackupKeepsFieldNames(t *testing.T) {
	ch, err := tracker.NewChallenge("Run", 2, today)
	require.NoError(t, err)
	b := BackupOf(
		[]models.Exam{{ID: "e1", Exam: tracker.Exam{Name: "GATE", Date: "2027-02-01"}}},
		[]models.Challenge{{ID: "c1", Challenge: ch}},
	)

	data, err := EncodeBackup(b)
	require.NoError(t, err)

	for _, key := range []string{`"exams"`, `"challenges"`, `"name"`, `"date"`, `"days"`, `"progress"`, `"streak"`, `"lastUpdated"`, `"startDate"`} {
		assert.Contains(t, string(data), key)
	}
	assert.NotContains(t, string(data), `"id"`)

	back, warnings := DecodeBackup(data)
	assert.Empty(t, warnings)
	assert.Equal(t, b.Exams, back.Exams)
	require.Len(t, back.Challenges, 1)
	assert.True(t, back.Challenges[0].StartDate.Equal(today))
}

func TestMergeImport(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveExams(ctx, []models.Exam{{Exam: tracker.Exam{Name: "Old", Date: "2026-12-01"}}}))
	b, _ := DecodeBackup([]byte(browserBackup))

	exams, err := s.LoadExams(ctx)
	require.NoError(t, err)
	challenges, err := s.LoadChallenges(ctx)
	require.NoError(t, err)

	exams, challenges = Merge(exams, challenges, b, false)
	require.NoError(t, s.SaveExams(ctx, exams))
	require.NoError(t, s.SaveChallenges(ctx, challenges))

	loaded, err := s.LoadExams(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Old", loaded[0].Name)
	assert.Equal(t, "GATE", loaded[1].Name)

	exams, _ = Merge(loaded, nil, b, true)
	require.NoError(t, s.SaveExams(ctx, exams))
	loaded, err = s.LoadExams(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "GATE", loaded[0].Name)
}

func TestStoreImportExport(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	backup, warnings, err := s.Import(ctx, []byte(browserBackup), false)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Len(t, backup.Exams, 1)

	_, _, err = s.Import(ctx, []byte(browserBackup), false)
	require.NoError(t, err)

	out, err := s.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, out.Exams, 2)
	assert.Len(t, out.Challenges, 2)

	_, warnings, err = s.Import(ctx, []byte(`{"exams": [{"name": "Only", "date": "2027-01-01"}]}`), true)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	out, err = s.Export(ctx)
	require.NoError(t, err)
	require.Len(t, out.Exams, 1)
	assert.Equal(t, "Only", out.Exams[0].Name)
	assert.Empty(t, out.Challenges)
}
