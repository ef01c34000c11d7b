package routes

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mehulBhatt911/Studysyn/backend/config"
	"github.com/mehulBhatt911/Studysyn/backend/models"
	"github.com/mehulBhatt911/Studysyn/backend/storage"
	"github.com/mehulBhatt911/Studysyn/backend/tracker"
	"github.com/mehulBhatt911/Studysyn/backend/utils"
)

// testClock can be moved between requests.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) advance(days int) { c.now = c.now.AddDate(0, 0, days) }

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	store *storage.Store
	clock *testClock
}

func setupTestApp(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{DBDriver: "sqlite", DBPath: ":memory:", CORSOrigins: "*"}
	db, err := utils.InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := storage.New(db)
	require.NoError(t, store.Migrate(context.Background()))

	// 10:00 on 2026-10-14 in Kolkata.
	clock := &testClock{now: time.Date(2026, time.October, 14, 4, 30, 0, 0, time.UTC)}
	return &testEnv{
		app:   NewApp(cfg, store, zap.NewNop(), clock),
		db:    db,
		store: store,
		clock: clock,
	}
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			jsonData, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewBuffer(jsonData)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var result map[string]interface{}
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &result), string(data))
	}
	return resp.StatusCode, result
}

func dataOf(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := result["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", result)
	return data
}

func (e *testEnv) createChallenge(t *testing.T, name string, days int) string {
	t.Helper()
	status, result := e.request(t, http.MethodPost, "/api/challenges", map[string]interface{}{"name": name, "days": days})
	require.Equal(t, fiber.StatusCreated, status, result)
	return dataOf(t, result)["id"].(string)
}

func progressOf(t *testing.T, view map[string]interface{}) []string {
	t.Helper()
	raw := view["challenge"].(map[string]interface{})["progress"].([]interface{})
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = v.(string)
	}
	return out
}

func TestHealth(t *testing.T) {
	e := setupTestApp(t)
	status, result := e.request(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", result["status"])
}

func TestExamLifecycle(t *testing.T) {
	e := setupTestApp(t)

	status, result := e.request(t, http.MethodPost, "/api/exams", map[string]interface{}{
		"name": "  GATE  ",
		"date": "2026-10-20",
	})
	require.Equal(t, fiber.StatusCreated, status)
	created := dataOf(t, result)
	assert.Equal(t, "GATE", created["name"])
	assert.Equal(t, "2026-10-20", created["date"])
	id := created["id"].(string)
	require.NotEmpty(t, id)

	status, result = e.request(t, http.MethodGet, "/api/exams/"+id, nil)
	require.Equal(t, fiber.StatusOK, status)
	view := dataOf(t, result)
	assert.EqualValues(t, 6, view["daysLeft"])

	grid := view["grid"].([]interface{})
	require.Len(t, grid, 1)
	october := grid[0].(map[string]interface{})
	assert.Equal(t, "October 2026", october["monthLabel"])
	assert.EqualValues(t, 3, october["leadingBlanks"])
	days := october["days"].([]interface{})
	require.Len(t, days, 20)
	assert.Equal(t, "past", days[12].(map[string]interface{})["classification"])
	assert.Equal(t, "current", days[13].(map[string]interface{})["classification"])
	assert.Equal(t, "future", days[19].(map[string]interface{})["classification"])

	status, result = e.request(t, http.MethodPut, "/api/exams/"+id, map[string]interface{}{
		"name": "GATE CS",
		"date": "2026-10-10",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, id, dataOf(t, result)["id"])

	// A passed exam counts below zero and has no calendar.
	status, result = e.request(t, http.MethodGet, "/api/exams/"+id, nil)
	require.Equal(t, fiber.StatusOK, status)
	view = dataOf(t, result)
	assert.EqualValues(t, -4, view["daysLeft"])
	assert.Empty(t, view["grid"])

	status, _ = e.request(t, http.MethodDelete, "/api/exams/"+id, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = e.request(t, http.MethodGet, "/api/exams/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestExamValidation(t *testing.T) {
	e := setupTestApp(t)

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"blank name", map[string]interface{}{"name": "   ", "date": "2027-01-01"}, "name"},
		{"impossible date", map[string]interface{}{"name": "GATE", "date": "2027-02-30"}, "date"},
		{"wrong layout", map[string]interface{}{"name": "GATE", "date": "01/02/2027"}, "date"},
		{"missing date", map[string]interface{}{"name": "GATE"}, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, result := e.request(t, http.MethodPost, "/api/exams", tt.body)
			assert.Equal(t, fiber.StatusUnprocessableEntity, status)
			details := result["details"].(map[string]interface{})
			assert.Contains(t, details, tt.field)
		})
	}

	status, result := e.request(t, http.MethodGet, "/api/trackers", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, result["data"], "nothing is saved on invalid input")
}

func TestMalformedBody(t *testing.T) {
	e := setupTestApp(t)
	status, result := e.request(t, http.MethodPost, "/api/challenges", "{not json")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, result["success"])
}

func TestChallengeMarkAndUnmark(t *testing.T) {
	e := setupTestApp(t)
	id := e.createChallenge(t, "Read", 3)

	status, result := e.request(t, http.MethodGet, "/api/challenges/"+id, nil)
	require.Equal(t, fiber.StatusOK, status)
	view := dataOf(t, result)
	assert.Equal(t, "2026-10-16", view["endDate"])
	assert.EqualValues(t, 0, view["dayIndex"])
	assert.Equal(t, true, view["canMarkToday"])
	assert.Equal(t, false, view["canUnmarkToday"])

	status, result = e.request(t, http.MethodPost, "/api/challenges/"+id+"/mark", map[string]interface{}{"status": "completed"})
	require.Equal(t, fiber.StatusOK, status)
	view = dataOf(t, result)
	assert.Equal(t, []string{"completed", "pending", "pending"}, progressOf(t, view))
	assert.EqualValues(t, 1, view["streak"])
	assert.Equal(t, false, view["canMarkToday"])
	assert.Equal(t, true, view["canUnmarkToday"])

	status, _ = e.request(t, http.MethodPost, "/api/challenges/"+id+"/mark", map[string]interface{}{"status": "skipped"})
	assert.Equal(t, fiber.StatusConflict, status, "today is already resolved")

	status, result = e.request(t, http.MethodPost, "/api/challenges/"+id+"/unmark", nil)
	require.Equal(t, fiber.StatusOK, status)
	view = dataOf(t, result)
	assert.Equal(t, []string{"pending", "pending", "pending"}, progressOf(t, view))
	assert.EqualValues(t, 0, view["streak"])

	status, _ = e.request(t, http.MethodPost, "/api/challenges/"+id+"/unmark", nil)
	assert.Equal(t, fiber.StatusConflict, status)

	status, result = e.request(t, http.MethodPost, "/api/challenges/"+id+"/mark", map[string]interface{}{"status": "pending"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, result["details"], "status")
}

func TestChallengeBackfillOnView(t *testing.T) {
	e := setupTestApp(t)
	id := e.createChallenge(t, "Run", 5)

	status, _ := e.request(t, http.MethodPost, "/api/challenges/"+id+"/mark", map[string]interface{}{"status": "completed"})
	require.Equal(t, fiber.StatusOK, status)

	// Three days later days 1 and 2 were missed; day 3 is today.
	e.clock.advance(3)
	status, result := e.request(t, http.MethodGet, "/api/challenges/"+id, nil)
	require.Equal(t, fiber.StatusOK, status)
	view := dataOf(t, result)
	assert.Equal(t, []string{"completed", "skipped", "skipped", "pending", "pending"}, progressOf(t, view))
	assert.EqualValues(t, 0, view["streak"])
	assert.Equal(t, true, view["canMarkToday"])

	stored, err := e.store.LoadChallenges(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].LastUpdated.Equal(tracker.Date(2026, time.October, 17)))

	// A second view on the same day changes nothing.
	status, result = e.request(t, http.MethodGet, "/api/challenges/"+id, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, progressOf(t, view), progressOf(t, dataOf(t, result)))
}

func TestChallengeCompletes(t *testing.T) {
	e := setupTestApp(t)
	id := e.createChallenge(t, "One day", 1)

	status, result := e.request(t, http.MethodPost, "/api/challenges/"+id+"/mark", map[string]interface{}{"status": "completed"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, dataOf(t, result)["isCompleted"], "the period has not elapsed yet")

	e.clock.advance(1)
	status, result = e.request(t, http.MethodGet, "/api/challenges/"+id, nil)
	require.Equal(t, fiber.StatusOK, status)
	view := dataOf(t, result)
	assert.Equal(t, true, view["isCompleted"])
	assert.Equal(t, false, view["canMarkToday"])
	assert.Equal(t, false, view["canUnmarkToday"])

	status, _ = e.request(t, http.MethodPost, "/api/challenges/"+id+"/mark", map[string]interface{}{"status": "completed"})
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestChallengeEdit(t *testing.T) {
	e := setupTestApp(t)
	id := e.createChallenge(t, "Code", 2)

	status, _ := e.request(t, http.MethodPost, "/api/challenges/"+id+"/mark", map[string]interface{}{"status": "completed"})
	require.Equal(t, fiber.StatusOK, status)

	status, result := e.request(t, http.MethodPut, "/api/challenges/"+id, map[string]interface{}{"name": "Code more", "days": 4})
	require.Equal(t, fiber.StatusOK, status)
	updated := dataOf(t, result)
	assert.Equal(t, "Code more", updated["name"])
	assert.EqualValues(t, 4, updated["days"])
	assert.Equal(t, []interface{}{"completed", "pending", "pending", "pending"}, updated["progress"])
	assert.EqualValues(t, 1, updated["streak"])

	status, result = e.request(t, http.MethodPut, "/api/challenges/"+id, map[string]interface{}{"name": "Code", "days": 0})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, result["details"], "days")

	status, _ = e.request(t, http.MethodDelete, "/api/challenges/"+id, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = e.request(t, http.MethodPost, "/api/challenges/"+id+"/mark", map[string]interface{}{"status": "completed"})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestChallengeDaysUpperBound(t *testing.T) {
	e := setupTestApp(t)

	for _, days := range []int{tracker.MaxDays + 1, 1 << 50} {
		status, result := e.request(t, http.MethodPost, "/api/challenges", map[string]interface{}{"name": "Forever", "days": days})
		assert.Equal(t, fiber.StatusUnprocessableEntity, status, "days %d", days)
		assert.Contains(t, result["details"], "days")
	}

	id := e.createChallenge(t, "Decade", tracker.MaxDays)
	status, result := e.request(t, http.MethodPut, "/api/challenges/"+id, map[string]interface{}{"name": "Decade", "days": 1 << 40})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, result["details"], "days")

	status, result = e.request(t, http.MethodGet, "/api/challenges/"+id, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, progressOf(t, dataOf(t, result)), tracker.MaxDays)
}

func TestStorageFailureIsReported(t *testing.T) {
	e := setupTestApp(t)
	id := e.createChallenge(t, "Read", 3)

	sqlDB, err := e.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	status, result := e.request(t, http.MethodPost, "/api/challenges/"+id+"/mark", map[string]interface{}{"status": "completed"})
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, false, result["success"])
	assert.Contains(t, result["message"], "recent edits may not be stored")

	status, result = e.request(t, http.MethodPost, "/api/exams", map[string]interface{}{"name": "GATE", "date": "2027-02-01"})
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, result["message"], "recent edits may not be stored")

	// The server keeps answering.
	status, _ = e.request(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestCorruptedChallenge(t *testing.T) {
	e := setupTestApp(t)
	today := tracker.Date(2026, time.October, 14)
	broken := models.Challenge{Challenge: tracker.Challenge{
		Name:        "Broken",
		Days:        3,
		Progress:    tracker.Progress{tracker.StatusPending},
		LastUpdated: today,
		StartDate:   today,
	}}
	require.NoError(t, e.store.SaveChallenges(context.Background(), []models.Challenge{broken}))

	stored, err := e.store.LoadChallenges(context.Background())
	require.NoError(t, err)
	id := stored[0].ID

	status, result := e.request(t, http.MethodGet, "/api/challenges/"+id, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, result["message"], "Delete it")

	status, result = e.request(t, http.MethodGet, "/api/trackers", nil)
	require.Equal(t, fiber.StatusOK, status)
	cards := result["data"].([]interface{})
	require.Len(t, cards, 1)
	assert.Equal(t, true, cards[0].(map[string]interface{})["corrupted"])

	// Deleting is still allowed.
	status, _ = e.request(t, http.MethodDelete, "/api/challenges/"+id, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestListTrackersOrder(t *testing.T) {
	e := setupTestApp(t)
	e.createChallenge(t, "First challenge", 2)
	for _, name := range []string{"Physics", "Maths"} {
		status, _ := e.request(t, http.MethodPost, "/api/exams", map[string]interface{}{"name": name, "date": "2027-03-01"})
		require.Equal(t, fiber.StatusCreated, status)
	}

	status, result := e.request(t, http.MethodGet, "/api/trackers", nil)
	require.Equal(t, fiber.StatusOK, status)
	cards := result["data"].([]interface{})
	require.Len(t, cards, 3)

	var names []string
	for _, c := range cards {
		names = append(names, c.(map[string]interface{})["name"].(string))
	}
	assert.Equal(t, []string{"Physics", "Maths", "First challenge"}, names)

	meta := result["meta"].(map[string]interface{})
	assert.EqualValues(t, 2, meta["exams"])
	assert.EqualValues(t, 1, meta["challenges"])
}

func TestExportImport(t *testing.T) {
	e := setupTestApp(t)
	e.createChallenge(t, "Stretch", 3)
	status, _ := e.request(t, http.MethodPost, "/api/exams", map[string]interface{}{"name": "GATE", "date": "2027-02-01"})
	require.Equal(t, fiber.StatusCreated, status)

	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")
	backup, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	status, result := e.request(t, http.MethodPost, "/api/import", string(backup))
	require.Equal(t, fiber.StatusOK, status)
	data := dataOf(t, result)
	assert.EqualValues(t, 1, data["exams"])
	assert.EqualValues(t, 1, data["challenges"])

	status, result = e.request(t, http.MethodGet, "/api/trackers", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, result["data"], 4)

	status, _ = e.request(t, http.MethodPost, "/api/import?replace=true", `{"exams": [], "challenges": "bad"}`)
	require.Equal(t, fiber.StatusOK, status)
	status, result = e.request(t, http.MethodGet, "/api/trackers", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, result["data"])
}
