package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mehulBhatt911/Studysyn/backend/middleware"
	"github.com/mehulBhatt911/Studysyn/backend/models"
	"github.com/mehulBhatt911/Studysyn/backend/storage"
	"github.com/mehulBhatt911/Studysyn/backend/utils"
)

// TrackersController serves the home list and whole-dataset backups.
type TrackersController struct {
	Store *storage.Store
	Log   *zap.Logger
}

func NewTrackersController(store *storage.Store, log *zap.Logger) *TrackersController {
	return &TrackersController{Store: store, Log: log}
}

// ListTrackers godoc
// @Summary List trackers
// @Description Exam cards followed by challenge cards, in creation order
// @Tags trackers
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /trackers [get]
func (tc *TrackersController) ListTrackers(c *fiber.Ctx) error {
	exams, err := tc.Store.LoadExams(c.UserContext())
	if err != nil {
		return respondError(c, tc.Log, err)
	}
	challenges, err := tc.Store.LoadChallenges(c.UserContext())
	if err != nil {
		return respondError(c, tc.Log, err)
	}

	today := middleware.TodayFrom(c)
	cards := make([]models.TrackerCard, 0, len(exams)+len(challenges))
	for i, e := range exams {
		cards = append(cards, models.TrackerCard{
			Kind:     "exam",
			Position: i,
			ID:       e.ID,
			Name:     e.Name,
			Date:     e.Date,
		})
	}
	for i := range challenges {
		ch := &challenges[i]
		card := models.TrackerCard{
			Kind:     "challenge",
			Position: i,
			ID:       ch.ID,
			Name:     ch.Name,
			Days:     ch.Days,
		}
		if ch.Validate() != nil {
			card.Corrupted = true
		} else {
			card.IsCompleted = ch.IsCompleted(today)
		}
		cards = append(cards, card)
	}

	return utils.OK(c, cards, fiber.Map{
		"exams":      len(exams),
		"challenges": len(challenges),
	})
}

// Export godoc
// @Summary Export backup
// @Description Returns every record in the browser-storage backup shape
// @Tags backup
// @Produce json
// @Success 200 {object} storage.Backup
// @Router /export [get]
func (tc *TrackersController) Export(c *fiber.Ctx) error {
	backup, err := tc.Store.Export(c.UserContext())
	if err != nil {
		return respondError(c, tc.Log, err)
	}
	data, err := storage.EncodeBackup(backup)
	if err != nil {
		return respondError(c, tc.Log, err)
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="studysyn-backup.json"`)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

// Import godoc
// @Summary Import backup
// @Description Appends records from a backup, or replaces everything with ?replace=true
// @Tags backup
// @Accept json
// @Produce json
// @Param replace query bool false "Replace existing records"
// @Success 200 {object} utils.SuccessResponse
// @Router /import [post]
func (tc *TrackersController) Import(c *fiber.Ctx) error {
	replace := c.QueryBool("replace", false)

	writeMu.Lock()
	defer writeMu.Unlock()

	backup, warnings, err := tc.Store.Import(c.UserContext(), c.Body(), replace)
	if err != nil {
		return respondError(c, tc.Log, err)
	}

	tc.Log.Info("backup imported",
		zap.Int("exams", len(backup.Exams)),
		zap.Int("challenges", len(backup.Challenges)),
		zap.Bool("replace", replace),
		zap.Strings("warnings", warnings),
	)
	return utils.OK(c, fiber.Map{
		"exams":      len(backup.Exams),
		"challenges": len(backup.Challenges),
		"warnings":   warnings,
	})
}

func (tc *TrackersController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
