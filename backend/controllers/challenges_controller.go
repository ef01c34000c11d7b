package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mehulBhatt911/Studysyn/backend/middleware"
	"github.com/mehulBhatt911/Studysyn/backend/models"
	"github.com/mehulBhatt911/Studysyn/backend/storage"
	"github.com/mehulBhatt911/Studysyn/backend/tracker"
	"github.com/mehulBhatt911/Studysyn/backend/utils"
)

type ChallengesController struct {
	Store *storage.Store
	Log   *zap.Logger
}

func NewChallengesController(store *storage.Store, log *zap.Logger) *ChallengesController {
	return &ChallengesController{Store: store, Log: log}
}

// ChallengeInput is the body of create and edit requests.
type ChallengeInput struct {
	Name string `json:"name" validate:"notblank"`
	Days int    `json:"days" validate:"min=1,max=3650"`
}

// MarkInput is the body of a mark request.
type MarkInput struct {
	Status tracker.DayStatus `json:"status" validate:"oneof=completed skipped"`
}

// CreateChallenge godoc
// @Summary Start a challenge
// @Description Creates an all-pending challenge starting today
// @Tags challenges
// @Accept json
// @Produce json
// @Param input body ChallengeInput true "Challenge data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /challenges [post]
func (cc *ChallengesController) CreateChallenge(c *fiber.Ctx) error {
	var input ChallengeInput
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	ch, err := tracker.NewChallenge(input.Name, input.Days, middleware.TodayFrom(c))
	if err != nil {
		return respondError(c, cc.Log, err)
	}

	writeMu.Lock()
	defer writeMu.Unlock()

	challenges, err := cc.Store.LoadChallenges(c.UserContext())
	if err != nil {
		return respondError(c, cc.Log, err)
	}
	challenges = append(challenges, models.Challenge{Challenge: ch})
	if err := cc.Store.SaveChallenges(c.UserContext(), challenges); err != nil {
		return respondError(c, cc.Log, err)
	}

	created := challenges[len(challenges)-1]
	cc.Log.Info("challenge created", zap.String("id", created.ID), zap.Int("days", created.Days))
	return utils.Created(c, created)
}

// GetChallenge godoc
// @Summary View challenge
// @Description Skips days missed since the last visit, then returns the calendar and today's actions
// @Tags challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /challenges/{id} [get]
func (cc *ChallengesController) GetChallenge(c *fiber.Ctx) error {
	return cc.apply(c, nil)
}

// MarkDay godoc
// @Summary Mark today
// @Tags challenges
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param input body MarkInput true "completed or skipped"
// @Success 200 {object} utils.SuccessResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /challenges/{id}/mark [post]
func (cc *ChallengesController) MarkDay(c *fiber.Ctx) error {
	var input MarkInput
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	return cc.apply(c, func(ch *models.Challenge, today time.Time) error {
		return ch.Mark(today, input.Status)
	})
}

// UnmarkDay godoc
// @Summary Undo today's completion
// @Tags challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /challenges/{id}/unmark [post]
func (cc *ChallengesController) UnmarkDay(c *fiber.Ctx) error {
	return cc.apply(c, func(ch *models.Challenge, today time.Time) error {
		return ch.Unmark(today)
	})
}

// apply runs one view cycle: validate, backfill, then the optional command.
// The challenge is saved when anything changed and the fresh view is returned.
func (cc *ChallengesController) apply(c *fiber.Ctx, command func(*models.Challenge, time.Time) error) error {
	today := middleware.TodayFrom(c)

	writeMu.Lock()
	defer writeMu.Unlock()

	challenges, err := cc.Store.LoadChallenges(c.UserContext())
	if err != nil {
		return respondError(c, cc.Log, err)
	}
	pos, err := storage.FindChallenge(challenges, c.Params("id"))
	if err != nil {
		return respondError(c, cc.Log, err)
	}

	ch := &challenges[pos]
	if err := ch.Validate(); err != nil {
		return respondError(c, cc.Log, err)
	}

	before := ch.Progress.Count(tracker.StatusSkipped)
	dirty := ch.Backfill(today)
	if dirty {
		cc.Log.Debug("backfilled challenge",
			zap.String("id", ch.ID),
			zap.Int("skipped", ch.Progress.Count(tracker.StatusSkipped)-before),
		)
	}

	var cmdErr error
	if command != nil {
		cmdErr = command(ch, today)
		dirty = dirty || cmdErr == nil
	}

	if dirty {
		if err := cc.Store.SaveChallenges(c.UserContext(), challenges); err != nil {
			return respondError(c, cc.Log, err)
		}
	}
	if cmdErr != nil {
		return respondError(c, cc.Log, cmdErr)
	}
	return utils.OK(c, models.NewChallengeView(*ch, today))
}

// UpdateChallenge godoc
// @Summary Edit challenge
// @Description Renames and resizes a challenge, keeping statuses by day
// @Tags challenges
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param input body ChallengeInput true "Challenge data"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /challenges/{id} [put]
func (cc *ChallengesController) UpdateChallenge(c *fiber.Ctx) error {
	var input ChallengeInput
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	writeMu.Lock()
	defer writeMu.Unlock()

	challenges, err := cc.Store.LoadChallenges(c.UserContext())
	if err != nil {
		return respondError(c, cc.Log, err)
	}
	pos, err := storage.FindChallenge(challenges, c.Params("id"))
	if err != nil {
		return respondError(c, cc.Log, err)
	}
	if err := challenges[pos].Validate(); err != nil {
		return respondError(c, cc.Log, err)
	}

	updated := challenges[pos]
	if err := updated.Rename(input.Name); err != nil {
		return respondError(c, cc.Log, err)
	}
	if err := updated.Resize(input.Days); err != nil {
		return respondError(c, cc.Log, err)
	}
	challenges[pos] = updated

	if err := cc.Store.SaveChallenges(c.UserContext(), challenges); err != nil {
		return respondError(c, cc.Log, err)
	}
	return utils.OK(c, updated)
}

// DeleteChallenge godoc
// @Summary Delete challenge
// @Tags challenges
// @Param id path string true "Challenge ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /challenges/{id} [delete]
func (cc *ChallengesController) DeleteChallenge(c *fiber.Ctx) error {
	writeMu.Lock()
	defer writeMu.Unlock()

	challenges, err := cc.Store.LoadChallenges(c.UserContext())
	if err != nil {
		return respondError(c, cc.Log, err)
	}
	pos, err := storage.FindChallenge(challenges, c.Params("id"))
	if err != nil {
		return respondError(c, cc.Log, err)
	}
	challenges = append(challenges[:pos], challenges[pos+1:]...)
	if err := cc.Store.SaveChallenges(c.UserContext(), challenges); err != nil {
		return respondError(c, cc.Log, err)
	}
	return utils.NoContent(c)
}
