package controllers

import (
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mehulBhatt911/Studysyn/backend/storage"
	"github.com/mehulBhatt911/Studysyn/backend/tracker"
	"github.com/mehulBhatt911/Studysyn/backend/utils"
)

// writeMu serializes the load-mutate-save cycle of every mutating command.
var writeMu sync.Mutex

const corruptedHint = "This record is damaged. Delete it and create it again."

func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var fe *tracker.FieldError
	switch {
	case errors.As(err, &fe):
		return utils.ValidationError(c, map[string]string{fe.Field: fe.Message})
	case errors.Is(err, tracker.ErrValidation):
		return utils.ValidationError(c, map[string]string{"_": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		return utils.NotFound(c, "Tracker not found")
	case errors.Is(err, tracker.ErrCorruptedRecord):
		log.Warn("corrupted record", zap.String("path", c.Path()), zap.Error(err))
		return utils.Conflict(c, corruptedHint, err.Error())
	case errors.Is(err, tracker.ErrInvalidTransition):
		return utils.Conflict(c, "Today's day cannot be changed that way")
	case errors.Is(err, storage.ErrStorageFailure):
		log.Error("storage failure", zap.String("path", c.Path()), zap.Error(err))
		return utils.InternalServerError(c, "Could not save changes; recent edits may not be stored")
	default:
		log.Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
		return utils.InternalServerError(c, "Something went wrong")
	}
}

// parseBody decodes and validates the request body. When it reports false the
// error response has already been written.
func parseBody(c *fiber.Ctx, input interface{}) (bool, error) {
	if err := c.BodyParser(input); err != nil {
		return false, utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return false, utils.ValidationError(c, errs)
	}
	return true, nil
}
