package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mehulBhatt911/Studysyn/backend/tracker"
)

const todayKey = "today"

// Today fixes the anchor-zone "today" once per request so every operation in
// the command sees the same date.
func Today(clock tracker.Clock) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(todayKey, tracker.Today(clock.Now()))
		return c.Next()
	}
}

// TodayFrom returns the date stored by Today, or computes it from the system
// clock when the middleware is not installed.
func TodayFrom(c *fiber.Ctx) time.Time {
	if t, ok := c.Locals(todayKey).(time.Time); ok {
		return t
	}
	return tracker.Today(time.Now())
}
