package routes

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/mehulBhatt911/Studysyn/backend/config"
	"github.com/mehulBhatt911/Studysyn/backend/controllers"
	"github.com/mehulBhatt911/Studysyn/backend/middleware"
	"github.com/mehulBhatt911/Studysyn/backend/storage"
	"github.com/mehulBhatt911/Studysyn/backend/tracker"
	"github.com/mehulBhatt911/Studysyn/backend/utils"
)

// NewApp builds the Fiber application with the shared middleware stack and
// every API route registered.
func NewApp(cfg *config.Config, store *storage.Store, logger *zap.Logger, clock tracker.Clock) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "studysyn",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: utils.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.LoggingMiddleware(logger))
	app.Use(middleware.Today(clock))

	SetupRoutes(app, store, logger)
	return app
}

func SetupRoutes(app *fiber.App, store *storage.Store, logger *zap.Logger) {
	api := app.Group("/api")

	trackersController := controllers.NewTrackersController(store, logger)
	api.Get("/health", trackersController.Health)
	api.Get("/trackers", trackersController.ListTrackers)
	api.Get("/export", trackersController.Export)
	api.Post("/import", trackersController.Import)

	// Exam routes
	examsController := controllers.NewExamsController(store, logger)
	exams := api.Group("/exams")
	exams.Post("/", examsController.CreateExam)
	exams.Get("/:id", examsController.GetExam)
	exams.Put("/:id", examsController.UpdateExam)
	exams.Delete("/:id", examsController.DeleteExam)

	// Challenge routes
	challengesController := controllers.NewChallengesController(store, logger)
	challenges := api.Group("/challenges")
	challenges.Post("/", challengesController.CreateChallenge)
	challenges.Get("/:id", challengesController.GetChallenge)
	challenges.Put("/:id", challengesController.UpdateChallenge)
	challenges.Delete("/:id", challengesController.DeleteChallenge)
	challenges.Post("/:id/mark", challengesController.MarkDay)
	challenges.Post("/:id/unmark", challengesController.UnmarkDay)
}
