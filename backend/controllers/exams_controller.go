package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mehulBhatt911/Studysyn/backend/middleware"
	"github.com/mehulBhatt911/Studysyn/backend/models"
	"github.com/mehulBhatt911/Studysyn/backend/storage"
	"github.com/mehulBhatt911/Studysyn/backend/tracker"
	"github.com/mehulBhatt911/Studysyn/backend/utils"
)

type ExamsController struct {
	Store *storage.Store
	Log   *zap.Logger
}

func NewExamsController(store *storage.Store, log *zap.Logger) *ExamsController {
	return &ExamsController{Store: store, Log: log}
}

// ExamInput is the body of create and edit requests.
type ExamInput struct {
	Name string `json:"name" validate:"notblank"`
	Date string `json:"date" validate:"calendardate"`
}

// CreateExam godoc
// @Summary Create exam countdown
// @Tags exams
// @Accept json
// @Produce json
// @Param input body ExamInput true "Exam data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /exams [post]
func (ec *ExamsController) CreateExam(c *fiber.Ctx) error {
	var input ExamInput
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	exam, err := tracker.NewExam(input.Name, input.Date)
	if err != nil {
		return respondError(c, ec.Log, err)
	}

	writeMu.Lock()
	defer writeMu.Unlock()

	exams, err := ec.Store.LoadExams(c.UserContext())
	if err != nil {
		return respondError(c, ec.Log, err)
	}
	exams = append(exams, models.Exam{Exam: exam})
	if err := ec.Store.SaveExams(c.UserContext(), exams); err != nil {
		return respondError(c, ec.Log, err)
	}

	created := exams[len(exams)-1]
	ec.Log.Info("exam created", zap.String("id", created.ID), zap.String("date", created.Date))
	return utils.Created(c, created)
}

// GetExam godoc
// @Summary View exam countdown
// @Tags exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /exams/{id} [get]
func (ec *ExamsController) GetExam(c *fiber.Ctx) error {
	exams, err := ec.Store.LoadExams(c.UserContext())
	if err != nil {
		return respondError(c, ec.Log, err)
	}
	pos, err := storage.FindExam(exams, c.Params("id"))
	if err != nil {
		return respondError(c, ec.Log, err)
	}

	exam := exams[pos]
	countdown, err := exam.CountdownFor(middleware.TodayFrom(c))
	if err != nil {
		return respondError(c, ec.Log, err)
	}
	return utils.OK(c, models.ExamView{
		Exam:     exam,
		DaysLeft: countdown.DaysLeft,
		Grid:     countdown.Grid,
	})
}

// UpdateExam godoc
// @Summary Edit exam countdown
// @Tags exams
// @Accept json
// @Produce json
// @Param id path string true "Exam ID"
// @Param input body ExamInput true "Exam data"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /exams/{id} [put]
func (ec *ExamsController) UpdateExam(c *fiber.Ctx) error {
	var input ExamInput
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	exam, err := tracker.NewExam(input.Name, input.Date)
	if err != nil {
		return respondError(c, ec.Log, err)
	}

	writeMu.Lock()
	defer writeMu.Unlock()

	exams, err := ec.Store.LoadExams(c.UserContext())
	if err != nil {
		return respondError(c, ec.Log, err)
	}
	pos, err := storage.FindExam(exams, c.Params("id"))
	if err != nil {
		return respondError(c, ec.Log, err)
	}
	exams[pos].Exam = exam
	if err := ec.Store.SaveExams(c.UserContext(), exams); err != nil {
		return respondError(c, ec.Log, err)
	}
	return utils.OK(c, exams[pos])
}

// DeleteExam godoc
// @Summary Delete exam countdown
// @Tags exams
// @Param id path string true "Exam ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /exams/{id} [delete]
func (ec *ExamsController) DeleteExam(c *fiber.Ctx) error {
	writeMu.Lock()
	defer writeMu.Unlock()

	exams, err := ec.Store.LoadExams(c.UserContext())
	if err != nil {
		return respondError(c, ec.Log, err)
	}
	pos, err := storage.FindExam(exams, c.Params("id"))
	if err != nil {
		return respondError(c, ec.Log, err)
	}
	exams = append(exams[:pos], exams[pos+1:]...)
	if err := ec.Store.SaveExams(c.UserContext(), exams); err != nil {
		return respondError(c, ec.Log, err)
	}
	return utils.NoContent(c)
}
