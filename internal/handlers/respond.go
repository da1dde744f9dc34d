package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/orders"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/planner"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/repository"
)

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
}

func forbidden(c echo.Context, message string) error {
	return c.JSON(http.StatusForbidden, map[string]string{"error": message})
}

func conflict(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, map[string]string{"error": message})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": message})
}

func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// domainError переводит ошибки доменного слоя в HTTP-ответы. Мягкие
// бизнес-итоги сюда не попадают: они возвращаются как 200 с Outcome.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, planner.ErrPlanExpired), errors.Is(err, orders.ErrOrderExpired):
		return forbidden(c, "week is expired")
	case errors.Is(err, planner.ErrMenuPublished):
		return conflict(c, "assigned menu is published")
	case errors.Is(err, planner.ErrQuotaExceeded):
		return conflict(c, "menu quota exceeded")
	case errors.Is(err, planner.ErrMenuNotAssigned):
		return notFound(c, "menu is not assigned")
	case errors.Is(err, orders.ErrInvalidStatus), errors.Is(err, repository.ErrInvalid):
		return badRequest(c, "invalid request")
	case errors.Is(err, repository.ErrNotFound):
		return notFound(c, "not found")
	case errors.Is(err, repository.ErrConflict):
		return conflict(c, "concurrent modification, retry")
	default:
		return serverError(c)
	}
}

func pathYearWeek(c echo.Context) (int, int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return 0, 0, err
	}

	week, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		return 0, 0, err
	}

	if err := planner.ValidateYearWeek(year, week); err != nil {
		return 0, 0, err
	}

	return year, week, nil
}

func pathDay(c echo.Context) (int, error) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		return 0, err
	}
	if day < 0 || day > 6 {
		return 0, repository.ErrInvalid
	}
	return day, nil
}

func validDays(days []int) bool {
	if len(days) == 0 {
		return false
	}
	for _, day := range days {
		if day < 0 || day > 6 {
			return false
		}
	}
	return true
}

// PlanEnvelope — ответ операций над планом: итог и актуальное состояние.
type PlanEnvelope struct {
	Status   planner.OutcomeStatus `json:"status"`
	Message  *planner.Detail       `json:"message,omitempty"`
	Warnings []planner.Detail      `json:"warnings,omitempty"`
	Plan     *models.WeeklyPlan    `json:"weekly_plan,omitempty"`
}

func planEnvelope(outcome planner.Outcome, plan *models.WeeklyPlan) PlanEnvelope {
	return PlanEnvelope{
		Status:   outcome.Status,
		Message:  outcome.Message,
		Warnings: outcome.Warnings,
		Plan:     plan,
	}
}
