package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/auth"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/ingredients"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/orders"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/planner"
)

type IngredientsHandler struct {
	Orders *orders.Service
}

// NewIngredientsHandler создает обработчик отчетов по ингредиентам.
func NewIngredientsHandler(service *orders.Service) *IngredientsHandler {
	return &IngredientsHandler{Orders: service}
}

type CombinedIngredientsRequest struct {
	Year int   `json:"year" validate:"required"`
	Week int   `json:"week" validate:"required"`
	Days []int `json:"days" validate:"required,min=1"`
}

// Day возвращает сведенный с остатками список ингредиентов на день.
func (h *IngredientsHandler) Day(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, week, err := pathYearWeek(c)
	if err != nil {
		return badRequest(c, "invalid year or week")
	}

	day, err := pathDay(c)
	if err != nil {
		return badRequest(c, "invalid day")
	}

	summaries, err := h.Orders.DayIngredients(c.Request().Context(), principal.ID, year, week, day)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string][]*ingredients.IngredientSummary{"ingredients": summaries})
}

// Combined возвращает объединенный список закупки на набор дней недели.
func (h *IngredientsHandler) Combined(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req CombinedIngredientsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}
	if err := planner.ValidateYearWeek(req.Year, req.Week); err != nil {
		return badRequest(c, "invalid year or week")
	}
	if !validDays(req.Days) {
		return badRequest(c, "invalid days")
	}

	summaries, err := h.Orders.CombinedIngredients(c.Request().Context(), principal.ID, req.Year, req.Week, req.Days)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string][]*ingredients.IngredientSummary{"ingredients": summaries})
}
