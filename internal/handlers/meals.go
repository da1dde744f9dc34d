package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/auth"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/repository"
)

type MealHandler struct {
	Meals *repository.MealRepository
}

// NewMealHandler создает обработчик каталога блюд.
func NewMealHandler(meals *repository.MealRepository) *MealHandler {
	return &MealHandler{Meals: meals}
}

type IngredientLineRequest struct {
	IngredientID     uuid.UUID       `json:"ingredient_id"`
	Title            string          `json:"title" validate:"required,max=200"`
	Unit             string          `json:"unit" validate:"required,max=20"`
	AmountPerPortion decimal.Decimal `json:"amount_per_portion"`
}

type MealRequest struct {
	Title       string                  `json:"title" validate:"required,max=200"`
	Ingredients []IngredientLineRequest `json:"ingredients" validate:"dive"`
}

// List возвращает все блюда пользователя.
func (h *MealHandler) List(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	meals, err := h.Meals.ListByUser(c.Request().Context(), principal.ID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, map[string][]models.Meal{"meals": meals})
}

// Create сохраняет новое блюдо.
func (h *MealHandler) Create(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req MealRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return badRequest(c, "title is required")
	}

	lines, err := toIngredientLines(req.Ingredients)
	if err != nil {
		return badRequest(c, err.Error())
	}

	meal, err := h.Meals.Create(c.Request().Context(), models.Meal{
		ID:          uuid.New(),
		UserID:      principal.ID,
		Title:       title,
		Ingredients: lines,
	})
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, meal)
}

// Get возвращает блюдо по идентификатору.
func (h *MealHandler) Get(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	mealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid meal id")
	}

	meal, err := h.Meals.GetByID(c.Request().Context(), principal.ID, mealID)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, meal)
}

// Update обновляет название и состав блюда.
func (h *MealHandler) Update(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	mealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid meal id")
	}

	var req MealRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return badRequest(c, "title is required")
	}

	lines, err := toIngredientLines(req.Ingredients)
	if err != nil {
		return badRequest(c, err.Error())
	}

	meal, err := h.Meals.Update(c.Request().Context(), principal.ID, mealID, title, lines)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, meal)
}

// Delete удаляет блюдо пользователя.
func (h *MealHandler) Delete(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	mealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid meal id")
	}

	if err := h.Meals.Delete(c.Request().Context(), principal.ID, mealID); err != nil {
		return domainError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func toIngredientLines(requests []IngredientLineRequest) ([]models.IngredientLine, error) {
	lines := make([]models.IngredientLine, 0, len(requests))
	for _, req := range requests {
		if req.AmountPerPortion.IsNegative() {
			return nil, repository.ErrInvalid
		}

		id := req.IngredientID
		if id == uuid.Nil {
			id = uuid.New()
		}

		lines = append(lines, models.IngredientLine{
			IngredientID:     id,
			Title:            strings.TrimSpace(req.Title),
			Unit:             strings.TrimSpace(req.Unit),
			AmountPerPortion: req.AmountPerPortion,
		})
	}
	return lines, nil
}
