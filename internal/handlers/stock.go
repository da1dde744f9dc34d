package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/auth"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/repository"
)

type StockHandler struct {
	Stock *repository.StockRepository
}

// NewStockHandler создает обработчик складских остатков.
func NewStockHandler(stock *repository.StockRepository) *StockHandler {
	return &StockHandler{Stock: stock}
}

type StockLineRequest struct {
	IngredientID uuid.UUID       `json:"ingredient_id" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
}

type CombinedStockLineRequest struct {
	Days         []int           `json:"days" validate:"required,min=1"`
	IngredientID uuid.UUID       `json:"ingredient_id" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
}

type CombinedStockDeleteRequest struct {
	Days []int `json:"days" validate:"required,min=1"`
}

// UpsertLine записывает остаток ингредиента на день недели.
func (h *StockHandler) UpsertLine(c echo.Context) error {
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

	var req StockLineRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}
	if req.Amount.IsNegative() {
		return badRequest(c, "amount cannot be negative")
	}

	stock, err := h.Stock.UpsertLine(c.Request().Context(), principal.ID, year, week, &day, nil, models.StockLine{
		IngredientID: req.IngredientID,
		Amount:       req.Amount,
	})
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, stock)
}

// UpsertCombinedLine записывает остаток в объединенный документ набора дней.
func (h *StockHandler) UpsertCombinedLine(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, week, err := pathYearWeek(c)
	if err != nil {
		return badRequest(c, "invalid year or week")
	}

	var req CombinedStockLineRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}
	if !validDays(req.Days) {
		return badRequest(c, "invalid days")
	}
	if req.Amount.IsNegative() {
		return badRequest(c, "amount cannot be negative")
	}

	stock, err := h.Stock.UpsertLine(c.Request().Context(), principal.ID, year, week, nil, req.Days, models.StockLine{
		IngredientID: req.IngredientID,
		Amount:       req.Amount,
	})
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, stock)
}

// DeleteLine удаляет остаток ингредиента на день недели.
func (h *StockHandler) DeleteLine(c echo.Context) error {
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

	ingredientID, err := uuid.Parse(c.Param("ingredientId"))
	if err != nil {
		return badRequest(c, "invalid ingredient id")
	}

	if err := h.Stock.DeleteLine(c.Request().Context(), principal.ID, year, week, &day, nil, ingredientID); err != nil {
		return domainError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteCombinedLine удаляет остаток из объединенного документа набора дней.
func (h *StockHandler) DeleteCombinedLine(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, week, err := pathYearWeek(c)
	if err != nil {
		return badRequest(c, "invalid year or week")
	}

	ingredientID, err := uuid.Parse(c.Param("ingredientId"))
	if err != nil {
		return badRequest(c, "invalid ingredient id")
	}

	var req CombinedStockDeleteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if !validDays(req.Days) {
		return badRequest(c, "invalid days")
	}

	if err := h.Stock.DeleteLine(c.Request().Context(), principal.ID, year, week, nil, req.Days, ingredientID); err != nil {
		return domainError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
