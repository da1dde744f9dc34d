package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/auth"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/orders"
)

type DayOrderHandler struct {
	Orders *orders.Service
}

// NewDayOrderHandler создает обработчик дневных заказов.
func NewDayOrderHandler(service *orders.Service) *DayOrderHandler {
	return &DayOrderHandler{Orders: service}
}

type OrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

type MealStatusRequest struct {
	Status models.MealStatus `json:"status" validate:"required"`
}

// List возвращает все дневные заказы недели.
func (h *DayOrderHandler) List(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, week, err := pathYearWeek(c)
	if err != nil {
		return badRequest(c, "invalid year or week")
	}

	list, err := h.Orders.List(c.Request().Context(), principal.ID, year, week)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string][]models.SingleDayOrder{"day_orders": list})
}

// Get возвращает заказ на конкретный день недели.
func (h *DayOrderHandler) Get(c echo.Context) error {
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

	order, err := h.Orders.Get(c.Request().Context(), principal.ID, year, week, day)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

// UpdateStatus меняет статус заказа с каскадом на все блюда.
func (h *DayOrderHandler) UpdateStatus(c echo.Context) error {
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

	var req OrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	order, err := h.Orders.SetOrderStatus(c.Request().Context(), principal.ID, year, week, day, req.Status)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

// UpdateMealStatus меняет статус отдельного блюда в заказе.
func (h *DayOrderHandler) UpdateMealStatus(c echo.Context) error {
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

	mealID, err := uuid.Parse(c.Param("mealId"))
	if err != nil {
		return badRequest(c, "invalid meal id")
	}

	var req MealStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	order, err := h.Orders.SetMealStatus(c.Request().Context(), principal.ID, year, week, day, mealID, req.Status)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}
