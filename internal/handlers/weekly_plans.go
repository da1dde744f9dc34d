package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/auth"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/planner"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/timewindow"
)

type WeeklyPlanHandler struct {
	Planner *planner.Service
}

// NewWeeklyPlanHandler создает обработчик недельных планов.
func NewWeeklyPlanHandler(service *planner.Service) *WeeklyPlanHandler {
	return &WeeklyPlanHandler{Planner: service}
}

type AssignMenusRequest struct {
	MenuIDs []uuid.UUID `json:"menu_ids" validate:"required,min=1"`
}

type PublishRequest struct {
	Published *bool `json:"published" validate:"required"`
}

type AssignCustomersRequest struct {
	CustomerIDs []uuid.UUID `json:"customer_ids"`
	GroupIDs    []uuid.UUID `json:"group_ids"`
}

// WeeklyPlanPageResponse — ответ страницы недели: итог, план и ссылка
// навигации на предыдущую неделю.
type WeeklyPlanPageResponse struct {
	PlanEnvelope
	PreviousWeek models.YearWeek `json:"previous_week"`
}

// Get возвращает план недели, лениво создавая его при первом обращении.
func (h *WeeklyPlanHandler) Get(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, week, err := pathYearWeek(c)
	if err != nil {
		return badRequest(c, "invalid year or week")
	}

	plan, outcome, err := h.Planner.GetOrCreate(c.Request().Context(), principal, year, week)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, WeeklyPlanPageResponse{
		PlanEnvelope: planEnvelope(outcome, plan),
		PreviousWeek: timewindow.PreviousWeek(year, week),
	})
}

// AssignMenus назначает шаблоны меню на неделю.
func (h *WeeklyPlanHandler) AssignMenus(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, week, err := pathYearWeek(c)
	if err != nil {
		return badRequest(c, "invalid year or week")
	}

	var req AssignMenusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	plan, outcome, err := h.Planner.AssignMenus(c.Request().Context(), principal, year, week, req.MenuIDs)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, planEnvelope(outcome, plan))
}

// UnassignMenu убирает назначенное меню с недели.
func (h *WeeklyPlanHandler) UnassignMenu(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, week, err := pathYearWeek(c)
	if err != nil {
		return badRequest(c, "invalid year or week")
	}

	assignedMenuID, err := uuid.Parse(c.Param("assignedMenuId"))
	if err != nil {
		return badRequest(c, "invalid menu id")
	}

	plan, err := h.Planner.UnassignMenu(c.Request().Context(), principal, year, week, assignedMenuID)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, planEnvelope(planner.Success(), plan))
}

// TogglePublish публикует или снимает публикацию назначенного меню.
func (h *WeeklyPlanHandler) TogglePublish(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, week, err := pathYearWeek(c)
	if err != nil {
		return badRequest(c, "invalid year or week")
	}

	assignedMenuID, err := uuid.Parse(c.Param("assignedMenuId"))
	if err != nil {
		return badRequest(c, "invalid menu id")
	}

	var req PublishRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	plan, outcome, err := h.Planner.TogglePublish(c.Request().Context(), principal, year, week, assignedMenuID, *req.Published)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, planEnvelope(outcome, plan))
}

// AssignCustomers назначает клиентов на меню. Режим quota проверяет недельную
// квоту каждого клиента, режим по умолчанию дополнительно принимает группы и
// отклоняет клиентов, уже занятых в любом меню плана.
func (h *WeeklyPlanHandler) AssignCustomers(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, week, err := pathYearWeek(c)
	if err != nil {
		return badRequest(c, "invalid year or week")
	}

	assignedMenuID, err := uuid.Parse(c.Param("assignedMenuId"))
	if err != nil {
		return badRequest(c, "invalid menu id")
	}

	var req AssignCustomersRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if len(req.CustomerIDs) == 0 && len(req.GroupIDs) == 0 {
		return badRequest(c, "customer_ids or group_ids required")
	}

	ctx := c.Request().Context()

	if c.QueryParam("mode") == "quota" {
		if len(req.GroupIDs) > 0 {
			return badRequest(c, "group_ids are not allowed in quota mode")
		}

		plan, outcome, err := h.Planner.AssignCustomers(ctx, principal, year, week, assignedMenuID, req.CustomerIDs)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(http.StatusOK, planEnvelope(outcome, plan))
	}

	plan, outcome, err := h.Planner.AssignCustomersAndGroups(ctx, principal, year, week, assignedMenuID, req.CustomerIDs, req.GroupIDs)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, planEnvelope(outcome, plan))
}

// RemoveCustomer убирает клиента из назначенного меню.
func (h *WeeklyPlanHandler) RemoveCustomer(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, week, err := pathYearWeek(c)
	if err != nil {
		return badRequest(c, "invalid year or week")
	}

	assignedMenuID, err := uuid.Parse(c.Param("assignedMenuId"))
	if err != nil {
		return badRequest(c, "invalid menu id")
	}

	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		return badRequest(c, "invalid customer id")
	}

	plan, err := h.Planner.RemoveCustomer(c.Request().Context(), principal, year, week, assignedMenuID, customerID)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, planEnvelope(planner.Success(), plan))
}
