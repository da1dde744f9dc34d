package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/auth"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/repository"
)

type MenuTemplateHandler struct {
	Templates *repository.MenuTemplateRepository
}

// NewMenuTemplateHandler создает обработчик шаблонов недельных меню.
func NewMenuTemplateHandler(templates *repository.MenuTemplateRepository) *MenuTemplateHandler {
	return &MenuTemplateHandler{Templates: templates}
}

type TemplateMealRequest struct {
	Category string    `json:"category" validate:"required,max=100"`
	MealID   uuid.UUID `json:"meal_id" validate:"required"`
}

type TemplateDayRequest struct {
	Meals []TemplateMealRequest `json:"meals"`
}

type MenuTemplateRequest struct {
	Title string               `json:"title" validate:"required,max=200"`
	Days  []TemplateDayRequest `json:"days" validate:"required,len=7"`
}

// List возвращает все шаблоны пользователя.
func (h *MenuTemplateHandler) List(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	templates, err := h.Templates.ListByUser(c.Request().Context(), principal.ID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, map[string][]models.WeeklyMenuTemplate{"menu_templates": templates})
}

// Create создает новый шаблон меню.
func (h *MenuTemplateHandler) Create(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req MenuTemplateRequest
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

	template, err := h.Templates.Create(c.Request().Context(), models.WeeklyMenuTemplate{
		ID:          uuid.New(),
		UserID:      principal.ID,
		Title:       title,
		Days:        toTemplateDays(req.Days),
		ActiveWeeks: make([]models.YearWeek, 0),
		Status:      models.TemplateStatusInactive,
	})
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, template)
}

// Get возвращает шаблон по идентификатору.
func (h *MenuTemplateHandler) Get(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid template id")
	}

	template, err := h.Templates.GetByID(c.Request().Context(), principal.ID, templateID)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, template)
}

// Update обновляет название и раскладку дней шаблона.
func (h *MenuTemplateHandler) Update(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid template id")
	}

	var req MenuTemplateRequest
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

	template, err := h.Templates.UpdateDays(c.Request().Context(), principal.ID, templateID, title, toTemplateDays(req.Days))
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, template)
}

// Delete удаляет шаблон; активный шаблон удалить нельзя.
func (h *MenuTemplateHandler) Delete(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid template id")
	}

	if err := h.Templates.Delete(c.Request().Context(), principal.ID, templateID); err != nil {
		return domainError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func toTemplateDays(days []TemplateDayRequest) [7]models.TemplateDay {
	var out [7]models.TemplateDay
	for i, day := range days {
		if i >= len(out) {
			break
		}
		meals := make([]models.TemplateMeal, 0, len(day.Meals))
		for _, meal := range day.Meals {
			meals = append(meals, models.TemplateMeal{
				Category: strings.TrimSpace(meal.Category),
				MealID:   meal.MealID,
			})
		}
		out[i] = models.TemplateDay{Meals: meals}
	}
	return out
}
