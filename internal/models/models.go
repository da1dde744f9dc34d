package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlanStatus string

type TemplateStatus string

type OrderStatus string

type MealStatus string

type PlanTier string

const (
	PlanStatusActive  PlanStatus = "active"
	PlanStatusExpired PlanStatus = "expired"

	TemplateStatusActive   TemplateStatus = "active"
	TemplateStatusInactive TemplateStatus = "inactive"

	OrderStatusNotDone OrderStatus = "not_done"
	OrderStatusDone    OrderStatus = "done"

	MealStatusNotDone   MealStatus = "not_done"
	MealStatusPreparing MealStatus = "preparing"
	MealStatusDone      MealStatus = "done"

	PlanTierBase    PlanTier = "base"
	PlanTierPro     PlanTier = "pro"
	PlanTierPremium PlanTier = "premium"
)

// MenuLimit возвращает лимит назначенных меню на неделю для тарифа.
func MenuLimit(tier PlanTier) int {
	switch tier {
	case PlanTierPremium:
		return 10
	case PlanTierPro:
		return 5
	default:
		return 2
	}
}

// Principal — аутентифицированный пользователь из внешнего auth-слоя:
// идентификатор, тариф и IANA-пояс приходят в claims токена.
type Principal struct {
	ID       uuid.UUID
	Tier     PlanTier
	Timezone string
}

// YearWeek идентифицирует ISO-неделю (год недели, номер недели).
type YearWeek struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

type CustomerRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Customer struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"user_id"`
	Name               string     `json:"name"`
	WeeklyMenuQuantity int        `json:"weekly_menu_quantity"`
	GroupID            *uuid.UUID `json:"group_id,omitempty"`
}

type CustomerGroup struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Title  string    `json:"title"`
}

// IngredientLine описывает ингредиент блюда в расчете на одну порцию.
type IngredientLine struct {
	IngredientID     uuid.UUID       `json:"ingredient_id"`
	Title            string          `json:"title"`
	Unit             string          `json:"unit"`
	AmountPerPortion decimal.Decimal `json:"amount_per_portion"`
}

type Meal struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"user_id"`
	Title       string           `json:"title"`
	Ingredients []IngredientLine `json:"ingredients"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// MealSnapshot — неизменяемая копия блюда, зафиксированная при публикации.
type MealSnapshot struct {
	MealID      uuid.UUID        `json:"meal_id"`
	Title       string           `json:"title"`
	Ingredients []IngredientLine `json:"ingredients"`
}

// TemplateMeal — позиция дня шаблона: категория плюс ссылка на блюдо.
type TemplateMeal struct {
	Category string    `json:"category"`
	MealID   uuid.UUID `json:"meal_id"`
}

type TemplateDay struct {
	Meals []TemplateMeal `json:"meals"`
}

// WeeklyMenuTemplate — редактируемый недельный шаблон меню поставщика.
type WeeklyMenuTemplate struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	Title       string         `json:"title"`
	Days        [7]TemplateDay `json:"days"`
	ActiveWeeks []YearWeek     `json:"active_weeks"`
	Status      TemplateStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// HasActiveWeek проверяет, привязан ли шаблон к указанной неделе.
func (t *WeeklyMenuTemplate) HasActiveWeek(week YearWeek) bool {
	for _, w := range t.ActiveWeeks {
		if w == week {
			return true
		}
	}
	return false
}

// MenuSnapshot — неизменяемая копия шаблона, снятая при истечении недели.
type MenuSnapshot struct {
	TemplateID uuid.UUID      `json:"template_id"`
	Title      string         `json:"title"`
	Days       [7]TemplateDay `json:"days"`
	TakenAt    time.Time      `json:"taken_at"`
}

// NewMenuSnapshot строит снимок шаблона по полям, без сериализации.
func NewMenuSnapshot(t *WeeklyMenuTemplate, takenAt time.Time) MenuSnapshot {
	snapshot := MenuSnapshot{
		TemplateID: t.ID,
		Title:      t.Title,
		TakenAt:    takenAt,
	}
	for i, day := range t.Days {
		if i >= len(snapshot.Days) {
			break
		}
		meals := make([]TemplateMeal, len(day.Meals))
		copy(meals, day.Meals)
		snapshot.Days[i] = TemplateDay{Meals: meals}
	}
	return snapshot
}

// NewMealSnapshot строит снимок блюда по полям, без сериализации.
func NewMealSnapshot(m *Meal) MealSnapshot {
	ingredients := make([]IngredientLine, len(m.Ingredients))
	copy(ingredients, m.Ingredients)
	return MealSnapshot{
		MealID:      m.ID,
		Title:       m.Title,
		Ingredients: ingredients,
	}
}

// AssignedMenu — привязка шаблона к конкретной неделе пользователя.
type AssignedMenu struct {
	ID            uuid.UUID     `json:"id"`
	TemplateID    uuid.UUID     `json:"template_id"`
	TemplateTitle string        `json:"template_title"`
	Published     bool          `json:"published"`
	Customers     []CustomerRef `json:"customers"`
	MenuSnapshot  *MenuSnapshot `json:"menu_snapshot,omitempty"`
}

// WeeklyPlan — агрегат недели пользователя: один на (user, year, week).
type WeeklyPlan struct {
	ID         uuid.UUID      `json:"id"`
	UserID     uuid.UUID      `json:"user_id"`
	Year       int            `json:"year"`
	Week       int            `json:"week"`
	Timezone   string         `json:"timezone"`
	Status     PlanStatus     `json:"status"`
	IsSnapshot bool           `json:"is_snapshot"`
	AssignMenu []AssignedMenu `json:"assign_menu"`
	Version    int            `json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// FindAssignedMenu возвращает назначенное меню по идентификатору.
func (p *WeeklyPlan) FindAssignedMenu(id uuid.UUID) *AssignedMenu {
	for i := range p.AssignMenu {
		if p.AssignMenu[i].ID == id {
			return &p.AssignMenu[i]
		}
	}
	return nil
}

// HasTemplate проверяет, назначен ли шаблон в плане.
func (p *WeeklyPlan) HasTemplate(templateID uuid.UUID) bool {
	for i := range p.AssignMenu {
		if p.AssignMenu[i].TemplateID == templateID {
			return true
		}
	}
	return false
}

// CustomerAssignments считает, в скольких меню плана занят клиент.
func (p *WeeklyPlan) CustomerAssignments(customerID uuid.UUID) int {
	count := 0
	for i := range p.AssignMenu {
		for _, ref := range p.AssignMenu[i].Customers {
			if ref.ID == customerID {
				count++
			}
		}
	}
	return count
}

// OrderMeal — блюдо в дневном заказе с зафиксированным составом.
type OrderMeal struct {
	ID            uuid.UUID     `json:"id"`
	TemplateID    uuid.UUID     `json:"template_id"`
	TemplateTitle string        `json:"template_title"`
	Snapshot      MealSnapshot  `json:"meal_snapshot"`
	Status        MealStatus    `json:"status"`
	Customers     []CustomerRef `json:"customers"`
}

type OrderCategory struct {
	Category string      `json:"category"`
	Meals    []OrderMeal `json:"meals"`
}

// SingleDayOrder — дневной заказ: один на (user, year, week, day).
type SingleDayOrder struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Year       int             `json:"year"`
	Week       int             `json:"week"`
	Day        int             `json:"day"`
	Status     OrderStatus     `json:"status"`
	Expired    bool            `json:"expired"`
	Categories []OrderCategory `json:"categories"`
	Version    int             `json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// FindMeal возвращает блюдо заказа по идентификатору.
func (o *SingleDayOrder) FindMeal(mealID uuid.UUID) *OrderMeal {
	for i := range o.Categories {
		for j := range o.Categories[i].Meals {
			if o.Categories[i].Meals[j].ID == mealID {
				return &o.Categories[i].Meals[j]
			}
		}
	}
	return nil
}

// StockLine — введенный остаток ингредиента на складе.
type StockLine struct {
	IngredientID uuid.UUID       `json:"ingredient_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// IngredientsStock — остатки на один день или на объединение дней недели.
// Day и DayCombined взаимоисключающие: заполнено ровно одно из двух.
type IngredientsStock struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	Year        int         `json:"year"`
	Week        int         `json:"week"`
	Day         *int        `json:"day,omitempty"`
	DayCombined []int       `json:"day_combined,omitempty"`
	Ingredients []StockLine `json:"ingredients"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
