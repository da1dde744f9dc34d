package planner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
)

func breakfastTemplateDay(mealID uuid.UUID) models.TemplateDay {
	return models.TemplateDay{Meals: []models.TemplateMeal{{Category: "breakfast", MealID: mealID}}}
}

// TestBuildDayCategories проверяет материализацию дня шаблона в категории заказа:
// одно блюдо на завтрак с двумя клиентами дает одну запись со статусом not_done.
func TestBuildDayCategories(t *testing.T) {
	mealID := uuid.New()
	meals := map[uuid.UUID]models.Meal{
		mealID: {
			ID:    mealID,
			Title: "Omelette",
			Ingredients: []models.IngredientLine{
				{IngredientID: uuid.New(), Title: "Eggs", Unit: "g", AmountPerPortion: decimal.RequireFromString("100")},
			},
		},
	}

	c1 := models.CustomerRef{ID: uuid.New(), Name: "c1"}
	c2 := models.CustomerRef{ID: uuid.New(), Name: "c2"}
	menu := &models.AssignedMenu{
		ID:            uuid.New(),
		TemplateID:    uuid.New(),
		TemplateTitle: "Week A",
		Customers:     []models.CustomerRef{c1, c2},
	}

	categories := BuildDayCategories(breakfastTemplateDay(mealID), meals, menu)

	if len(categories) != 1 || categories[0].Category != "breakfast" {
		t.Fatalf("expected single breakfast category, got %+v", categories)
	}
	if len(categories[0].Meals) != 1 {
		t.Fatalf("expected 1 meal, got %d", len(categories[0].Meals))
	}

	entry := categories[0].Meals[0]
	if entry.Status != models.MealStatusNotDone {
		t.Fatalf("expected not_done, got %s", entry.Status)
	}
	if len(entry.Customers) != 2 || entry.Customers[0].ID != c1.ID || entry.Customers[1].ID != c2.ID {
		t.Fatalf("expected customers [c1 c2], got %+v", entry.Customers)
	}
	if entry.Snapshot.Title != "Omelette" || len(entry.Snapshot.Ingredients) != 1 {
		t.Fatalf("unexpected meal snapshot: %+v", entry.Snapshot)
	}
}

// TestBuildDayCategoriesGrouping проверяет группировку по категориям в порядке появления.
func TestBuildDayCategoriesGrouping(t *testing.T) {
	breakfast, lunch := uuid.New(), uuid.New()
	meals := map[uuid.UUID]models.Meal{
		breakfast: {ID: breakfast, Title: "Porridge"},
		lunch:     {ID: lunch, Title: "Soup"},
	}

	day := models.TemplateDay{Meals: []models.TemplateMeal{
		{Category: "breakfast", MealID: breakfast},
		{Category: "lunch", MealID: lunch},
		{Category: "breakfast", MealID: breakfast},
	}}

	menu := &models.AssignedMenu{ID: uuid.New(), TemplateID: uuid.New(), Customers: []models.CustomerRef{{ID: uuid.New()}}}
	categories := BuildDayCategories(day, meals, menu)

	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].Category != "breakfast" || len(categories[0].Meals) != 2 {
		t.Fatalf("unexpected breakfast group: %+v", categories[0])
	}
	if categories[1].Category != "lunch" || len(categories[1].Meals) != 1 {
		t.Fatalf("unexpected lunch group: %+v", categories[1])
	}
}

// TestBuildDayCategoriesMissingMeal проверяет пропуск ссылок на удаленные блюда.
func TestBuildDayCategoriesMissingMeal(t *testing.T) {
	menu := &models.AssignedMenu{ID: uuid.New(), TemplateID: uuid.New()}

	categories := BuildDayCategories(breakfastTemplateDay(uuid.New()), map[uuid.UUID]models.Meal{}, menu)
	if len(categories) != 0 {
		t.Fatalf("expected no categories, got %+v", categories)
	}
}

// TestMergeDayCategories проверяет аддитивное слияние при повторной публикации.
func TestMergeDayCategories(t *testing.T) {
	templateA, templateB := uuid.New(), uuid.New()
	existing := []models.OrderCategory{{
		Category: "breakfast",
		Meals:    []models.OrderMeal{{ID: uuid.New(), TemplateID: templateA}},
	}}
	incoming := []models.OrderCategory{
		{Category: "breakfast", Meals: []models.OrderMeal{{ID: uuid.New(), TemplateID: templateB}}},
		{Category: "dinner", Meals: []models.OrderMeal{{ID: uuid.New(), TemplateID: templateB}}},
	}

	merged := MergeDayCategories(existing, incoming)

	if len(merged) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(merged))
	}
	if len(merged[0].Meals) != 2 {
		t.Fatalf("expected breakfast meals appended, got %d", len(merged[0].Meals))
	}
	if merged[1].Category != "dinner" {
		t.Fatalf("expected dinner appended, got %s", merged[1].Category)
	}
}

// TestMergeDayCategoriesRepublishAppends фиксирует, что повторная публикация
// того же меню дублирует блюда, а не дедуплицирует их.
func TestMergeDayCategoriesRepublishAppends(t *testing.T) {
	templateID := uuid.New()
	first := []models.OrderCategory{{
		Category: "breakfast",
		Meals:    []models.OrderMeal{{ID: uuid.New(), TemplateID: templateID}},
	}}
	second := []models.OrderCategory{{
		Category: "breakfast",
		Meals:    []models.OrderMeal{{ID: uuid.New(), TemplateID: templateID}},
	}}

	merged := MergeDayCategories(first, second)

	if len(merged[0].Meals) != 2 {
		t.Fatalf("expected additive republish to keep both entries, got %d", len(merged[0].Meals))
	}
}

// TestPruneTemplateMeals проверяет снятие публикации: блюда шаблона убираются,
// опустевшие категории выбрасываются, чужие блюда не трогаются.
func TestPruneTemplateMeals(t *testing.T) {
	mine, other := uuid.New(), uuid.New()
	categories := []models.OrderCategory{
		{Category: "breakfast", Meals: []models.OrderMeal{
			{ID: uuid.New(), TemplateID: mine},
			{ID: uuid.New(), TemplateID: other},
		}},
		{Category: "lunch", Meals: []models.OrderMeal{
			{ID: uuid.New(), TemplateID: mine},
		}},
	}

	pruned, changed := PruneTemplateMeals(categories, mine)

	if !changed {
		t.Fatal("expected change")
	}
	if len(pruned) != 1 || pruned[0].Category != "breakfast" {
		t.Fatalf("expected only breakfast left, got %+v", pruned)
	}
	if len(pruned[0].Meals) != 1 || pruned[0].Meals[0].TemplateID != other {
		t.Fatalf("expected other template meal kept, got %+v", pruned[0].Meals)
	}
}

// TestPruneTemplateMealsNoChange проверяет отсутствие изменений для чужого шаблона.
func TestPruneTemplateMealsNoChange(t *testing.T) {
	categories := []models.OrderCategory{{
		Category: "breakfast",
		Meals:    []models.OrderMeal{{ID: uuid.New(), TemplateID: uuid.New()}},
	}}

	pruned, changed := PruneTemplateMeals(categories, uuid.New())

	if changed {
		t.Fatal("expected no change")
	}
	if len(pruned) != 1 || len(pruned[0].Meals) != 1 {
		t.Fatalf("expected categories untouched, got %+v", pruned)
	}
}
