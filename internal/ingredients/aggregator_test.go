package ingredients

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
)

func testOrder(categories ...models.OrderCategory) *models.SingleDayOrder {
	return &models.SingleDayOrder{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Year:       2025,
		Week:       10,
		Day:        0,
		Status:     models.OrderStatusNotDone,
		Categories: categories,
	}
}

func testMeal(title string, customers int, lines ...models.IngredientLine) models.OrderMeal {
	refs := make([]models.CustomerRef, 0, customers)
	for i := 0; i < customers; i++ {
		refs = append(refs, models.CustomerRef{ID: uuid.New(), Name: "client"})
	}

	return models.OrderMeal{
		ID:       uuid.New(),
		Status:   models.MealStatusNotDone,
		Snapshot: models.MealSnapshot{MealID: uuid.New(), Title: title, Ingredients: lines},
		Customers: refs,
	}
}

func line(id uuid.UUID, title, unit, perPortion string) models.IngredientLine {
	return models.IngredientLine{
		IngredientID:     id,
		Title:            title,
		Unit:             unit,
		AmountPerPortion: decimal.RequireFromString(perPortion),
	}
}

// TestAggregateDay проверяет базовый расчет: 100 ед. на порцию и два клиента.
func TestAggregateDay(t *testing.T) {
	ingredientID := uuid.New()
	order := testOrder(models.OrderCategory{
		Category: "breakfast",
		Meals:    []models.OrderMeal{testMeal("Omelette", 2, line(ingredientID, "Eggs", "g", "100"))},
	})

	aggregate := AggregateDay(order)

	summary, ok := aggregate[ingredientID]
	if !ok {
		t.Fatal("expected ingredient in aggregate")
	}
	if !summary.GeneralAmount.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("expected general amount 200, got %s", summary.GeneralAmount)
	}
	if len(summary.MealsToUse) != 1 || summary.MealsToUse[0].Quantity != 2 {
		t.Fatalf("unexpected usage records: %+v", summary.MealsToUse)
	}
}

// TestAggregateDayRepeatedIngredient проверяет накопление по повторам ингредиента за день.
func TestAggregateDayRepeatedIngredient(t *testing.T) {
	ingredientID := uuid.New()
	order := testOrder(
		models.OrderCategory{
			Category: "breakfast",
			Meals:    []models.OrderMeal{testMeal("Porridge", 3, line(ingredientID, "Milk", "ml", "150"))},
		},
		models.OrderCategory{
			Category: "dinner",
			Meals:    []models.OrderMeal{testMeal("Pancakes", 2, line(ingredientID, "Milk", "ml", "200.5"))},
		},
	)

	aggregate := AggregateDay(order)

	summary := aggregate[ingredientID]
	if summary == nil {
		t.Fatal("expected ingredient in aggregate")
	}
	// 3*150 + 2*200.5 = 851
	if !summary.GeneralAmount.Equal(decimal.RequireFromString("851")) {
		t.Fatalf("expected 851, got %s", summary.GeneralAmount)
	}
	if len(summary.MealsToUse) != 2 {
		t.Fatalf("expected 2 usage records, got %d", len(summary.MealsToUse))
	}
}

// TestAggregateDayIncrementalRounding проверяет округление на каждом шаге накопления.
func TestAggregateDayIncrementalRounding(t *testing.T) {
	ingredientID := uuid.New()
	order := testOrder(models.OrderCategory{
		Category: "lunch",
		Meals: []models.OrderMeal{
			testMeal("Soup", 1, line(ingredientID, "Saffron", "g", "0.005")),
			testMeal("Stew", 1, line(ingredientID, "Saffron", "g", "0.005")),
		},
	})

	aggregate := AggregateDay(order)

	// Каждый вклад 0.005 округляется до 0.01 до сложения; округление только в
	// конце дало бы 0.01 вместо 0.02.
	if got := aggregate[ingredientID].GeneralAmount; !got.Equal(decimal.RequireFromString("0.02")) {
		t.Fatalf("expected 0.02, got %s", got)
	}
}

// TestAggregateDaySkipsMealsWithoutCustomers проверяет, что блюдо без клиентов не учитывается.
func TestAggregateDaySkipsMealsWithoutCustomers(t *testing.T) {
	order := testOrder(models.OrderCategory{
		Category: "breakfast",
		Meals:    []models.OrderMeal{testMeal("Omelette", 0, line(uuid.New(), "Eggs", "g", "100"))},
	})

	if aggregate := AggregateDay(order); len(aggregate) != 0 {
		t.Fatalf("expected empty aggregate, got %d entries", len(aggregate))
	}
}

// TestCombineDays проверяет, что объединение суммирует ровно перечисленные дни.
func TestCombineDays(t *testing.T) {
	ingredientID := uuid.New()
	perDay := map[int]map[uuid.UUID]*IngredientSummary{
		0: AggregateDay(testOrder(models.OrderCategory{
			Category: "breakfast",
			Meals:    []models.OrderMeal{testMeal("Omelette", 2, line(ingredientID, "Eggs", "g", "100"))},
		})),
		1: AggregateDay(testOrder(models.OrderCategory{
			Category: "breakfast",
			Meals:    []models.OrderMeal{testMeal("Shakshuka", 1, line(ingredientID, "Eggs", "g", "120"))},
		})),
		2: AggregateDay(testOrder(models.OrderCategory{
			Category: "breakfast",
			Meals:    []models.OrderMeal{testMeal("Frittata", 5, line(ingredientID, "Eggs", "g", "90"))},
		})),
	}

	combined := CombineDays([]int{0, 1}, perDay)

	summary := combined[ingredientID]
	if summary == nil {
		t.Fatal("expected ingredient in combined aggregate")
	}
	// День 2 не входит в объединение: 200 + 120 = 320.
	if !summary.GeneralAmount.Equal(decimal.RequireFromString("320")) {
		t.Fatalf("expected 320, got %s", summary.GeneralAmount)
	}
	if len(summary.MealsToUse) != 2 {
		t.Fatalf("expected 2 usage records, got %d", len(summary.MealsToUse))
	}
}

// TestCombineDaysMissingDay проверяет, что день без агрегата ничего не добавляет.
func TestCombineDaysMissingDay(t *testing.T) {
	ingredientID := uuid.New()
	perDay := map[int]map[uuid.UUID]*IngredientSummary{
		3: AggregateDay(testOrder(models.OrderCategory{
			Category: "dinner",
			Meals:    []models.OrderMeal{testMeal("Salad", 2, line(ingredientID, "Feta", "g", "40"))},
		})),
	}

	combined := CombineDays([]int{3, 4, 5}, perDay)

	if !combined[ingredientID].GeneralAmount.Equal(decimal.RequireFromString("80")) {
		t.Fatalf("expected 80, got %s", combined[ingredientID].GeneralAmount)
	}
}

// TestReconcile проверяет расчет недостачи по введенному остатку.
func TestReconcile(t *testing.T) {
	ingredientID := uuid.New()
	aggregate := AggregateDay(testOrder(models.OrderCategory{
		Category: "breakfast",
		Meals:    []models.OrderMeal{testMeal("Omelette", 2, line(ingredientID, "Eggs", "g", "100"))},
	}))

	Reconcile(aggregate, []models.StockLine{{IngredientID: ingredientID, Amount: decimal.RequireFromString("150")}})

	summary := aggregate[ingredientID]
	if summary.StockAmount == nil || !summary.StockAmount.Equal(decimal.RequireFromString("150")) {
		t.Fatalf("unexpected stock amount: %v", summary.StockAmount)
	}
	if summary.RestockNeeded == nil || !summary.RestockNeeded.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("unexpected restock needed: %v", summary.RestockNeeded)
	}
}

// TestReconcileNeverNegative проверяет, что недостача не бывает отрицательной.
func TestReconcileNeverNegative(t *testing.T) {
	ingredientID := uuid.New()
	aggregate := AggregateDay(testOrder(models.OrderCategory{
		Category: "breakfast",
		Meals:    []models.OrderMeal{testMeal("Omelette", 1, line(ingredientID, "Eggs", "g", "100"))},
	}))

	Reconcile(aggregate, []models.StockLine{{IngredientID: ingredientID, Amount: decimal.RequireFromString("500")}})

	if got := aggregate[ingredientID].RestockNeeded; got == nil || !got.IsZero() {
		t.Fatalf("expected zero restock, got %v", got)
	}
}

// TestReconcileWithoutStockEntry проверяет, что без остатка недостача не проставляется.
func TestReconcileWithoutStockEntry(t *testing.T) {
	ingredientID := uuid.New()
	aggregate := AggregateDay(testOrder(models.OrderCategory{
		Category: "breakfast",
		Meals:    []models.OrderMeal{testMeal("Omelette", 1, line(ingredientID, "Eggs", "g", "100"))},
	}))

	Reconcile(aggregate, nil)

	summary := aggregate[ingredientID]
	if summary.StockAmount != nil || summary.RestockNeeded != nil {
		t.Fatalf("expected untouched summary, got stock=%v restock=%v", summary.StockAmount, summary.RestockNeeded)
	}
}
