package orders

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/repository"
)

func orderWithMeals(statuses ...models.MealStatus) *models.SingleDayOrder {
	meals := make([]models.OrderMeal, 0, len(statuses))
	for _, status := range statuses {
		meals = append(meals, models.OrderMeal{ID: uuid.New(), Status: status})
	}

	return &models.SingleDayOrder{
		ID:         uuid.New(),
		Status:     models.OrderStatusNotDone,
		Categories: []models.OrderCategory{{Category: "breakfast", Meals: meals}},
	}
}

// TestApplyOrderStatusCascade проверяет каскад статуса заказа на все блюда.
func TestApplyOrderStatusCascade(t *testing.T) {
	order := orderWithMeals(models.MealStatusNotDone, models.MealStatusPreparing)

	if err := ApplyOrderStatus(order, models.OrderStatusDone); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if order.Status != models.OrderStatusDone {
		t.Fatalf("expected done, got %s", order.Status)
	}
	for _, meal := range order.Categories[0].Meals {
		if meal.Status != models.MealStatusDone {
			t.Fatalf("expected cascaded done, got %s", meal.Status)
		}
	}
}

// TestApplyOrderStatusRollback проверяет каскад not_done при откате заказа.
func TestApplyOrderStatusRollback(t *testing.T) {
	order := orderWithMeals(models.MealStatusDone)
	order.Status = models.OrderStatusDone

	if err := ApplyOrderStatus(order, models.OrderStatusNotDone); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if order.Categories[0].Meals[0].Status != models.MealStatusNotDone {
		t.Fatalf("expected not_done, got %s", order.Categories[0].Meals[0].Status)
	}
}

// TestApplyOrderStatusExpired проверяет неизменяемость истекшего заказа.
func TestApplyOrderStatusExpired(t *testing.T) {
	order := orderWithMeals(models.MealStatusNotDone)
	order.Expired = true

	if err := ApplyOrderStatus(order, models.OrderStatusDone); !errors.Is(err, ErrOrderExpired) {
		t.Fatalf("expected ErrOrderExpired, got %v", err)
	}
}

// TestApplyOrderStatusInvalid проверяет отказ на неизвестный статус.
func TestApplyOrderStatusInvalid(t *testing.T) {
	order := orderWithMeals(models.MealStatusNotDone)

	if err := ApplyOrderStatus(order, models.OrderStatus("preparing")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

// TestApplyMealStatus проверяет явную смену статуса блюда в обе стороны.
func TestApplyMealStatus(t *testing.T) {
	order := orderWithMeals(models.MealStatusDone)
	mealID := order.Categories[0].Meals[0].ID

	if err := ApplyMealStatus(order, mealID, models.MealStatusPreparing); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if order.Categories[0].Meals[0].Status != models.MealStatusPreparing {
		t.Fatalf("expected preparing, got %s", order.Categories[0].Meals[0].Status)
	}
}

// TestApplyMealStatusUnknownMeal проверяет отказ для отсутствующего блюда.
func TestApplyMealStatusUnknownMeal(t *testing.T) {
	order := orderWithMeals(models.MealStatusNotDone)

	if err := ApplyMealStatus(order, uuid.New(), models.MealStatusDone); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestApplyMealStatusExpired проверяет неизменяемость блюд истекшего заказа.
func TestApplyMealStatusExpired(t *testing.T) {
	order := orderWithMeals(models.MealStatusNotDone)
	order.Expired = true

	if err := ApplyMealStatus(order, order.Categories[0].Meals[0].ID, models.MealStatusDone); !errors.Is(err, ErrOrderExpired) {
		t.Fatalf("expected ErrOrderExpired, got %v", err)
	}
}
