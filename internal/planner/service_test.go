package planner

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
)

func planWithMenus(count int) *models.WeeklyPlan {
	plan := &models.WeeklyPlan{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Year:       2025,
		Week:       10,
		Status:     models.PlanStatusActive,
		AssignMenu: make([]models.AssignedMenu, 0, count),
	}
	for i := 0; i < count; i++ {
		plan.AssignMenu = append(plan.AssignMenu, models.AssignedMenu{
			ID:         uuid.New(),
			TemplateID: uuid.New(),
			Customers:  make([]models.CustomerRef, 0),
		})
	}
	return plan
}

// TestFilterAssignable проверяет назначение без конфликтов в пределах лимита.
func TestFilterAssignable(t *testing.T) {
	plan := planWithMenus(1)
	requested := []uuid.UUID{uuid.New(), uuid.New()}

	admitted, outcome, err := filterAssignable(plan, requested, 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(admitted) != 2 {
		t.Fatalf("expected 2 admitted, got %d", len(admitted))
	}
	if outcome.Status != OutcomeSuccess {
		t.Fatalf("expected success, got %s", outcome.Status)
	}
}

// TestFilterAssignablePartialRoom проверяет свойство квоты: при лимите N и
// N-1 занятых местах запрос трех новых меню допускает ровно одно.
func TestFilterAssignablePartialRoom(t *testing.T) {
	const limit = 4
	plan := planWithMenus(limit - 1)
	requested := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	admitted, outcome, err := filterAssignable(plan, requested, limit)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(admitted) != 1 {
		t.Fatalf("expected 1 admitted, got %d", len(admitted))
	}
	if admitted[0] != requested[0] {
		t.Fatalf("expected head of request admitted, got %s", admitted[0])
	}
	if outcome.Status != OutcomeWarningMultiple {
		t.Fatalf("expected warning_multiple, got %s", outcome.Status)
	}
	if len(outcome.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(outcome.Warnings))
	}
}

// TestFilterAssignableZeroRoom проверяет жесткий отказ при исчерпанном лимите.
func TestFilterAssignableZeroRoom(t *testing.T) {
	plan := planWithMenus(2)

	_, _, err := filterAssignable(plan, []uuid.UUID{uuid.New()}, 2)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

// TestFilterAssignableDuplicates проверяет мягкий итог duplicate_menu.
func TestFilterAssignableDuplicates(t *testing.T) {
	plan := planWithMenus(1)
	requested := []uuid.UUID{plan.AssignMenu[0].TemplateID, plan.AssignMenu[0].TemplateID}

	admitted, outcome, err := filterAssignable(plan, requested, 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(admitted) != 0 {
		t.Fatalf("expected nothing admitted, got %d", len(admitted))
	}
	if outcome.Status != OutcomeDuplicateMenu {
		t.Fatalf("expected duplicate_menu, got %s", outcome.Status)
	}
	if len(outcome.Warnings) != 1 {
		t.Fatalf("expected single warning for deduplicated request, got %d", len(outcome.Warnings))
	}
}

// TestAdmitCustomersByQuota проверяет недельную квоту клиента по всему плану.
func TestAdmitCustomersByQuota(t *testing.T) {
	customer := models.Customer{ID: uuid.New(), Name: "Jonas", WeeklyMenuQuantity: 2}

	plan := planWithMenus(3)
	// Клиент уже занят в двух меню из трех.
	plan.AssignMenu[0].Customers = []models.CustomerRef{{ID: customer.ID, Name: customer.Name}}
	plan.AssignMenu[1].Customers = []models.CustomerRef{{ID: customer.ID, Name: customer.Name}}

	warnings := admitCustomersByQuota(plan, &plan.AssignMenu[2], []models.Customer{customer})

	if len(warnings) != 1 || warnings[0].Key != "customer.quota_exceeded" {
		t.Fatalf("expected quota warning, got %+v", warnings)
	}
	if len(plan.AssignMenu[2].Customers) != 0 {
		t.Fatal("expected customer not admitted")
	}
}

// TestAdmitCustomersByQuotaAdmits проверяет допуск клиента со свободной квотой.
func TestAdmitCustomersByQuotaAdmits(t *testing.T) {
	customer := models.Customer{ID: uuid.New(), Name: "Jonas", WeeklyMenuQuantity: 2}

	plan := planWithMenus(2)
	plan.AssignMenu[0].Customers = []models.CustomerRef{{ID: customer.ID, Name: customer.Name}}

	warnings := admitCustomersByQuota(plan, &plan.AssignMenu[1], []models.Customer{customer})

	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %+v", warnings)
	}
	if len(plan.AssignMenu[1].Customers) != 1 {
		t.Fatal("expected customer admitted")
	}
}

// TestAdmitCustomersByQuotaAlreadyInMenu проверяет отказ при повторе в том же меню.
func TestAdmitCustomersByQuotaAlreadyInMenu(t *testing.T) {
	customer := models.Customer{ID: uuid.New(), Name: "Jonas", WeeklyMenuQuantity: 5}

	plan := planWithMenus(1)
	plan.AssignMenu[0].Customers = []models.CustomerRef{{ID: customer.ID, Name: customer.Name}}

	warnings := admitCustomersByQuota(plan, &plan.AssignMenu[0], []models.Customer{customer})

	if len(warnings) != 1 || warnings[0].Key != "customer.already_assigned" {
		t.Fatalf("expected already_assigned warning, got %+v", warnings)
	}
	if len(plan.AssignMenu[0].Customers) != 1 {
		t.Fatal("expected no duplicate customer")
	}
}

// TestAdmitCustomersByConflict проверяет отказ клиенту, занятому в другом меню плана.
func TestAdmitCustomersByConflict(t *testing.T) {
	busy := models.Customer{ID: uuid.New(), Name: "Ona", WeeklyMenuQuantity: 5}
	free := models.Customer{ID: uuid.New(), Name: "Petras", WeeklyMenuQuantity: 5}

	plan := planWithMenus(2)
	plan.AssignMenu[0].Customers = []models.CustomerRef{{ID: busy.ID, Name: busy.Name}}

	warnings := admitCustomersByConflict(plan, &plan.AssignMenu[1], []models.Customer{busy, free})

	if len(warnings) != 1 || warnings[0].Key != "customer.already_committed" {
		t.Fatalf("expected conflict warning, got %+v", warnings)
	}
	if warnings[0].Params["customer"] != "Ona" {
		t.Fatalf("expected conflict detail for Ona, got %+v", warnings[0].Params)
	}
	if len(plan.AssignMenu[1].Customers) != 1 || plan.AssignMenu[1].Customers[0].ID != free.ID {
		t.Fatalf("expected only free customer admitted, got %+v", plan.AssignMenu[1].Customers)
	}
}

// TestEnsureMutableRejectsExpired проверяет неизменяемость истекшего плана:
// любая мутация снимка отклоняется жестким отказом.
func TestEnsureMutableRejectsExpired(t *testing.T) {
	plan := planWithMenus(1)
	plan.Status = models.PlanStatusExpired
	plan.IsSnapshot = true

	if err := ensureMutable(plan); !errors.Is(err, ErrPlanExpired) {
		t.Fatalf("expected ErrPlanExpired, got %v", err)
	}
}

// TestEnsureMutableAllowsActive проверяет допуск мутаций активного плана.
func TestEnsureMutableAllowsActive(t *testing.T) {
	plan := planWithMenus(1)

	if err := ensureMutable(plan); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

// TestValidateYearWeek проверяет границы года и недели.
func TestValidateYearWeek(t *testing.T) {
	if err := ValidateYearWeek(2025, 10); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	if err := ValidateYearWeek(2025, 0); err == nil {
		t.Fatal("expected error for week 0")
	}
	if err := ValidateYearWeek(2025, 54); err == nil {
		t.Fatal("expected error for week 54")
	}
	if err := ValidateYearWeek(1999, 10); err == nil {
		t.Fatal("expected error for year below range")
	}
}

// TestWarningOutcome проверяет выбор статуса по числу предупреждений.
func TestWarningOutcome(t *testing.T) {
	if got := warningOutcome([]Detail{{Key: "a"}}); got.Status != OutcomeWarning {
		t.Fatalf("expected warning, got %s", got.Status)
	}
	if got := warningOutcome([]Detail{{Key: "a"}, {Key: "b"}}); got.Status != OutcomeWarningMultiple {
		t.Fatalf("expected warning_multiple, got %s", got.Status)
	}
}
