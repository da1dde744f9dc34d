package ingredients

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
)

// MealUsage — запись об использовании ингредиента одним блюдом дня.
type MealUsage struct {
	MealTitle        string          `json:"meal_title"`
	Quantity         int             `json:"quantity"`
	AmountPerPortion decimal.Decimal `json:"amount_per_portion"`
}

// IngredientSummary — суммарная потребность в ингредиенте со сверкой остатка.
// RestockNeeded остается nil, если остаток для ингредиента не вводился:
// в этом случае потребность целиком равна GeneralAmount.
type IngredientSummary struct {
	IngredientID  uuid.UUID        `json:"ingredient_id"`
	Title         string           `json:"title"`
	Unit          string           `json:"unit"`
	MealsToUse    []MealUsage      `json:"meals_to_use"`
	GeneralAmount decimal.Decimal  `json:"general_amount"`
	StockAmount   *decimal.Decimal `json:"stock_amount,omitempty"`
	RestockNeeded *decimal.Decimal `json:"restock_needed,omitempty"`
}

// AggregateDay суммирует потребность в ингредиентах по всем блюдам дневного
// заказа. Вклад каждого вхождения равен числу клиентов блюда, умноженному на
// количество на порцию; округление до двух знаков выполняется на каждом шаге
// накопления, а не только в конце.
func AggregateDay(order *models.SingleDayOrder) map[uuid.UUID]*IngredientSummary {
	result := make(map[uuid.UUID]*IngredientSummary)
	if order == nil {
		return result
	}

	for _, category := range order.Categories {
		for _, meal := range category.Meals {
			quantity := len(meal.Customers)
			if quantity == 0 {
				continue
			}

			for _, line := range meal.Snapshot.Ingredients {
				summary, ok := result[line.IngredientID]
				if !ok {
					summary = &IngredientSummary{
						IngredientID: line.IngredientID,
						Title:        line.Title,
						Unit:         line.Unit,
						MealsToUse:   make([]MealUsage, 0, 1),
					}
					result[line.IngredientID] = summary
				}

				contribution := line.AmountPerPortion.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
				summary.GeneralAmount = summary.GeneralAmount.Add(contribution).Round(2)
				summary.MealsToUse = append(summary.MealsToUse, MealUsage{
					MealTitle:        meal.Snapshot.Title,
					Quantity:         quantity,
					AmountPerPortion: line.AmountPerPortion,
				})
			}
		}
	}

	return result
}

// CombineDays сливает дневные агрегаты перечисленных дней в общий список
// закупки: суммы складываются, записи использования конкатенируются. День без
// ингредиента просто ничего не добавляет.
func CombineDays(days []int, perDay map[int]map[uuid.UUID]*IngredientSummary) map[uuid.UUID]*IngredientSummary {
	combined := make(map[uuid.UUID]*IngredientSummary)

	for _, day := range days {
		dayAggregate, ok := perDay[day]
		if !ok {
			continue
		}

		for id, source := range dayAggregate {
			summary, exists := combined[id]
			if !exists {
				summary = &IngredientSummary{
					IngredientID: source.IngredientID,
					Title:        source.Title,
					Unit:         source.Unit,
					MealsToUse:   make([]MealUsage, 0, len(source.MealsToUse)),
				}
				combined[id] = summary
			}

			summary.GeneralAmount = summary.GeneralAmount.Add(source.GeneralAmount).Round(2)
			summary.MealsToUse = append(summary.MealsToUse, source.MealsToUse...)
		}
	}

	return combined
}

// Reconcile сверяет агрегат с введенными остатками: для совпавших ингредиентов
// проставляет StockAmount и недостачу RestockNeeded = max(0, потребность - остаток).
func Reconcile(aggregate map[uuid.UUID]*IngredientSummary, stock []models.StockLine) {
	for _, line := range stock {
		summary, ok := aggregate[line.IngredientID]
		if !ok {
			continue
		}

		amount := line.Amount
		summary.StockAmount = &amount

		restock := summary.GeneralAmount.Sub(amount).Round(2)
		if restock.IsNegative() {
			restock = decimal.Zero
		}
		summary.RestockNeeded = &restock
	}
}

// Sorted возвращает агрегат списком, отсортированным по названию ингредиента.
func Sorted(aggregate map[uuid.UUID]*IngredientSummary) []*IngredientSummary {
	list := make([]*IngredientSummary, 0, len(aggregate))
	for _, summary := range aggregate {
		list = append(list, summary)
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Title == list[j].Title {
			return list[i].IngredientID.String() < list[j].IngredientID.String()
		}
		return list[i].Title < list[j].Title
	})

	return list
}
