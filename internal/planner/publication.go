package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/repository"
)

// BuildDayCategories группирует блюда дня шаблона по категориям и помечает
// каждым блюдом всех клиентов назначенного меню. Порядок категорий — порядок
// их первого появления в дне.
func BuildDayCategories(day models.TemplateDay, meals map[uuid.UUID]models.Meal, menu *models.AssignedMenu) []models.OrderCategory {
	categories := make([]models.OrderCategory, 0)
	index := make(map[string]int)

	for _, templateMeal := range day.Meals {
		meal, ok := meals[templateMeal.MealID]
		if !ok {
			continue
		}

		customers := make([]models.CustomerRef, len(menu.Customers))
		copy(customers, menu.Customers)

		entry := models.OrderMeal{
			ID:            uuid.New(),
			TemplateID:    menu.TemplateID,
			TemplateTitle: menu.TemplateTitle,
			Snapshot:      models.NewMealSnapshot(&meal),
			Status:        models.MealStatusNotDone,
			Customers:     customers,
		}

		pos, exists := index[templateMeal.Category]
		if !exists {
			index[templateMeal.Category] = len(categories)
			categories = append(categories, models.OrderCategory{
				Category: templateMeal.Category,
				Meals:    []models.OrderMeal{entry},
			})
			continue
		}

		categories[pos].Meals = append(categories[pos].Meals, entry)
	}

	return categories
}

// MergeDayCategories дописывает новые категории и блюда в существующий заказ.
// Слияние аддитивно: повторная публикация добавляет блюда, а не заменяет и не
// дедуплицирует их (унаследованное поведение, ждет решения продукта).
func MergeDayCategories(existing, incoming []models.OrderCategory) []models.OrderCategory {
	merged := existing

	for _, category := range incoming {
		found := false
		for i := range merged {
			if merged[i].Category == category.Category {
				merged[i].Meals = append(merged[i].Meals, category.Meals...)
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, category)
		}
	}

	return merged
}

// PruneTemplateMeals убирает из заказа блюда, опубликованные указанным
// шаблоном; опустевшие категории выбрасываются. Возвращает признак изменения.
func PruneTemplateMeals(categories []models.OrderCategory, templateID uuid.UUID) ([]models.OrderCategory, bool) {
	pruned := make([]models.OrderCategory, 0, len(categories))
	changed := false

	for _, category := range categories {
		meals := make([]models.OrderMeal, 0, len(category.Meals))
		for _, meal := range category.Meals {
			if meal.TemplateID == templateID {
				changed = true
				continue
			}
			meals = append(meals, meal)
		}

		if len(meals) == 0 {
			if len(category.Meals) > 0 {
				changed = true
			}
			continue
		}

		category.Meals = meals
		pruned = append(pruned, category)
	}

	return pruned, changed
}

// publishAssignedMenu материализует шаблон и его клиентов в дневные заказы
// недели, досоздавая отсутствующие заказы и дописывая существующие.
func (s *Service) publishAssignedMenu(ctx context.Context, plan *models.WeeklyPlan, menu *models.AssignedMenu) error {
	template, err := s.templates.GetByID(ctx, plan.UserID, menu.TemplateID)
	if err != nil {
		return fmt.Errorf("load template %s: %w", menu.TemplateID, err)
	}

	mealIDs := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]struct{})
	for _, day := range template.Days {
		for _, templateMeal := range day.Meals {
			if _, ok := seen[templateMeal.MealID]; ok {
				continue
			}
			seen[templateMeal.MealID] = struct{}{}
			mealIDs = append(mealIDs, templateMeal.MealID)
		}
	}

	meals, err := s.meals.GetByIDs(ctx, plan.UserID, mealIDs)
	if err != nil {
		return fmt.Errorf("load meals: %w", err)
	}

	for day := 0; day < 7 && day < len(template.Days); day++ {
		categories := BuildDayCategories(template.Days[day], meals, menu)
		if len(categories) == 0 {
			continue
		}

		order, err := s.orders.GetByUserWeekDay(ctx, plan.UserID, plan.Year, plan.Week, day)
		if errors.Is(err, repository.ErrNotFound) {
			order = models.SingleDayOrder{
				ID:         uuid.New(),
				UserID:     plan.UserID,
				Year:       plan.Year,
				Week:       plan.Week,
				Day:        day,
				Status:     models.OrderStatusNotDone,
				Categories: categories,
			}
			if _, err := s.orders.Create(ctx, order); err != nil {
				return fmt.Errorf("create day order %d: %w", day, err)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("load day order %d: %w", day, err)
		}

		order.Categories = MergeDayCategories(order.Categories, categories)
		if err := s.orders.UpdateCategories(ctx, &order); err != nil {
			return fmt.Errorf("update day order %d: %w", day, err)
		}
	}

	return nil
}

// unpublishAssignedMenu вычищает блюда шаблона из заказов недели. Заказы не
// удаляются, только прореживаются.
func (s *Service) unpublishAssignedMenu(ctx context.Context, plan *models.WeeklyPlan, menu *models.AssignedMenu) error {
	orders, err := s.orders.ListByUserWeek(ctx, plan.UserID, plan.Year, plan.Week)
	if err != nil {
		return fmt.Errorf("list day orders: %w", err)
	}

	for i := range orders {
		pruned, changed := PruneTemplateMeals(orders[i].Categories, menu.TemplateID)
		if !changed {
			continue
		}

		orders[i].Categories = pruned
		if err := s.orders.UpdateCategories(ctx, &orders[i]); err != nil {
			return fmt.Errorf("update day order %d: %w", orders[i].Day, err)
		}
	}

	return nil
}
