package orders

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/ingredients"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/notifications"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/repository"
)

var (
	// ErrOrderExpired возвращается на любую мутацию истекшего заказа:
	// такой заказ — историческая запись, писать в него может только sweeper.
	ErrOrderExpired  = errors.New("day order is expired")
	ErrInvalidStatus = errors.New("invalid status")
)

// Service управляет статусами дневных заказов и отчетами по ингредиентам.
type Service struct {
	orders   *repository.DayOrderRepository
	stock    *repository.StockRepository
	notifier notifications.Notifier
	logger   *slog.Logger
}

// NewService создает сервис дневных заказов.
func NewService(orders *repository.DayOrderRepository, stock *repository.StockRepository, notifier notifications.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{orders: orders, stock: stock, notifier: notifier, logger: logger}
}

// ApplyOrderStatus выставляет статус заказа и каскадно приводит все блюда к
// соответствующему терминальному статусу: заказ done не может содержать
// блюда not_done после прямой правки на уровне заказа.
func ApplyOrderStatus(order *models.SingleDayOrder, status models.OrderStatus) error {
	if order.Expired {
		return ErrOrderExpired
	}
	if status != models.OrderStatusNotDone && status != models.OrderStatusDone {
		return ErrInvalidStatus
	}

	order.Status = status

	mealStatus := models.MealStatusNotDone
	if status == models.OrderStatusDone {
		mealStatus = models.MealStatusDone
	}
	for i := range order.Categories {
		for j := range order.Categories[i].Meals {
			order.Categories[i].Meals[j].Status = mealStatus
		}
	}

	return nil
}

// ApplyMealStatus выставляет статус отдельного блюда; явная смена допускает
// любое значение, включая возврат назад.
func ApplyMealStatus(order *models.SingleDayOrder, mealID uuid.UUID, status models.MealStatus) error {
	if order.Expired {
		return ErrOrderExpired
	}

	switch status {
	case models.MealStatusNotDone, models.MealStatusPreparing, models.MealStatusDone:
	default:
		return ErrInvalidStatus
	}

	meal := order.FindMeal(mealID)
	if meal == nil {
		return repository.ErrNotFound
	}

	meal.Status = status
	return nil
}

// List возвращает дневные заказы недели.
func (s *Service) List(ctx context.Context, userID uuid.UUID, year, week int) ([]models.SingleDayOrder, error) {
	return s.orders.ListByUserWeek(ctx, userID, year, week)
}

// Get возвращает заказ на день недели.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, year, week, day int) (models.SingleDayOrder, error) {
	return s.orders.GetByUserWeekDay(ctx, userID, year, week, day)
}

// SetOrderStatus меняет статус заказа с каскадом на блюда.
func (s *Service) SetOrderStatus(ctx context.Context, userID uuid.UUID, year, week, day int, status models.OrderStatus) (models.SingleDayOrder, error) {
	order, err := s.orders.GetByUserWeekDay(ctx, userID, year, week, day)
	if err != nil {
		return models.SingleDayOrder{}, err
	}

	if err := ApplyOrderStatus(&order, status); err != nil {
		return models.SingleDayOrder{}, err
	}

	if err := s.orders.UpdateStatus(ctx, &order); err != nil {
		return models.SingleDayOrder{}, err
	}

	s.notify(userID, notifications.DayOrdersUpdated(year, week))
	return order, nil
}

// SetMealStatus меняет статус блюда в заказе.
func (s *Service) SetMealStatus(ctx context.Context, userID uuid.UUID, year, week, day int, mealID uuid.UUID, status models.MealStatus) (models.SingleDayOrder, error) {
	order, err := s.orders.GetByUserWeekDay(ctx, userID, year, week, day)
	if err != nil {
		return models.SingleDayOrder{}, err
	}

	if err := ApplyMealStatus(&order, mealID, status); err != nil {
		return models.SingleDayOrder{}, err
	}

	if err := s.orders.UpdateStatus(ctx, &order); err != nil {
		return models.SingleDayOrder{}, err
	}

	s.notify(userID, notifications.DayOrdersUpdated(year, week))
	return order, nil
}

// DayIngredients строит сверенный с остатками список ингредиентов на день.
func (s *Service) DayIngredients(ctx context.Context, userID uuid.UUID, year, week, day int) ([]*ingredients.IngredientSummary, error) {
	order, err := s.orders.GetByUserWeekDay(ctx, userID, year, week, day)
	if err != nil {
		return nil, err
	}

	aggregate := ingredients.AggregateDay(&order)

	stock, err := s.stock.GetForDay(ctx, userID, year, week, day)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	ingredients.Reconcile(aggregate, stock.Ingredients)

	return ingredients.Sorted(aggregate), nil
}

// CombinedIngredients строит объединенный список закупки на набор дней и
// сверяет его с остатками объединенного документа.
func (s *Service) CombinedIngredients(ctx context.Context, userID uuid.UUID, year, week int, days []int) ([]*ingredients.IngredientSummary, error) {
	perDay := make(map[int]map[uuid.UUID]*ingredients.IngredientSummary, len(days))
	for _, day := range days {
		order, err := s.orders.GetByUserWeekDay(ctx, userID, year, week, day)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		perDay[day] = ingredients.AggregateDay(&order)
	}

	combined := ingredients.CombineDays(days, perDay)

	stock, err := s.stock.GetForDays(ctx, userID, year, week, days)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	ingredients.Reconcile(combined, stock.Ingredients)

	return ingredients.Sorted(combined), nil
}

func (s *Service) notify(userID uuid.UUID, event notifications.Event) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(userID, event)
}
