package planner

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/notifications"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/repository"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/timewindow"
)

// Service владеет жизненным циклом недельного плана: ленивым созданием,
// назначением меню и клиентов, публикацией в дневные заказы.
type Service struct {
	plans     *repository.WeeklyPlanRepository
	templates *repository.MenuTemplateRepository
	orders    *repository.DayOrderRepository
	customers *repository.CustomerRepository
	meals     *repository.MealRepository
	resolver  *timewindow.Resolver
	notifier  notifications.Notifier
	logger    *slog.Logger
}

// NewService создает сервис недельных планов.
func NewService(
	plans *repository.WeeklyPlanRepository,
	templates *repository.MenuTemplateRepository,
	orders *repository.DayOrderRepository,
	customers *repository.CustomerRepository,
	meals *repository.MealRepository,
	resolver *timewindow.Resolver,
	notifier notifications.Notifier,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		plans:     plans,
		templates: templates,
		orders:    orders,
		customers: customers,
		meals:     meals,
		resolver:  resolver,
		notifier:  notifier,
		logger:    logger,
	}
}

// ValidateYearWeek проверяет границы ISO-(года, недели).
func ValidateYearWeek(year, week int) error {
	if year < 2000 || year > 2100 || week < 1 || week > 53 {
		return repository.ErrInvalid
	}
	return nil
}

// GetOrCreate возвращает план недели, лениво создавая его с начальным
// статусом от резолвера. Для пользователя без часового пояса план не
// создается: угадывать статус нельзя.
func (s *Service) GetOrCreate(ctx context.Context, principal models.Principal, year, week int) (*models.WeeklyPlan, Outcome, error) {
	plan, err := s.plans.GetByUserWeek(ctx, principal.ID, year, week)
	if err == nil {
		return &plan, Success(), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, Outcome{}, err
	}

	if principal.Timezone == "" {
		return nil, Outcome{
			Status:  OutcomeNotFound,
			Message: &Detail{Key: "weekly_plan.timezone_missing"},
		}, nil
	}

	status := models.PlanStatusActive
	if s.resolver.IsWeekExpired(year, week, principal.Timezone) {
		status = models.PlanStatusExpired
	}

	created, err := s.plans.Create(ctx, models.WeeklyPlan{
		ID:         uuid.New(),
		UserID:     principal.ID,
		Year:       year,
		Week:       week,
		Timezone:   principal.Timezone,
		Status:     status,
		AssignMenu: make([]models.AssignedMenu, 0),
	})
	if errors.Is(err, repository.ErrConflict) {
		// Гонку первых запросов выигрывает уникальный индекс: перечитываем.
		existing, readErr := s.plans.GetByUserWeek(ctx, principal.ID, year, week)
		if readErr != nil {
			return nil, Outcome{}, readErr
		}
		return &existing, Success(), nil
	}
	if err != nil {
		return nil, Outcome{}, err
	}

	return &created, Success(), nil
}

// ensureMutable отклоняет любую мутацию истекшего плана: такой план — снимок,
// писать в него может только sweeper.
func ensureMutable(plan *models.WeeklyPlan) error {
	if plan.Status == models.PlanStatusExpired {
		return ErrPlanExpired
	}
	return nil
}

// filterAssignable отбирает шаблоны, допущенные к назначению: отбрасывает
// дубликаты и урезает список по свободному месту тарифа.
func filterAssignable(plan *models.WeeklyPlan, requested []uuid.UUID, limit int) ([]uuid.UUID, Outcome, error) {
	warnings := make([]Detail, 0)
	fresh := make([]uuid.UUID, 0, len(requested))
	seen := make(map[uuid.UUID]struct{}, len(requested))

	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if plan.HasTemplate(id) {
			warnings = append(warnings, Detail{
				Key:    "menu.duplicate",
				Params: map[string]string{"menu_id": id.String()},
			})
			continue
		}
		fresh = append(fresh, id)
	}

	if len(fresh) == 0 {
		if len(warnings) > 0 {
			return nil, Outcome{Status: OutcomeDuplicateMenu, Warnings: warnings}, nil
		}
		return nil, Success(), nil
	}

	room := limit - len(plan.AssignMenu)
	if room <= 0 {
		return nil, Outcome{}, ErrQuotaExceeded
	}

	if room < len(fresh) {
		for _, id := range fresh[room:] {
			warnings = append(warnings, Detail{
				Key:    "menu.limit_reached",
				Params: map[string]string{"menu_id": id.String()},
			})
		}
		fresh = fresh[:room]
	}

	if len(warnings) > 0 {
		return fresh, warningOutcome(warnings), nil
	}

	return fresh, Success(), nil
}

// AssignMenus назначает шаблоны на неделю с учетом лимита тарифа и
// привязывает неделю к каждому назначенному шаблону.
func (s *Service) AssignMenus(ctx context.Context, principal models.Principal, year, week int, menuIDs []uuid.UUID) (*models.WeeklyPlan, Outcome, error) {
	plan, err := s.plans.GetByUserWeek(ctx, principal.ID, year, week)
	if err != nil {
		return nil, Outcome{}, err
	}
	if err := ensureMutable(&plan); err != nil {
		return nil, Outcome{}, err
	}

	admitted, outcome, err := filterAssignable(&plan, menuIDs, models.MenuLimit(principal.Tier))
	if err != nil {
		return nil, Outcome{}, err
	}
	if len(admitted) == 0 {
		return &plan, outcome, nil
	}

	templates, err := s.templates.GetByIDs(ctx, principal.ID, admitted)
	if err != nil {
		return nil, Outcome{}, err
	}
	if len(templates) != len(admitted) {
		return nil, Outcome{}, repository.ErrNotFound
	}

	for _, template := range templates {
		plan.AssignMenu = append(plan.AssignMenu, models.AssignedMenu{
			ID:            uuid.New(),
			TemplateID:    template.ID,
			TemplateTitle: template.Title,
			Customers:     make([]models.CustomerRef, 0),
		})
	}

	if err := s.plans.UpdateAssignMenu(ctx, &plan); err != nil {
		return nil, Outcome{}, err
	}

	week0 := models.YearWeek{Year: year, Week: week}
	for _, template := range templates {
		if template.HasActiveWeek(week0) {
			continue
		}
		weeks := append(template.ActiveWeeks, week0)
		if err := s.templates.SetActiveWeeks(ctx, template.ID, weeks); err != nil {
			return nil, Outcome{}, err
		}
	}

	s.notify(principal.ID, notifications.WeeklyPlanUpdated(year, week))
	return &plan, outcome, nil
}

// UnassignMenu убирает назначенное меню; опубликованное меню убрать нельзя.
func (s *Service) UnassignMenu(ctx context.Context, principal models.Principal, year, week int, assignedMenuID uuid.UUID) (*models.WeeklyPlan, error) {
	plan, err := s.plans.GetByUserWeek(ctx, principal.ID, year, week)
	if err != nil {
		return nil, err
	}
	if err := ensureMutable(&plan); err != nil {
		return nil, err
	}

	menu := plan.FindAssignedMenu(assignedMenuID)
	if menu == nil {
		return nil, ErrMenuNotAssigned
	}
	if menu.Published {
		return nil, ErrMenuPublished
	}

	templateID := menu.TemplateID
	remaining := make([]models.AssignedMenu, 0, len(plan.AssignMenu)-1)
	for _, entry := range plan.AssignMenu {
		if entry.ID == assignedMenuID {
			continue
		}
		remaining = append(remaining, entry)
	}
	plan.AssignMenu = remaining

	if err := s.plans.UpdateAssignMenu(ctx, &plan); err != nil {
		return nil, err
	}

	if err := s.detachTemplateWeek(ctx, principal.ID, templateID, models.YearWeek{Year: year, Week: week}); err != nil {
		return nil, err
	}

	s.notify(principal.ID, notifications.WeeklyPlanUpdated(year, week))
	return &plan, nil
}

// admitCustomersByQuota отбирает клиентов для квотного назначения: клиент
// не может занять больше меню недели, чем его weekly_menu_quantity.
func admitCustomersByQuota(plan *models.WeeklyPlan, menu *models.AssignedMenu, candidates []models.Customer) []Detail {
	warnings := make([]Detail, 0)

	for _, customer := range candidates {
		alreadyHere := false
		for _, ref := range menu.Customers {
			if ref.ID == customer.ID {
				alreadyHere = true
				break
			}
		}
		if alreadyHere {
			warnings = append(warnings, Detail{
				Key:    "customer.already_assigned",
				Params: map[string]string{"customer": customer.Name},
			})
			continue
		}

		if plan.CustomerAssignments(customer.ID) >= customer.WeeklyMenuQuantity {
			warnings = append(warnings, Detail{
				Key:    "customer.quota_exceeded",
				Params: map[string]string{"customer": customer.Name},
			})
			continue
		}

		menu.Customers = append(menu.Customers, models.CustomerRef{ID: customer.ID, Name: customer.Name})
	}

	return warnings
}

// admitCustomersByConflict отбирает клиентов для группового назначения:
// клиент, уже занятый в любом меню плана, отклоняется с деталью конфликта.
func admitCustomersByConflict(plan *models.WeeklyPlan, menu *models.AssignedMenu, candidates []models.Customer) []Detail {
	warnings := make([]Detail, 0)

	for _, customer := range candidates {
		if plan.CustomerAssignments(customer.ID) > 0 {
			warnings = append(warnings, Detail{
				Key:    "customer.already_committed",
				Params: map[string]string{"customer": customer.Name},
			})
			continue
		}

		menu.Customers = append(menu.Customers, models.CustomerRef{ID: customer.ID, Name: customer.Name})
	}

	return warnings
}

// AssignCustomers назначает клиентов на меню с проверкой недельной квоты
// каждого клиента. Частичный успех возвращается предупреждением, а не ошибкой.
func (s *Service) AssignCustomers(ctx context.Context, principal models.Principal, year, week int, assignedMenuID uuid.UUID, customerIDs []uuid.UUID) (*models.WeeklyPlan, Outcome, error) {
	plan, menu, err := s.loadMenu(ctx, principal.ID, year, week, assignedMenuID)
	if err != nil {
		return nil, Outcome{}, err
	}

	candidates, err := s.customers.GetByIDs(ctx, principal.ID, customerIDs)
	if err != nil {
		return nil, Outcome{}, err
	}
	if len(candidates) != len(dedupeIDs(customerIDs)) {
		return nil, Outcome{}, repository.ErrNotFound
	}

	warnings := admitCustomersByQuota(plan, menu, candidates)

	if err := s.plans.UpdateAssignMenu(ctx, plan); err != nil {
		return nil, Outcome{}, err
	}

	s.notify(principal.ID, notifications.WeeklyPlanUpdated(year, week))

	if len(warnings) > 0 {
		return plan, warningOutcome(warnings), nil
	}
	return plan, Success(), nil
}

// AssignCustomersAndGroups назначает клиентов и участников групп; клиенты,
// уже занятые где-либо в плане, отклоняются с деталями по каждому.
func (s *Service) AssignCustomersAndGroups(ctx context.Context, principal models.Principal, year, week int, assignedMenuID uuid.UUID, customerIDs, groupIDs []uuid.UUID) (*models.WeeklyPlan, Outcome, error) {
	plan, menu, err := s.loadMenu(ctx, principal.ID, year, week, assignedMenuID)
	if err != nil {
		return nil, Outcome{}, err
	}

	direct, err := s.customers.GetByIDs(ctx, principal.ID, customerIDs)
	if err != nil {
		return nil, Outcome{}, err
	}
	if len(direct) != len(dedupeIDs(customerIDs)) {
		return nil, Outcome{}, repository.ErrNotFound
	}

	members, err := s.customers.ListGroupMembers(ctx, principal.ID, groupIDs)
	if err != nil {
		return nil, Outcome{}, err
	}

	candidates := make([]models.Customer, 0, len(direct)+len(members))
	seen := make(map[uuid.UUID]struct{}, len(direct)+len(members))
	for _, customer := range append(direct, members...) {
		if _, ok := seen[customer.ID]; ok {
			continue
		}
		seen[customer.ID] = struct{}{}
		candidates = append(candidates, customer)
	}

	warnings := admitCustomersByConflict(plan, menu, candidates)

	if err := s.plans.UpdateAssignMenu(ctx, plan); err != nil {
		return nil, Outcome{}, err
	}

	s.notify(principal.ID, notifications.WeeklyPlanUpdated(year, week))

	if len(warnings) > 0 {
		return plan, warningOutcome(warnings), nil
	}
	return plan, Success(), nil
}

// RemoveCustomer убирает клиента из назначенного меню.
func (s *Service) RemoveCustomer(ctx context.Context, principal models.Principal, year, week int, assignedMenuID, customerID uuid.UUID) (*models.WeeklyPlan, error) {
	plan, menu, err := s.loadMenu(ctx, principal.ID, year, week, assignedMenuID)
	if err != nil {
		return nil, err
	}

	remaining := make([]models.CustomerRef, 0, len(menu.Customers))
	found := false
	for _, ref := range menu.Customers {
		if ref.ID == customerID {
			found = true
			continue
		}
		remaining = append(remaining, ref)
	}
	if !found {
		return nil, repository.ErrNotFound
	}
	menu.Customers = remaining

	if err := s.plans.UpdateAssignMenu(ctx, plan); err != nil {
		return nil, err
	}

	s.notify(principal.ID, notifications.WeeklyPlanUpdated(year, week))
	return plan, nil
}

// TogglePublish переключает публикацию меню и ведет дневные заказы недели.
// Повтор в ту же сторону — мягкий конфликт, не ошибка.
func (s *Service) TogglePublish(ctx context.Context, principal models.Principal, year, week int, assignedMenuID uuid.UUID, publish bool) (*models.WeeklyPlan, Outcome, error) {
	plan, menu, err := s.loadMenu(ctx, principal.ID, year, week, assignedMenuID)
	if err != nil {
		return nil, Outcome{}, err
	}

	if menu.Published == publish {
		key := "menu.already_unpublished"
		if publish {
			key = "menu.already_published"
		}
		return plan, Outcome{
			Status:   OutcomeWarning,
			Message:  &Detail{Key: key},
			Warnings: []Detail{{Key: key}},
		}, nil
	}

	menu.Published = publish
	if err := s.plans.UpdateAssignMenu(ctx, plan); err != nil {
		return nil, Outcome{}, err
	}

	if publish {
		err = s.publishAssignedMenu(ctx, plan, menu)
	} else {
		err = s.unpublishAssignedMenu(ctx, plan, menu)
	}
	if err != nil {
		return nil, Outcome{}, err
	}

	s.notify(principal.ID, notifications.DayOrdersUpdated(year, week))
	return plan, Success(), nil
}

func (s *Service) loadMenu(ctx context.Context, userID uuid.UUID, year, week int, assignedMenuID uuid.UUID) (*models.WeeklyPlan, *models.AssignedMenu, error) {
	plan, err := s.plans.GetByUserWeek(ctx, userID, year, week)
	if err != nil {
		return nil, nil, err
	}
	if err := ensureMutable(&plan); err != nil {
		return nil, nil, err
	}

	menu := plan.FindAssignedMenu(assignedMenuID)
	if menu == nil {
		return nil, nil, ErrMenuNotAssigned
	}

	return &plan, menu, nil
}

func (s *Service) detachTemplateWeek(ctx context.Context, userID, templateID uuid.UUID, week models.YearWeek) error {
	template, err := s.templates.GetByID(ctx, userID, templateID)
	if errors.Is(err, repository.ErrNotFound) {
		// Шаблон мог быть удален после снятия активности; план уже сохранен.
		return nil
	}
	if err != nil {
		return err
	}

	weeks := make([]models.YearWeek, 0, len(template.ActiveWeeks))
	for _, w := range template.ActiveWeeks {
		if w == week {
			continue
		}
		weeks = append(weeks, w)
	}

	if len(weeks) == len(template.ActiveWeeks) {
		return nil
	}

	return s.templates.SetActiveWeeks(ctx, template.ID, weeks)
}

func (s *Service) notify(userID uuid.UUID, event notifications.Event) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(userID, event)
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
