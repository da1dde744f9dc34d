package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/notifications"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/repository"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/timewindow"
)

// Sweeper — периодический процесс, который замораживает прошедшие недели:
// снимает снимки назначенных меню, переводит план в expired, отвязывает
// недели от шаблонов и помечает дневные заказы историческими.
type Sweeper struct {
	plans     *repository.WeeklyPlanRepository
	templates *repository.MenuTemplateRepository
	orders    *repository.DayOrderRepository
	resolver  *timewindow.Resolver
	notifier  notifications.Notifier
	logger    *slog.Logger
	interval  time.Duration
	now       func() time.Time
}

// New создает sweeper с указанным интервалом запуска.
func New(
	plans *repository.WeeklyPlanRepository,
	templates *repository.MenuTemplateRepository,
	orders *repository.DayOrderRepository,
	resolver *timewindow.Resolver,
	notifier notifications.Notifier,
	logger *slog.Logger,
	interval time.Duration,
) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{
		plans:     plans,
		templates: templates,
		orders:    orders,
		resolver:  resolver,
		notifier:  notifier,
		logger:    logger,
		interval:  interval,
		now:       time.Now,
	}
}

// Run крутит цикл по таймеру до отмены контекста. Сбой прогона логируется и
// ждет следующего тика: автоматического повтора нет, это принятое поведение.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", slog.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce обходит активные планы и замораживает те, чья неделя прошла в
// часовом поясе плана. Ошибка по одному плану не прерывает очередь.
func (s *Sweeper) RunOnce(ctx context.Context) {
	plans, err := s.plans.ListActive(ctx)
	if err != nil {
		s.logger.Error("sweeper: list active plans", slog.String("error", err.Error()))
		return
	}

	expired := 0
	for i := range plans {
		plan := &plans[i]
		if !s.resolver.IsWeekExpired(plan.Year, plan.Week, plan.Timezone) {
			continue
		}

		if err := s.expirePlan(ctx, plan); err != nil {
			s.logger.Error("sweeper: expire plan",
				slog.String("plan_id", plan.ID.String()),
				slog.Int("year", plan.Year),
				slog.Int("week", plan.Week),
				slog.String("error", err.Error()),
			)
			continue
		}
		expired++
	}

	if expired > 0 {
		s.logger.Info("sweeper run finished", slog.Int("expired_plans", expired))
	}
}

func (s *Sweeper) expirePlan(ctx context.Context, plan *models.WeeklyPlan) error {
	templateIDs := make([]uuid.UUID, 0, len(plan.AssignMenu))
	for _, menu := range plan.AssignMenu {
		templateIDs = append(templateIDs, menu.TemplateID)
	}

	loaded, err := s.templates.GetByIDs(ctx, plan.UserID, templateIDs)
	if err != nil {
		return err
	}

	templates := make(map[uuid.UUID]models.WeeklyMenuTemplate, len(loaded))
	for _, template := range loaded {
		templates[template.ID] = template
	}

	attachSnapshots(plan, templates, s.now().UTC())

	if err := s.plans.ExpireSnapshot(ctx, plan); err != nil {
		return err
	}

	week := models.YearWeek{Year: plan.Year, Week: plan.Week}
	for _, template := range loaded {
		weeks, changed := removeWeek(template.ActiveWeeks, week)
		if !changed {
			continue
		}
		if err := s.templates.SetActiveWeeks(ctx, template.ID, weeks); err != nil {
			return err
		}
	}

	if err := s.orders.MarkWeekExpired(ctx, plan.UserID, plan.Year, plan.Week); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.Publish(plan.UserID, notifications.WeekExpired(plan.Year, plan.Week))
	}

	return nil
}

// attachSnapshots фиксирует снимки шаблонов в назначенных меню плана.
// Меню без живого шаблона остается без снимка: исходник уже недоступен.
func attachSnapshots(plan *models.WeeklyPlan, templates map[uuid.UUID]models.WeeklyMenuTemplate, takenAt time.Time) {
	for i := range plan.AssignMenu {
		menu := &plan.AssignMenu[i]
		if menu.MenuSnapshot != nil {
			continue
		}

		template, ok := templates[menu.TemplateID]
		if !ok {
			continue
		}

		snapshot := models.NewMenuSnapshot(&template, takenAt)
		menu.MenuSnapshot = &snapshot
	}
}

func removeWeek(weeks []models.YearWeek, target models.YearWeek) ([]models.YearWeek, bool) {
	remaining := make([]models.YearWeek, 0, len(weeks))
	changed := false
	for _, week := range weeks {
		if week == target {
			changed = true
			continue
		}
		remaining = append(remaining, week)
	}
	return remaining, changed
}
