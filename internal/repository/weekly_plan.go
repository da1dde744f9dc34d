package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
)

type WeeklyPlanRepository struct {
	db *pgxpool.Pool
}

// NewWeeklyPlanRepository создает репозиторий недельных планов.
func NewWeeklyPlanRepository(db *pgxpool.Pool) *WeeklyPlanRepository {
	return &WeeklyPlanRepository{db: db}
}

// GetByUserWeek возвращает план пользователя на указанную ISO-неделю.
func (r *WeeklyPlanRepository) GetByUserWeek(ctx context.Context, userID uuid.UUID, year, week int) (models.WeeklyPlan, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, year, week, timezone, status, is_snapshot, assign_menu, version, created_at, updated_at
		 FROM weekly_plans
		 WHERE user_id = $1 AND year = $2 AND week = $3`,
		userID, year, week,
	)

	return scanWeeklyPlan(row)
}

// Create создает план недели. Гонка первых запросов на одну и ту же неделю
// разрешается уникальным индексом (user_id, year, week): проигравший получает
// ErrConflict и перечитывает существующий план.
func (r *WeeklyPlanRepository) Create(ctx context.Context, plan models.WeeklyPlan) (models.WeeklyPlan, error) {
	assignMenu, err := json.Marshal(plan.AssignMenu)
	if err != nil {
		return models.WeeklyPlan{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO weekly_plans (id, user_id, year, week, timezone, status, is_snapshot, assign_menu)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, user_id, year, week, timezone, status, is_snapshot, assign_menu, version, created_at, updated_at`,
		plan.ID, plan.UserID, plan.Year, plan.Week, plan.Timezone, plan.Status, plan.IsSnapshot, assignMenu,
	)

	created, err := scanWeeklyPlan(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.WeeklyPlan{}, ErrConflict
		}
		return models.WeeklyPlan{}, err
	}

	return created, nil
}

// UpdateAssignMenu сохраняет список назначенных меню условной записью по
// версии; при проигранной гонке возвращает ErrConflict.
func (r *WeeklyPlanRepository) UpdateAssignMenu(ctx context.Context, plan *models.WeeklyPlan) error {
	assignMenu, err := json.Marshal(plan.AssignMenu)
	if err != nil {
		return err
	}

	cmd, err := r.db.Exec(ctx,
		`UPDATE weekly_plans
		 SET assign_menu = $3,
		     version = version + 1,
		     updated_at = NOW()
		 WHERE id = $1 AND version = $2`,
		plan.ID, plan.Version, assignMenu,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrConflict
	}

	plan.Version++
	return nil
}

// ExpireSnapshot переводит план в expired и фиксирует снимки назначенных меню.
func (r *WeeklyPlanRepository) ExpireSnapshot(ctx context.Context, plan *models.WeeklyPlan) error {
	assignMenu, err := json.Marshal(plan.AssignMenu)
	if err != nil {
		return err
	}

	cmd, err := r.db.Exec(ctx,
		`UPDATE weekly_plans
		 SET status = $3,
		     is_snapshot = TRUE,
		     assign_menu = $4,
		     version = version + 1,
		     updated_at = NOW()
		 WHERE id = $1 AND version = $2`,
		plan.ID, plan.Version, models.PlanStatusExpired, assignMenu,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrConflict
	}

	plan.Status = models.PlanStatusExpired
	plan.IsSnapshot = true
	plan.Version++
	return nil
}

// ListActive возвращает все активные планы для обхода sweeper-ом.
func (r *WeeklyPlanRepository) ListActive(ctx context.Context) ([]models.WeeklyPlan, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, year, week, timezone, status, is_snapshot, assign_menu, version, created_at, updated_at
		 FROM weekly_plans
		 WHERE status = $1
		 ORDER BY year, week, created_at`,
		models.PlanStatusActive,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]models.WeeklyPlan, 0)
	for rows.Next() {
		plan, err := scanWeeklyPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

func scanWeeklyPlan(row pgx.Row) (models.WeeklyPlan, error) {
	var plan models.WeeklyPlan
	var assignMenu []byte

	err := row.Scan(&plan.ID, &plan.UserID, &plan.Year, &plan.Week, &plan.Timezone, &plan.Status, &plan.IsSnapshot, &assignMenu, &plan.Version, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return plan, ErrNotFound
		}
		return plan, err
	}

	if err := json.Unmarshal(assignMenu, &plan.AssignMenu); err != nil {
		return plan, err
	}
	if plan.AssignMenu == nil {
		plan.AssignMenu = make([]models.AssignedMenu, 0)
	}

	return plan, nil
}
