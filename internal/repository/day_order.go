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

type DayOrderRepository struct {
	db *pgxpool.Pool
}

// NewDayOrderRepository создает репозиторий дневных заказов.
func NewDayOrderRepository(db *pgxpool.Pool) *DayOrderRepository {
	return &DayOrderRepository{db: db}
}

// GetByUserWeekDay возвращает заказ на конкретный день недели.
func (r *DayOrderRepository) GetByUserWeekDay(ctx context.Context, userID uuid.UUID, year, week, day int) (models.SingleDayOrder, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, year, week, day, status, expired, categories, version, created_at, updated_at
		 FROM day_orders
		 WHERE user_id = $1 AND year = $2 AND week = $3 AND day = $4`,
		userID, year, week, day,
	)

	return scanDayOrder(row)
}

// ListByUserWeek возвращает все дневные заказы недели, упорядоченные по дню.
func (r *DayOrderRepository) ListByUserWeek(ctx context.Context, userID uuid.UUID, year, week int) ([]models.SingleDayOrder, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, year, week, day, status, expired, categories, version, created_at, updated_at
		 FROM day_orders
		 WHERE user_id = $1 AND year = $2 AND week = $3
		 ORDER BY day`,
		userID, year, week,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]models.SingleDayOrder, 0)
	for rows.Next() {
		order, err := scanDayOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// Create создает дневной заказ; дубликат (user, year, week, day) дает ErrConflict.
func (r *DayOrderRepository) Create(ctx context.Context, order models.SingleDayOrder) (models.SingleDayOrder, error) {
	categories, err := json.Marshal(order.Categories)
	if err != nil {
		return models.SingleDayOrder{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO day_orders (id, user_id, year, week, day, status, expired, categories)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, user_id, year, week, day, status, expired, categories, version, created_at, updated_at`,
		order.ID, order.UserID, order.Year, order.Week, order.Day, order.Status, order.Expired, categories,
	)

	created, err := scanDayOrder(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.SingleDayOrder{}, ErrConflict
		}
		return models.SingleDayOrder{}, err
	}

	return created, nil
}

// UpdateCategories сохраняет состав заказа условной записью по версии.
func (r *DayOrderRepository) UpdateCategories(ctx context.Context, order *models.SingleDayOrder) error {
	categories, err := json.Marshal(order.Categories)
	if err != nil {
		return err
	}

	cmd, err := r.db.Exec(ctx,
		`UPDATE day_orders
		 SET categories = $3,
		     version = version + 1,
		     updated_at = NOW()
		 WHERE id = $1 AND version = $2`,
		order.ID, order.Version, categories,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrConflict
	}

	order.Version++
	return nil
}

// UpdateStatus сохраняет статусы заказа и блюд условной записью по версии.
func (r *DayOrderRepository) UpdateStatus(ctx context.Context, order *models.SingleDayOrder) error {
	categories, err := json.Marshal(order.Categories)
	if err != nil {
		return err
	}

	cmd, err := r.db.Exec(ctx,
		`UPDATE day_orders
		 SET status = $3,
		     categories = $4,
		     version = version + 1,
		     updated_at = NOW()
		 WHERE id = $1 AND version = $2`,
		order.ID, order.Version, order.Status, categories,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrConflict
	}

	order.Version++
	return nil
}

// MarkWeekExpired помечает все заказы недели как истекшие. Заказы никогда не
// удаляются: после этой отметки они остаются историческими записями.
func (r *DayOrderRepository) MarkWeekExpired(ctx context.Context, userID uuid.UUID, year, week int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE day_orders
		 SET expired = TRUE,
		     version = version + 1,
		     updated_at = NOW()
		 WHERE user_id = $1 AND year = $2 AND week = $3 AND expired = FALSE`,
		userID, year, week,
	)
	return err
}

func scanDayOrder(row pgx.Row) (models.SingleDayOrder, error) {
	var order models.SingleDayOrder
	var categories []byte

	err := row.Scan(&order.ID, &order.UserID, &order.Year, &order.Week, &order.Day, &order.Status, &order.Expired, &categories, &order.Version, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order, ErrNotFound
		}
		return order, err
	}

	if err := json.Unmarshal(categories, &order.Categories); err != nil {
		return order, err
	}
	if order.Categories == nil {
		order.Categories = make([]models.OrderCategory, 0)
	}

	return order, nil
}
