package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
)

type StockRepository struct {
	db *pgxpool.Pool
}

// NewStockRepository создает репозиторий складских остатков.
func NewStockRepository(db *pgxpool.Pool) *StockRepository {
	return &StockRepository{db: db}
}

// GetForDay возвращает документ остатков на один день недели.
func (r *StockRepository) GetForDay(ctx context.Context, userID uuid.UUID, year, week, day int) (models.IngredientsStock, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, year, week, day, day_combined, ingredients, created_at, updated_at
		 FROM ingredients_stock
		 WHERE user_id = $1 AND year = $2 AND week = $3 AND day = $4`,
		userID, year, week, day,
	)

	return scanStock(row)
}

// GetForDays возвращает объединенный документ остатков на точный набор дней.
func (r *StockRepository) GetForDays(ctx context.Context, userID uuid.UUID, year, week int, days []int) (models.IngredientsStock, error) {
	payload, err := json.Marshal(normalizeDays(days))
	if err != nil {
		return models.IngredientsStock{}, err
	}

	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, year, week, day, day_combined, ingredients, created_at, updated_at
		 FROM ingredients_stock
		 WHERE user_id = $1 AND year = $2 AND week = $3 AND day IS NULL AND day_combined = $4`,
		userID, year, week, payload,
	)

	return scanStock(row)
}

// UpsertLine записывает остаток ингредиента, создавая документ при первом
// вводе для дня или комбинации дней.
func (r *StockRepository) UpsertLine(ctx context.Context, userID uuid.UUID, year, week int, day *int, days []int, line models.StockLine) (models.IngredientsStock, error) {
	if (day == nil) == (len(days) == 0) {
		return models.IngredientsStock{}, ErrInvalid
	}

	stock, err := r.getScope(ctx, userID, year, week, day, days)
	if errors.Is(err, ErrNotFound) {
		stock = models.IngredientsStock{
			ID:          uuid.New(),
			UserID:      userID,
			Year:        year,
			Week:        week,
			Day:         day,
			DayCombined: normalizeDays(days),
			Ingredients: []models.StockLine{line},
		}
		return r.insert(ctx, stock)
	}
	if err != nil {
		return models.IngredientsStock{}, err
	}

	replaced := false
	for i := range stock.Ingredients {
		if stock.Ingredients[i].IngredientID == line.IngredientID {
			stock.Ingredients[i].Amount = line.Amount
			replaced = true
			break
		}
	}
	if !replaced {
		stock.Ingredients = append(stock.Ingredients, line)
	}

	if err := r.saveLines(ctx, &stock); err != nil {
		return models.IngredientsStock{}, err
	}

	return stock, nil
}

// DeleteLine удаляет остаток ингредиента; документ без последней строки
// удаляется целиком.
func (r *StockRepository) DeleteLine(ctx context.Context, userID uuid.UUID, year, week int, day *int, days []int, ingredientID uuid.UUID) error {
	stock, err := r.getScope(ctx, userID, year, week, day, days)
	if err != nil {
		return err
	}

	remaining := make([]models.StockLine, 0, len(stock.Ingredients))
	found := false
	for _, line := range stock.Ingredients {
		if line.IngredientID == ingredientID {
			found = true
			continue
		}
		remaining = append(remaining, line)
	}
	if !found {
		return ErrNotFound
	}

	if len(remaining) == 0 {
		_, err := r.db.Exec(ctx, `DELETE FROM ingredients_stock WHERE id = $1`, stock.ID)
		return err
	}

	stock.Ingredients = remaining
	return r.saveLines(ctx, &stock)
}

func (r *StockRepository) getScope(ctx context.Context, userID uuid.UUID, year, week int, day *int, days []int) (models.IngredientsStock, error) {
	if day != nil {
		return r.GetForDay(ctx, userID, year, week, *day)
	}
	return r.GetForDays(ctx, userID, year, week, days)
}

func (r *StockRepository) insert(ctx context.Context, stock models.IngredientsStock) (models.IngredientsStock, error) {
	ingredients, err := json.Marshal(stock.Ingredients)
	if err != nil {
		return models.IngredientsStock{}, err
	}

	var combined []byte
	if stock.Day == nil {
		combined, err = json.Marshal(stock.DayCombined)
		if err != nil {
			return models.IngredientsStock{}, err
		}
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO ingredients_stock (id, user_id, year, week, day, day_combined, ingredients)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, user_id, year, week, day, day_combined, ingredients, created_at, updated_at`,
		stock.ID, stock.UserID, stock.Year, stock.Week, stock.Day, combined, ingredients,
	)

	return scanStock(row)
}

func (r *StockRepository) saveLines(ctx context.Context, stock *models.IngredientsStock) error {
	ingredients, err := json.Marshal(stock.Ingredients)
	if err != nil {
		return err
	}

	cmd, err := r.db.Exec(ctx,
		`UPDATE ingredients_stock
		 SET ingredients = $2,
		     updated_at = NOW()
		 WHERE id = $1`,
		stock.ID, ingredients,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func normalizeDays(days []int) []int {
	if len(days) == 0 {
		return nil
	}

	normalized := make([]int, 0, len(days))
	seen := make(map[int]struct{}, len(days))
	for _, day := range days {
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		normalized = append(normalized, day)
	}

	sort.Ints(normalized)
	return normalized
}

func scanStock(row pgx.Row) (models.IngredientsStock, error) {
	var stock models.IngredientsStock
	var combined, ingredients []byte

	err := row.Scan(&stock.ID, &stock.UserID, &stock.Year, &stock.Week, &stock.Day, &combined, &ingredients, &stock.CreatedAt, &stock.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return stock, ErrNotFound
		}
		return stock, err
	}

	if combined != nil {
		if err := json.Unmarshal(combined, &stock.DayCombined); err != nil {
			return stock, err
		}
	}
	if err := json.Unmarshal(ingredients, &stock.Ingredients); err != nil {
		return stock, err
	}
	if stock.Ingredients == nil {
		stock.Ingredients = make([]models.StockLine, 0)
	}

	return stock, nil
}
