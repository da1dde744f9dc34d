package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
)

type MealRepository struct {
	db *pgxpool.Pool
}

// NewMealRepository создает репозиторий каталога блюд.
func NewMealRepository(db *pgxpool.Pool) *MealRepository {
	return &MealRepository{db: db}
}

// Create сохраняет новое блюдо.
func (r *MealRepository) Create(ctx context.Context, meal models.Meal) (models.Meal, error) {
	ingredients, err := json.Marshal(meal.Ingredients)
	if err != nil {
		return models.Meal{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO meals (id, user_id, title, ingredients)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, title, ingredients, created_at, updated_at`,
		meal.ID, meal.UserID, meal.Title, ingredients,
	)

	return scanMeal(row)
}

// GetByID возвращает блюдо пользователя по идентификатору.
func (r *MealRepository) GetByID(ctx context.Context, userID, mealID uuid.UUID) (models.Meal, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, title, ingredients, created_at, updated_at
		 FROM meals
		 WHERE id = $1 AND user_id = $2`,
		mealID, userID,
	)

	return scanMeal(row)
}

// GetByIDs возвращает блюда по списку идентификаторов, ключом по id.
func (r *MealRepository) GetByIDs(ctx context.Context, userID uuid.UUID, mealIDs []uuid.UUID) (map[uuid.UUID]models.Meal, error) {
	result := make(map[uuid.UUID]models.Meal, len(mealIDs))
	if len(mealIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, ingredients, created_at, updated_at
		 FROM meals
		 WHERE user_id = $1 AND id = ANY($2)`,
		userID, mealIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		result[meal.ID] = meal
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// ListByUser возвращает все блюда пользователя.
func (r *MealRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Meal, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, ingredients, created_at, updated_at
		 FROM meals
		 WHERE user_id = $1
		 ORDER BY title, created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meals := make([]models.Meal, 0)
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		meals = append(meals, meal)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return meals, nil
}

// Update обновляет название и состав блюда.
func (r *MealRepository) Update(ctx context.Context, userID, mealID uuid.UUID, title string, lines []models.IngredientLine) (models.Meal, error) {
	ingredients, err := json.Marshal(lines)
	if err != nil {
		return models.Meal{}, err
	}

	row := r.db.QueryRow(ctx,
		`UPDATE meals
		 SET title = $3,
		     ingredients = $4,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, title, ingredients, created_at, updated_at`,
		mealID, userID, title, ingredients,
	)

	return scanMeal(row)
}

// Delete удаляет блюдо пользователя.
func (r *MealRepository) Delete(ctx context.Context, userID, mealID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM meals
		 WHERE id = $1 AND user_id = $2`,
		mealID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanMeal(row pgx.Row) (models.Meal, error) {
	var meal models.Meal
	var ingredients []byte

	err := row.Scan(&meal.ID, &meal.UserID, &meal.Title, &ingredients, &meal.CreatedAt, &meal.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return meal, ErrNotFound
		}
		return meal, err
	}

	if err := json.Unmarshal(ingredients, &meal.Ingredients); err != nil {
		return meal, err
	}
	if meal.Ingredients == nil {
		meal.Ingredients = make([]models.IngredientLine, 0)
	}

	return meal, nil
}
