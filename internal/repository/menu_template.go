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

type MenuTemplateRepository struct {
	db *pgxpool.Pool
}

// NewMenuTemplateRepository создает репозиторий недельных шаблонов меню.
func NewMenuTemplateRepository(db *pgxpool.Pool) *MenuTemplateRepository {
	return &MenuTemplateRepository{db: db}
}

// Create сохраняет новый шаблон меню.
func (r *MenuTemplateRepository) Create(ctx context.Context, template models.WeeklyMenuTemplate) (models.WeeklyMenuTemplate, error) {
	days, err := json.Marshal(template.Days)
	if err != nil {
		return models.WeeklyMenuTemplate{}, err
	}
	activeWeeks, err := json.Marshal(template.ActiveWeeks)
	if err != nil {
		return models.WeeklyMenuTemplate{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO menu_templates (id, user_id, title, days, active_weeks, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, user_id, title, days, active_weeks, status, created_at, updated_at`,
		template.ID, template.UserID, template.Title, days, activeWeeks, template.Status,
	)

	return scanMenuTemplate(row)
}

// GetByID возвращает шаблон пользователя по идентификатору.
func (r *MenuTemplateRepository) GetByID(ctx context.Context, userID, templateID uuid.UUID) (models.WeeklyMenuTemplate, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, title, days, active_weeks, status, created_at, updated_at
		 FROM menu_templates
		 WHERE id = $1 AND user_id = $2`,
		templateID, userID,
	)

	return scanMenuTemplate(row)
}

// GetByIDs возвращает шаблоны пользователя по списку идентификаторов.
func (r *MenuTemplateRepository) GetByIDs(ctx context.Context, userID uuid.UUID, templateIDs []uuid.UUID) ([]models.WeeklyMenuTemplate, error) {
	if len(templateIDs) == 0 {
		return []models.WeeklyMenuTemplate{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, days, active_weeks, status, created_at, updated_at
		 FROM menu_templates
		 WHERE user_id = $1 AND id = ANY($2)
		 ORDER BY created_at`,
		userID, templateIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]models.WeeklyMenuTemplate, 0, len(templateIDs))
	for rows.Next() {
		template, err := scanMenuTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

// ListByUser возвращает все шаблоны пользователя.
func (r *MenuTemplateRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WeeklyMenuTemplate, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, days, active_weeks, status, created_at, updated_at
		 FROM menu_templates
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]models.WeeklyMenuTemplate, 0)
	for rows.Next() {
		template, err := scanMenuTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

// UpdateDays обновляет название и раскладку дней шаблона.
func (r *MenuTemplateRepository) UpdateDays(ctx context.Context, userID, templateID uuid.UUID, title string, days [7]models.TemplateDay) (models.WeeklyMenuTemplate, error) {
	payload, err := json.Marshal(days)
	if err != nil {
		return models.WeeklyMenuTemplate{}, err
	}

	row := r.db.QueryRow(ctx,
		`UPDATE menu_templates
		 SET title = $3,
		     days = $4,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, title, days, active_weeks, status, created_at, updated_at`,
		templateID, userID, title, payload,
	)

	return scanMenuTemplate(row)
}

// SetActiveWeeks перезаписывает привязанные недели и производный статус шаблона.
func (r *MenuTemplateRepository) SetActiveWeeks(ctx context.Context, templateID uuid.UUID, weeks []models.YearWeek) error {
	status := models.TemplateStatusInactive
	if len(weeks) > 0 {
		status = models.TemplateStatusActive
	}

	payload, err := json.Marshal(weeks)
	if err != nil {
		return err
	}

	cmd, err := r.db.Exec(ctx,
		`UPDATE menu_templates
		 SET active_weeks = $2,
		     status = $3,
		     updated_at = NOW()
		 WHERE id = $1`,
		templateID, payload, status,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete удаляет шаблон; активный шаблон удалить нельзя.
func (r *MenuTemplateRepository) Delete(ctx context.Context, userID, templateID uuid.UUID) error {
	template, err := r.GetByID(ctx, userID, templateID)
	if err != nil {
		return err
	}

	if template.Status == models.TemplateStatusActive {
		return ErrConflict
	}

	cmd, err := r.db.Exec(ctx,
		`DELETE FROM menu_templates
		 WHERE id = $1 AND user_id = $2 AND status = $3`,
		templateID, userID, models.TemplateStatusInactive,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanMenuTemplate(row pgx.Row) (models.WeeklyMenuTemplate, error) {
	var template models.WeeklyMenuTemplate
	var days, activeWeeks []byte

	err := row.Scan(&template.ID, &template.UserID, &template.Title, &days, &activeWeeks, &template.Status, &template.CreatedAt, &template.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return template, ErrNotFound
		}
		return template, err
	}

	if err := json.Unmarshal(days, &template.Days); err != nil {
		return template, err
	}
	if err := json.Unmarshal(activeWeeks, &template.ActiveWeeks); err != nil {
		return template, err
	}
	if template.ActiveWeeks == nil {
		template.ActiveWeeks = make([]models.YearWeek, 0)
	}

	return template, nil
}
