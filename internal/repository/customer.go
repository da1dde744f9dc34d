package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
)

// CustomerRepository дает движку доступ к каталогу клиентов и групп.
// Ведение каталога (CRUD, валидация) — ответственность внешнего сервиса.
type CustomerRepository struct {
	db *pgxpool.Pool
}

// NewCustomerRepository создает репозиторий каталога клиентов.
func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// GetByIDs возвращает клиентов пользователя по списку идентификаторов.
func (r *CustomerRepository) GetByIDs(ctx context.Context, userID uuid.UUID, customerIDs []uuid.UUID) ([]models.Customer, error) {
	if len(customerIDs) == 0 {
		return []models.Customer{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, weekly_menu_quantity, group_id
		 FROM customers
		 WHERE user_id = $1 AND id = ANY($2)
		 ORDER BY name`,
		userID, customerIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]models.Customer, 0, len(customerIDs))
	for rows.Next() {
		var customer models.Customer

		err := rows.Scan(&customer.ID, &customer.UserID, &customer.Name, &customer.WeeklyMenuQuantity, &customer.GroupID)
		if err != nil {
			return nil, err
		}

		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return customers, nil
}

// ListGroupMembers возвращает клиентов, входящих в перечисленные группы.
func (r *CustomerRepository) ListGroupMembers(ctx context.Context, userID uuid.UUID, groupIDs []uuid.UUID) ([]models.Customer, error) {
	if len(groupIDs) == 0 {
		return []models.Customer{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, weekly_menu_quantity, group_id
		 FROM customers
		 WHERE user_id = $1 AND group_id = ANY($2)
		 ORDER BY name`,
		userID, groupIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]models.Customer, 0)
	for rows.Next() {
		var customer models.Customer

		err := rows.Scan(&customer.ID, &customer.UserID, &customer.Name, &customer.WeeklyMenuQuantity, &customer.GroupID)
		if err != nil {
			return nil, err
		}

		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return customers, nil
}
