package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/stormline/roofcrm/internal/application/port"
	"github.com/stormline/roofcrm/internal/domain/entity"
)

// CustomerRepository implements port.CustomerRepository
type CustomerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB, logger *zap.Logger) port.CustomerRepository {
	return &CustomerRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new customer
func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (name, phone, email, street, city, state, zip, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		c.Name, c.Phone, c.Email, c.Street, c.City, c.State, c.Zip, c.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create customer", zap.Error(err))
		return fmt.Errorf("failed to create customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	c.ID = id
	return nil
}

// GetByID retrieves a customer by ID, nil when absent
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	query := `
		SELECT id, name, phone, email, street, city, state, zip, created_at
		FROM customers WHERE id = ?
	`

	var c entity.Customer
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Street, &c.City, &c.State, &c.Zip, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get customer", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &c, nil
}

// List retrieves customers with pagination, newest first
func (r *CustomerRepository) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	query := `
		SELECT id, name, phone, email, street, city, state, zip, created_at
		FROM customers ORDER BY created_at DESC LIMIT ? OFFSET ?
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list customers", zap.Error(err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Street, &c.City, &c.State, &c.Zip, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, &c)
	}

	return customers, rows.Err()
}

// Verify interface compliance
var _ port.CustomerRepository = (*CustomerRepository)(nil)
