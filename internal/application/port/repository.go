package port

import (
	"context"
	"time"

	"github.com/stormline/roofcrm/internal/domain/entity"
)

// DealRepository defines persistence operations for Deal
type DealRepository interface {
	Create(ctx context.Context, d *entity.Deal) error
	GetByID(ctx context.Context, id int64) (*entity.Deal, error)
	GetByPublicID(ctx context.Context, publicID string) (*entity.Deal, error)
	Update(ctx context.Context, d *entity.Deal) error
	UpdateStatus(ctx context.Context, id int64, status, source string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Deal, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Deal, error)
}

// CustomerRepository defines persistence operations for Customer
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
}

// HistoryRepository defines persistence operations for StatusHistory
type HistoryRepository interface {
	Append(ctx context.Context, h *entity.StatusHistory) error
	ListByDealID(ctx context.Context, dealID int64) ([]*entity.StatusHistory, error)
}

// DocumentRepository defines persistence operations for Document
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	ListByDealID(ctx context.Context, dealID int64) ([]*entity.Document, error)
}

// CommissionRepository defines persistence operations for Commission
type CommissionRepository interface {
	Create(ctx context.Context, c *entity.Commission) error
	GetByDealID(ctx context.Context, dealID int64) (*entity.Commission, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Commission, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
