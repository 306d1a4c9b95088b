package service

import (
	"context"
	"time"

	"github.com/stormline/roofcrm/internal/domain/entity"
)

// Mock repositories with overridable behavior per test

type mockDealRepo struct {
	createFunc        func(ctx context.Context, d *entity.Deal) error
	getByIDFunc       func(ctx context.Context, id int64) (*entity.Deal, error)
	getByPublicIDFunc func(ctx context.Context, publicID string) (*entity.Deal, error)
	updateFunc        func(ctx context.Context, d *entity.Deal) error
	updateStatusFunc  func(ctx context.Context, id int64, status, source string) error
	listFunc          func(ctx context.Context, limit, offset int) ([]*entity.Deal, error)
	listByStatusFunc  func(ctx context.Context, status string, limit, offset int) ([]*entity.Deal, error)
}

func (m *mockDealRepo) Create(ctx context.Context, d *entity.Deal) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, d)
	}
	d.ID = 1
	return nil
}

func (m *mockDealRepo) GetByID(ctx context.Context, id int64) (*entity.Deal, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockDealRepo) GetByPublicID(ctx context.Context, publicID string) (*entity.Deal, error) {
	if m.getByPublicIDFunc != nil {
		return m.getByPublicIDFunc(ctx, publicID)
	}
	return nil, nil
}

func (m *mockDealRepo) Update(ctx context.Context, d *entity.Deal) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, d)
	}
	return nil
}

func (m *mockDealRepo) UpdateStatus(ctx context.Context, id int64, status, source string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status, source)
	}
	return nil
}

func (m *mockDealRepo) List(ctx context.Context, limit, offset int) ([]*entity.Deal, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return []*entity.Deal{}, nil
}

func (m *mockDealRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Deal, error) {
	if m.listByStatusFunc != nil {
		return m.listByStatusFunc(ctx, status, limit, offset)
	}
	return []*entity.Deal{}, nil
}

type mockCustomerRepo struct {
	createFunc  func(ctx context.Context, c *entity.Customer) error
	getByIDFunc func(ctx context.Context, id int64) (*entity.Customer, error)
	listFunc    func(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
}

func (m *mockCustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	c.ID = 1
	return nil
}

func (m *mockCustomerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Customer{ID: id, Name: "Homeowner"}, nil
}

func (m *mockCustomerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return []*entity.Customer{}, nil
}

type mockHistoryRepo struct {
	appendFunc       func(ctx context.Context, h *entity.StatusHistory) error
	listByDealIDFunc func(ctx context.Context, dealID int64) ([]*entity.StatusHistory, error)

	appended []*entity.StatusHistory
}

func (m *mockHistoryRepo) Append(ctx context.Context, h *entity.StatusHistory) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, h)
	}
	m.appended = append(m.appended, h)
	return nil
}

func (m *mockHistoryRepo) ListByDealID(ctx context.Context, dealID int64) ([]*entity.StatusHistory, error) {
	if m.listByDealIDFunc != nil {
		return m.listByDealIDFunc(ctx, dealID)
	}
	return m.appended, nil
}

type mockDocumentRepo struct {
	createFunc       func(ctx context.Context, doc *entity.Document) error
	listByDealIDFunc func(ctx context.Context, dealID int64) ([]*entity.Document, error)
}

func (m *mockDocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, doc)
	}
	doc.ID = 1
	return nil
}

func (m *mockDocumentRepo) ListByDealID(ctx context.Context, dealID int64) ([]*entity.Document, error) {
	if m.listByDealIDFunc != nil {
		return m.listByDealIDFunc(ctx, dealID)
	}
	return []*entity.Document{}, nil
}

type mockCommissionRepo struct {
	createFunc      func(ctx context.Context, c *entity.Commission) error
	getByDealIDFunc func(ctx context.Context, dealID int64) (*entity.Commission, error)
	listBetweenFunc func(ctx context.Context, from, to time.Time) ([]*entity.Commission, error)
}

func (m *mockCommissionRepo) Create(ctx context.Context, c *entity.Commission) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	c.ID = 1
	return nil
}

func (m *mockCommissionRepo) GetByDealID(ctx context.Context, dealID int64) (*entity.Commission, error) {
	if m.getByDealIDFunc != nil {
		return m.getByDealIDFunc(ctx, dealID)
	}
	return nil, nil
}

func (m *mockCommissionRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Commission, error) {
	if m.listBetweenFunc != nil {
		return m.listBetweenFunc(ctx, from, to)
	}
	return []*entity.Commission{}, nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}
