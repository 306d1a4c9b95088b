package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stormline/roofcrm/internal/application/port"
	"github.com/stormline/roofcrm/internal/domain/entity"
	"github.com/stormline/roofcrm/pkg/utils"
)

// CustomerService manages homeowner records
type CustomerService interface {
	Create(ctx context.Context, c *entity.Customer) (*entity.Customer, error)
	Get(ctx context.Context, id int64) (*entity.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
}

type customerServiceImpl struct {
	repo   port.CustomerRepository
	logger Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(repo port.CustomerRepository, logger Logger) CustomerService {
	return &customerServiceImpl{repo: repo, logger: logger}
}

// Create validates and stores a homeowner record
func (s *customerServiceImpl) Create(ctx context.Context, c *entity.Customer) (*entity.Customer, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("customer name is required")
	}
	if err := utils.ValidatePhone(c.Phone); err != nil {
		return nil, err
	}
	if c.Email != "" {
		if err := utils.ValidateEmail(c.Email); err != nil {
			return nil, err
		}
	}

	c.Name = utils.SanitizeString(c.Name)
	c.Street = utils.SanitizeString(c.Street)
	c.City = utils.SanitizeString(c.City)
	c.CreatedAt = time.Now()

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("Failed to create customer", "error", err)
		return nil, fmt.Errorf("create customer: %w", err)
	}

	s.logger.Info("Customer created", "id", c.ID, "name", c.Name)
	return c, nil
}

// Get retrieves a customer by ID
func (s *customerServiceImpl) Get(ctx context.Context, id int64) (*entity.Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCustomerNotFound
	}
	return c, nil
}

// List retrieves customers with pagination
func (s *customerServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	return s.repo.List(ctx, limit, offset)
}
