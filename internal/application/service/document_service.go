package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stormline/roofcrm/internal/application/port"
	"github.com/stormline/roofcrm/internal/domain/entity"
)

// DocumentService produces deal paperwork and records it
type DocumentService interface {
	GenerateContract(ctx context.Context, dealID int64, actor string) (*entity.Document, error)
	GenerateInvoice(ctx context.Context, dealID int64, actor string) (*entity.Document, error)
	ListForDeal(ctx context.Context, dealID int64) ([]*entity.Document, error)
}

type documentServiceImpl struct {
	deals        DealService
	customerRepo port.CustomerRepository
	documentRepo port.DocumentRepository
	generator    port.DocumentGenerator
	logger       Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	deals DealService,
	customerRepo port.CustomerRepository,
	documentRepo port.DocumentRepository,
	generator port.DocumentGenerator,
	logger Logger,
) DocumentService {
	return &documentServiceImpl{
		deals:        deals,
		customerRepo: customerRepo,
		documentRepo: documentRepo,
		generator:    generator,
		logger:       logger,
	}
}

// GenerateContract renders the homeowner contract PDF for a deal
func (s *documentServiceImpl) GenerateContract(ctx context.Context, dealID int64, actor string) (*entity.Document, error) {
	d, customer, err := s.load(ctx, dealID)
	if err != nil {
		return nil, err
	}

	path, err := s.generator.GenerateContract(port.ContractData{Deal: d, Customer: customer})
	if err != nil {
		s.logger.Error("Failed to generate contract", "error", err, "deal_id", dealID)
		return nil, fmt.Errorf("generate contract: %w", err)
	}

	return s.record(ctx, dealID, entity.DocumentKindContract, path)
}

// GenerateInvoice renders the final invoice PDF and stamps the deal's
// invoice fields, which carries the derived status to invoice_sent
func (s *documentServiceImpl) GenerateInvoice(ctx context.Context, dealID int64, actor string) (*entity.Document, error) {
	d, customer, err := s.load(ctx, dealID)
	if err != nil {
		return nil, err
	}

	path, err := s.generator.GenerateInvoice(port.InvoiceData{
		Deal:     d,
		Customer: customer,
		Amount:   d.Depreciation,
	})
	if err != nil {
		s.logger.Error("Failed to generate invoice", "error", err, "deal_id", dealID)
		return nil, fmt.Errorf("generate invoice: %w", err)
	}

	doc, err := s.record(ctx, dealID, entity.DocumentKindInvoice, path)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if _, err := s.deals.UpdateFields(ctx, dealID, DealPatch{
		InvoiceURL:    &path,
		InvoiceSentAt: &now,
	}, actor); err != nil {
		return nil, fmt.Errorf("stamp invoice on deal: %w", err)
	}

	return doc, nil
}

// ListForDeal returns the documents generated for a deal
func (s *documentServiceImpl) ListForDeal(ctx context.Context, dealID int64) ([]*entity.Document, error) {
	if _, err := s.deals.Get(ctx, dealID); err != nil {
		return nil, err
	}
	return s.documentRepo.ListByDealID(ctx, dealID)
}

func (s *documentServiceImpl) load(ctx context.Context, dealID int64) (*entity.Deal, *entity.Customer, error) {
	d, err := s.deals.Get(ctx, dealID)
	if err != nil {
		return nil, nil, err
	}
	customer, err := s.customerRepo.GetByID(ctx, d.CustomerID)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup customer: %w", err)
	}
	if customer == nil {
		return nil, nil, ErrCustomerNotFound
	}
	return d, customer, nil
}

func (s *documentServiceImpl) record(ctx context.Context, dealID int64, kind, path string) (*entity.Document, error) {
	doc := &entity.Document{
		DealID:    dealID,
		Kind:      kind,
		FilePath:  path,
		CreatedAt: time.Now(),
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("record document: %w", err)
	}

	s.logger.Info("Document generated", "deal_id", dealID, "kind", kind, "path", path)
	return doc, nil
}
