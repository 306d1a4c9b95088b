package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stormline/roofcrm/internal/application/port"
	"github.com/stormline/roofcrm/internal/domain/deal"
	"github.com/stormline/roofcrm/internal/domain/entity"
)

type mockGenerator struct {
	contractFunc func(data port.ContractData) (string, error)
	invoiceFunc  func(data port.InvoiceData) (string, error)
}

func (m *mockGenerator) GenerateContract(data port.ContractData) (string, error) {
	if m.contractFunc != nil {
		return m.contractFunc(data)
	}
	return "generated_documents/contract.pdf", nil
}

func (m *mockGenerator) GenerateInvoice(data port.InvoiceData) (string, error) {
	if m.invoiceFunc != nil {
		return m.invoiceFunc(data)
	}
	return "generated_documents/invoice.pdf", nil
}

func TestDocumentService_GenerateContract(t *testing.T) {
	dealRepo := storedDeal(entity.Deal{CustomerID: 3, Status: deal.StatusSigned.String()})
	deals := newTestDealService(dealRepo, &mockCustomerRepo{}, &mockHistoryRepo{})
	svc := NewDocumentService(deals, &mockCustomerRepo{}, &mockDocumentRepo{}, &mockGenerator{}, &mockLogger{})

	doc, err := svc.GenerateContract(context.Background(), 1, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentKindContract, doc.Kind)
	assert.Equal(t, "generated_documents/contract.pdf", doc.FilePath)
	assert.Equal(t, int64(1), doc.DealID)
}

func TestDocumentService_GenerateInvoice_StampsDeal(t *testing.T) {
	// Generating the invoice stamps invoice_url on the deal, which drives
	// the derived status to invoice_sent
	stored := entity.Deal{
		CustomerID:           3,
		Status:               deal.StatusInstalled.String(),
		Depreciation:         6000,
		InstallImages:        []string{"done.jpg"},
		ACVReceiptURL:        "acv.pdf",
		DeductibleReceiptURL: "ded.pdf",
	}
	var updated *entity.Deal
	dealRepo := storedDeal(stored)
	dealRepo.updateFunc = func(ctx context.Context, d *entity.Deal) error {
		updated = d
		return nil
	}
	deals := newTestDealService(dealRepo, &mockCustomerRepo{}, &mockHistoryRepo{})

	var invoicedAmount float64
	generator := &mockGenerator{
		invoiceFunc: func(data port.InvoiceData) (string, error) {
			invoicedAmount = data.Amount
			return "generated_documents/invoice_x.pdf", nil
		},
	}
	svc := NewDocumentService(deals, &mockCustomerRepo{}, &mockDocumentRepo{}, generator, &mockLogger{})

	doc, err := svc.GenerateInvoice(context.Background(), 1, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentKindInvoice, doc.Kind)
	assert.Equal(t, 6000.0, invoicedAmount)

	require.NotNil(t, updated)
	assert.Equal(t, "generated_documents/invoice_x.pdf", updated.InvoiceURL)
	assert.NotNil(t, updated.InvoiceSentAt)
	assert.Equal(t, deal.StatusInvoiceSent.String(), updated.Status)
}

func TestDocumentService_GenerateContract_DealMissing(t *testing.T) {
	deals := newTestDealService(&mockDealRepo{}, &mockCustomerRepo{}, &mockHistoryRepo{})
	svc := NewDocumentService(deals, &mockCustomerRepo{}, &mockDocumentRepo{}, &mockGenerator{}, &mockLogger{})

	_, err := svc.GenerateContract(context.Background(), 42, "rep-1")
	assert.ErrorIs(t, err, ErrDealNotFound)
}
