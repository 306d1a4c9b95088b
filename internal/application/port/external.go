package port

import (
	"github.com/stormline/roofcrm/internal/domain/entity"
)

// ContractData feeds the contract PDF template
type ContractData struct {
	Deal     *entity.Deal
	Customer *entity.Customer
}

// InvoiceData feeds the invoice PDF template
type InvoiceData struct {
	Deal     *entity.Deal
	Customer *entity.Customer
	// Amount is the invoiced total, normally the withheld depreciation
	Amount float64
}

// DocumentGenerator renders deal paperwork to files on disk
type DocumentGenerator interface {
	GenerateContract(data ContractData) (string, error)
	GenerateInvoice(data InvoiceData) (string, error)
}

// CommissionExporter writes a payout report for a set of commissions
type CommissionExporter interface {
	Export(rows []*entity.Commission, outputPath string) error
}
