package document

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/stormline/roofcrm/internal/application/port"
	"github.com/stormline/roofcrm/internal/domain/entity"
)

// CompanyInfo appears in the header of every generated document
type CompanyInfo struct {
	Name    string
	Phone   string
	Address string
}

// PDFGenerator renders contracts and invoices with gofpdf
type PDFGenerator struct {
	outputDir string
	company   CompanyInfo
	logger    *zap.Logger
}

// NewPDFGenerator creates a generator writing into outputDir
func NewPDFGenerator(outputDir string, company CompanyInfo, logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		outputDir: filepath.Clean(outputDir),
		company:   company,
		logger:    logger,
	}
}

// GenerateContract renders the roofing agreement for a deal
func (g *PDFGenerator) GenerateContract(data port.ContractData) (string, error) {
	path, err := g.target(fmt.Sprintf("contract_%s.pdf", data.Deal.PublicID))
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Roofing Agreement %s", data.Deal.PublicID), false)
	pdf.SetAuthor(g.company.Name, false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "ROOFING AGREEMENT", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	sub := fmt.Sprintf("No. %s  -  %s", data.Deal.PublicID, time.Now().Format("January 2, 2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	g.sectionTitle(pdf, "Parties")
	g.kvLine(pdf, "Contractor", g.company.Name)
	g.kvLine(pdf, "Phone", g.company.Phone)
	g.kvLine(pdf, "Homeowner", data.Customer.Name)
	g.kvLine(pdf, "Property", customerAddress(data.Customer))
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Insurance Claim")
	g.kvLine(pdf, "Insurance company", data.Deal.InsuranceCompany)
	g.kvLine(pdf, "Policy number", data.Deal.PolicyNumber)
	g.kvLine(pdf, "Claim number", data.Deal.ClaimNumber)
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Scope and Price")
	g.kvLine(pdf, "Replacement cost value", money(data.Deal.RCV))
	g.kvLine(pdf, "Deductible", money(data.Deal.Deductible))
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 11)
	intro := "The contractor agrees to furnish all labor and materials to replace the roofing system " +
		"at the property listed above for the insurance proceeds plus the homeowner's deductible. " +
		"Work will be performed per manufacturer specifications and local building code."
	pdf.MultiCell(0, 6, intro, "", "L", false)
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Terms")
	pdf.SetFont("Helvetica", "", 11)
	terms := []string{
		"1. The first check (ACV less deductible) is due before materials are ordered.",
		"2. The deductible is due at or before installation.",
		"3. Recoverable depreciation is invoiced to the carrier upon completion and is due on release.",
		"4. This agreement takes effect on the date of the homeowner's signature.",
	}
	for _, t := range terms {
		pdf.MultiCell(0, 6, t, "", "L", false)
	}
	pdf.Ln(2)
	g.hr(pdf)

	g.signatureBlock(pdf)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write contract pdf: %w", err)
	}

	g.logger.Info("Generated contract", zap.String("deal", data.Deal.PublicID), zap.String("path", path))
	return path, nil
}

// GenerateInvoice renders the depreciation invoice sent to the carrier
func (g *PDFGenerator) GenerateInvoice(data port.InvoiceData) (string, error) {
	path, err := g.target(fmt.Sprintf("invoice_%s.pdf", data.Deal.PublicID))
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", data.Deal.PublicID), false)
	pdf.SetAuthor(g.company.Name, false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("No. %s  -  %s", data.Deal.PublicID, time.Now().Format("January 2, 2006")), "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	g.sectionTitle(pdf, "From")
	g.kvLine(pdf, "Contractor", g.company.Name)
	g.kvLine(pdf, "Phone", g.company.Phone)
	pdf.Ln(2)

	g.sectionTitle(pdf, "Bill To")
	g.kvLine(pdf, "Insurance company", data.Deal.InsuranceCompany)
	g.kvLine(pdf, "Claim number", data.Deal.ClaimNumber)
	g.kvLine(pdf, "Insured", data.Customer.Name)
	g.kvLine(pdf, "Property", customerAddress(data.Customer))
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Amount Due")
	g.kvLine(pdf, "Recoverable depreciation", money(data.Amount))
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 11)
	note := "The roof replacement at the insured property is complete. Please release the withheld " +
		"recoverable depreciation for the claim referenced above."
	pdf.MultiCell(0, 6, note, "", "L", false)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write invoice pdf: %w", err)
	}

	g.logger.Info("Generated invoice", zap.String("deal", data.Deal.PublicID), zap.String("path", path))
	return path, nil
}

func (g *PDFGenerator) target(filename string) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	return filepath.Join(g.outputDir, filepath.Base(filename)), nil
}

func (g *PDFGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

func (g *PDFGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(55, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *PDFGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *PDFGenerator) signatureBlock(pdf *gofpdf.Fpdf) {
	g.sectionTitle(pdf, "Signatures")
	pdf.Ln(6)

	lineY := pdf.GetY()
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(80, 6, "Contractor", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(80, 6, "Homeowner", "", 1, "L", false, 0, "")

	pdf.SetLineWidth(0.3)
	pdf.Line(20, lineY+10, 100, lineY+10)
	pdf.SetY(lineY + 12)
	pdf.SetX(20)
	pdf.Cell(80, 5, "(signature, date)")
	pdf.SetY(lineY + 6)
	pdf.SetX(130)
	pdf.Line(130, lineY+10, 190, lineY+10)
	pdf.SetY(lineY + 12)
	pdf.SetX(130)
	pdf.Cell(80, 5, "(signature, date)")
}

func customerAddress(c *entity.Customer) string {
	return fmt.Sprintf("%s, %s, %s %s", c.Street, c.City, c.State, c.Zip)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Verify interface compliance
var _ port.DocumentGenerator = (*PDFGenerator)(nil)
