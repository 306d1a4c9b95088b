package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/stormline/roofcrm/internal/application/port"
	"github.com/stormline/roofcrm/internal/domain/entity"
)

// CommissionExporter writes payout reports as xlsx workbooks
type CommissionExporter struct {
	logger *zap.Logger
}

// NewCommissionExporter creates a new exporter
func NewCommissionExporter(logger *zap.Logger) *CommissionExporter {
	return &CommissionExporter{logger: logger}
}

var headerCells = []struct {
	cell  string
	title string
}{
	{"A1", "Deal ID"},
	{"B1", "Rep"},
	{"C1", "Contract Total"},
	{"D1", "Material Cost"},
	{"E1", "Labor Cost"},
	{"F1", "Rate %"},
	{"G1", "Payout"},
	{"H1", "Recorded"},
}

// Export writes one row per commission plus a payout total
func (e *CommissionExporter) Export(rows []*entity.Commission, outputPath string) error {
	e.logger.Info("Exporting commission report",
		zap.Int("rows", len(rows)),
		zap.String("output_path", outputPath))

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for _, h := range headerCells {
		e.setCell(f, sheet, h.cell, h.title)
	}

	total := 0.0
	for i, c := range rows {
		row := i + 2
		e.setCell(f, sheet, fmt.Sprintf("A%d", row), c.DealID)
		e.setCell(f, sheet, fmt.Sprintf("B%d", row), c.RepID)
		e.setCell(f, sheet, fmt.Sprintf("C%d", row), c.ContractTotal)
		e.setCell(f, sheet, fmt.Sprintf("D%d", row), c.MaterialCost)
		e.setCell(f, sheet, fmt.Sprintf("E%d", row), c.LaborCost)
		e.setCell(f, sheet, fmt.Sprintf("F%d", row), c.RatePercent)
		e.setCell(f, sheet, fmt.Sprintf("G%d", row), c.Payout)
		e.setCell(f, sheet, fmt.Sprintf("H%d", row), c.CreatedAt.Format("2006-01-02"))
		total += c.Payout
	}

	totalRow := len(rows) + 2
	e.setCell(f, sheet, fmt.Sprintf("F%d", totalRow), "Total")
	e.setCell(f, sheet, fmt.Sprintf("G%d", totalRow), total)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	e.logger.Info("Commission report written", zap.String("output_path", outputPath))
	return nil
}

func (e *CommissionExporter) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}

// Verify interface compliance
var _ port.CommissionExporter = (*CommissionExporter)(nil)
