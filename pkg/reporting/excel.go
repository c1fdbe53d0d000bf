package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/perp-signal-bot/internal/signals"
)

// ExcelReporter writes signals to an .xlsx workbook with a summary sheet
// and a per-signal reasons sheet.
type ExcelReporter struct {
	Path string
}

// NewExcelReporter creates an Excel reporter writing to path.
func NewExcelReporter(path string) *ExcelReporter {
	return &ExcelReporter{Path: path}
}

// Write writes the workbook.
func (r *ExcelReporter) Write(outputs []*signals.Output) error {
	if dir := filepath.Dir(r.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const signalsSheet = "Signals"
	const reasonsSheet = "Reasons"
	fx.SetSheetName(fx.GetSheetName(0), signalsSheet)
	if _, err := fx.NewSheet(reasonsSheet); err != nil {
		return err
	}

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	headers := []interface{}{
		"Symbol", "Timestamp", "Direction", "Market Bias", "Confidence",
		"Risk Level", "Total Score", "Normalized Score", "SL %", "TP %", "ATR",
	}
	if err := fx.SetSheetRow(signalsSheet, "A1", &headers); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := fx.SetCellStyle(signalsSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, out := range outputs {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			out.Symbol,
			out.Timestamp.Format("2006-01-02 15:04:05"),
			strings.ToUpper(out.Direction.String()),
			out.MarketBias.String(),
			out.Confidence,
			out.RiskLevel.String(),
			out.TotalScore,
			out.NormalizedScore,
			out.RecommendedSLPct,
			out.RecommendedTPPct,
			out.ATRValue,
		}
		if err := fx.SetSheetRow(signalsSheet, cell, &row); err != nil {
			return err
		}
	}

	reasonHeaders := []interface{}{"Symbol", "Timestamp", "Reason"}
	if err := fx.SetSheetRow(reasonsSheet, "A1", &reasonHeaders); err != nil {
		return err
	}
	if err := fx.SetCellStyle(reasonsSheet, "A1", "C1", headerStyle); err != nil {
		return err
	}
	rowIdx := 2
	for _, out := range outputs {
		for _, reason := range out.Reasons {
			cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
			row := []interface{}{out.Symbol, out.Timestamp.Format("2006-01-02 15:04:05"), reason}
			if err := fx.SetSheetRow(reasonsSheet, cell, &row); err != nil {
				return err
			}
			rowIdx++
		}
	}

	return fx.SaveAs(r.Path)
}
