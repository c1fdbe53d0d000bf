package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ducminhle1904/perp-signal-bot/internal/signals"
)

// CSVReporter writes signals to a CSV file, replacing any existing file.
type CSVReporter struct {
	Path string
}

// NewCSVReporter creates a CSV reporter writing to path. A .xlsx path is
// delegated to the Excel writer.
func NewCSVReporter(path string) *CSVReporter {
	return &CSVReporter{Path: path}
}

// Write writes one row per signal.
func (r *CSVReporter) Write(outputs []*signals.Output) error {
	if strings.HasSuffix(strings.ToLower(r.Path), ".xlsx") {
		return NewExcelReporter(r.Path).Write(outputs)
	}

	if dir := filepath.Dir(r.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(r.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"Symbol", "Timestamp", "Direction", "Market_Bias", "Confidence",
		"Risk_Level", "Total_Score", "Normalized_Score", "SL_Pct", "TP_Pct",
		"ATR", "Reasons",
	}); err != nil {
		return err
	}

	for _, out := range outputs {
		row := []string{
			out.Symbol,
			out.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			out.Direction.String(),
			out.MarketBias.String(),
			strconv.FormatFloat(out.Confidence, 'f', 4, 64),
			out.RiskLevel.String(),
			strconv.Itoa(out.TotalScore),
			strconv.FormatFloat(out.NormalizedScore, 'f', 4, 64),
			fmt.Sprintf("%.4f", out.RecommendedSLPct),
			fmt.Sprintf("%.4f", out.RecommendedTPPct),
			fmt.Sprintf("%.6f", out.ATRValue),
			strings.Join(out.Reasons, "; "),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
