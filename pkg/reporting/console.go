package reporting

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/perp-signal-bot/internal/signals"
)

// ConsoleReporter prints signals as a formatted table.
type ConsoleReporter struct {
	ShowReasons bool
}

// NewConsoleReporter creates a console reporter.
func NewConsoleReporter(showReasons bool) *ConsoleReporter {
	return &ConsoleReporter{ShowReasons: showReasons}
}

// Write renders the signal table to stdout.
func (r *ConsoleReporter) Write(outputs []*signals.Output) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{
		"Symbol", "Time", "Direction", "Bias", "Confidence", "Risk",
		"Score", "SL %", "TP %", "ATR",
	})

	for _, out := range outputs {
		t.AppendRow(table.Row{
			out.Symbol,
			out.Timestamp.Format("2006-01-02 15:04"),
			colorDirection(out.Direction),
			out.MarketBias.String(),
			fmt.Sprintf("%.1f%%", out.Confidence*100),
			out.RiskLevel.String(),
			fmt.Sprintf("%+d (%.0f%%)", out.TotalScore, out.NormalizedScore*100),
			fmt.Sprintf("%.2f%%", out.RecommendedSLPct*100),
			fmt.Sprintf("%.2f%%", out.RecommendedTPPct*100),
			fmt.Sprintf("%.4f", out.ATRValue),
		})
	}
	t.Render()

	if r.ShowReasons {
		for _, out := range outputs {
			if len(out.Reasons) == 0 {
				continue
			}
			fmt.Printf("\n%s: %s\n", out.Symbol, strings.Join(out.Reasons, "; "))
		}
	}
	return nil
}

func colorDirection(d signals.Direction) string {
	switch d {
	case signals.DirectionLong:
		return text.FgGreen.Sprint("LONG")
	case signals.DirectionShort:
		return text.FgRed.Sprint("SHORT")
	default:
		return text.FgYellow.Sprint("NEUTRAL")
	}
}
