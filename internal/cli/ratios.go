package cli

import (
	"github.com/spf13/cobra"

	"finsight/pkg/utils"
)

func newRatiosCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratios SYMBOL",
		Short: "Liquidity and solvency ratio bands from latest statements",
		Long: `Fetch the latest financial statements for a symbol and compute banded
liquidity ratios (current, quick, cash) and solvency ratios (debt-to-equity,
debt ratio, interest coverage).

Missing statements or line items degrade to N/A entries, never an error.

Examples:
  finsight ratios AAPL
  finsight ratios 005930.KS --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRatios(app, cmd, args[0])
		},
	}
	return cmd
}

func runRatios(app *App, cmd *cobra.Command, symbol string) error {
	out := NewOutput(cmd)
	ctx := cmd.Context()

	snapshot, err := app.Statements.Statements(ctx, symbol)
	if err != nil {
		app.Logger.Warn().Err(err).Str("symbol", symbol).Msg("Statement fetch failed")
		snapshot = nil
	}

	assessment := app.Extractor.Extract(snapshot)
	if assessment.Symbol == "" {
		assessment.Symbol = symbol
	}

	if out.IsJSON() {
		return out.JSON(assessment)
	}

	out.Header("Ratio Assessment: %s", assessment.Symbol)
	out.Println()

	out.Info("Liquidity")
	for _, name := range []string{"current_ratio", "quick_ratio", "cash_ratio"} {
		rv := assessment.Liquidity[name]
		out.Printf("  %-20s %8s  %s\n", name, utils.FormatRatio(rv.Value), formatBand(rv.Band))
	}

	out.Println()
	out.Info("Solvency")
	for _, name := range []string{"debt_to_equity", "debt_ratio", "interest_coverage"} {
		rv := assessment.Solvency[name]
		out.Printf("  %-20s %8s  %s\n", name, utils.FormatRatio(rv.Value), formatBand(rv.Band))
	}

	if assessment.Notes != "" {
		out.Println()
		out.Warn("Note: %s", assessment.Notes)
	}

	return nil
}
