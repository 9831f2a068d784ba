package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"finsight/internal/errors"
	"finsight/pkg/utils"
)

func newCachedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cached [SYMBOL]",
		Short: "Show persisted predictions",
		Long: `List the most recent persisted prediction per symbol, or show the
persisted prediction for a single symbol.

Examples:
  finsight cached
  finsight cached AAPL --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := ""
			if len(args) == 1 {
				symbol = args[0]
			}
			return runCached(app, cmd, symbol)
		},
	}
	return cmd
}

func runCached(app *App, cmd *cobra.Command, symbol string) error {
	out := NewOutput(cmd)
	ctx := cmd.Context()

	if app.Store == nil {
		return errors.Wrap(errors.ErrDataUnavailable, "prediction store not initialized")
	}

	if symbol != "" {
		result, err := app.Store.GetPrediction(ctx, symbol)
		if err != nil {
			return err
		}
		if out.IsJSON() {
			return out.JSON(result)
		}
		out.Printf("%-12s %s  %s -> %s  (%s, %s)\n",
			result.Symbol, formatSignal(result.Signal),
			utils.FormatPrice(result.LastClose), utils.FormatPrice(result.PredClose1),
			result.Model, result.ComputedAt.Format("2006-01-02 15:04"))
		return nil
	}

	all, err := app.Store.AllPredictions(ctx)
	if err != nil {
		return err
	}

	if out.IsJSON() {
		return out.JSON(all)
	}

	if len(all) == 0 {
		out.Warn("No persisted predictions")
		return nil
	}

	symbols := make([]string, 0, len(all))
	for s := range all {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	out.Header("Persisted Predictions (%d)", len(symbols))
	for _, s := range symbols {
		result := all[s]
		out.Printf("  %-12s %s  %s  %s -> %s  (%s, %s)\n",
			result.Symbol, formatSignal(result.Signal),
			utils.FormatPercent(result.PredRet1D),
			utils.FormatPrice(result.LastClose), utils.FormatPrice(result.PredClose1),
			result.Model, result.ComputedAt.Format("2006-01-02 15:04"))
	}

	return nil
}
