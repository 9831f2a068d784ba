package cli

import (
	"github.com/spf13/cobra"

	"finsight/pkg/utils"
)

func newPredictCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "predict SYMBOL",
		Short: "One-day-ahead return forecast and trade signal",
		Long: `Fetch daily price history for a symbol and forecast the next-day return
using ridge regression over technical features, falling back to an EWMA of
recent returns when history is too short for the regression.

The predicted return maps to a signal with fixed breakpoints: above +1%
is BUY, below -1% is SELL, otherwise HOLD. Results are cached for the
configured TTL; --force bypasses the cache.

Examples:
  finsight predict AAPL
  finsight predict 005930.KS --force --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(app, cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "bypass the prediction cache")
	return cmd
}

func runPredict(app *App, cmd *cobra.Command, symbol string, force bool) error {
	out := NewOutput(cmd)
	ctx := cmd.Context()

	series, err := app.Prices.History(ctx, symbol, app.Config.Predict.HistoryDays)
	if err != nil {
		return err
	}

	result, err := app.Predictor.Predict(ctx, symbol, series, force)
	if err != nil {
		return err
	}

	// Live quote is advisory; the forecast stands without it.
	if price, qerr := app.Quotes.LastPrice(ctx, symbol); qerr == nil {
		result.LivePrice = &price
	} else {
		app.Logger.Debug().Err(qerr).Str("symbol", symbol).Msg("Live quote unavailable")
	}

	if out.IsJSON() {
		return out.JSON(result)
	}

	out.Header("Prediction: %s", result.Symbol)
	out.Println()
	out.Printf("  %-16s %s\n", "Signal:", formatSignal(result.Signal))
	out.Printf("  %-16s %s\n", "Predicted move:", utils.FormatPercent(result.PredRet1D))
	out.Printf("  %-16s %s\n", "Last close:", utils.FormatPrice(result.LastClose))
	out.Printf("  %-16s %s\n", "Predicted close:", utils.FormatPrice(result.PredClose1))
	if result.LivePrice != nil {
		out.Printf("  %-16s %s\n", "Live price:", utils.FormatPrice(*result.LivePrice))
	}
	out.Printf("  %-16s %s\n", "Model:", result.Model)
	out.Printf("  %-16s %s\n", "Computed at:", result.ComputedAt.Format("2006-01-02 15:04:05 MST"))

	return nil
}
