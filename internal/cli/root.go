package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"finsight/internal/config"
	"finsight/internal/logging"
	"finsight/internal/news"
	"finsight/internal/predict"
	"finsight/internal/providers"
	"finsight/internal/ratios"
	"finsight/internal/store"
	"finsight/pkg/utils"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Extractor  *ratios.Extractor
	Predictor  *predict.Predictor
	NewsEngine *news.Engine
	Prices     providers.PriceProvider
	Statements providers.StatementProvider
	Quotes     providers.QuoteProvider
	Store      store.PredictionStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	retry := utils.DefaultRetryConfig()
	retry.MaxAttempts = cfg.HTTP.MaxAttempts

	yahoo := providers.NewYahooClient(cfg.HTTP.Timeout, retry)
	app.Prices = yahoo
	app.Statements = yahoo

	// KIS takes priority for live quotes when configured; Yahoo is the
	// fallback.
	kis := providers.NewKISClient(cfg.Credentials.KIS, cfg.HTTP.Timeout)
	if kis.Configured() {
		app.Quotes = providers.NewFallbackQuote(kis, yahoo)
		logger.Debug().Msg("KIS quote adapter initialized")
	} else {
		app.Quotes = yahoo
	}

	dataStore, err := store.NewSQLiteStore(cfg.Store.DBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, predictions will not persist")
	} else {
		app.Store = dataStore
	}

	app.Extractor = ratios.NewExtractor()

	predictOpts := []predict.Option{}
	if app.Store != nil {
		predictOpts = append(predictOpts, predict.WithStore(app.Store))
	}
	app.Predictor = predict.NewPredictor(cfg.Predict, logging.WithEngine(logger, "predict"), predictOpts...)

	app.NewsEngine = news.NewEngine(cfg.News,
		news.NewGoogleNewsSource(cfg.News.FetchTimeout),
		news.NewYahooFeedSource(cfg.News.FetchTimeout),
		logging.WithEngine(logger, "news"))

	rootCmd := &cobra.Command{
		Use:   "finsight",
		Short: "finsight - financial decision signals from noisy market data",
		Long: `finsight extracts normalized decision signals from noisy, multi-source
financial data: liquidity/solvency ratio bands, a one-day return forecast,
and a time-decayed news sentiment score.

Use 'finsight help <command>' for more information about a command.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/finsight)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newRatiosCmd(app))
	rootCmd.AddCommand(newPredictCmd(app))
	rootCmd.AddCommand(newCachedCmd(app))
	rootCmd.AddCommand(newNewsCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))

	return rootCmd
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Header("Prediction")
	output.Printf("  Cache TTL:        %s\n", cfg.Predict.CacheTTL)
	output.Printf("  History Days:     %d\n", cfg.Predict.HistoryDays)
	output.Printf("  Min Close Points: %d\n", cfg.Predict.MinClosePoints)
	output.Printf("  Min Train Rows:   %d\n", cfg.Predict.MinTrainingRows)
	output.Printf("  Ridge Alpha:      %.2f\n", cfg.Predict.RidgeAlpha)
	output.Println()

	output.Header("News")
	output.Printf("  Default Limit:    %d\n", cfg.News.DefaultLimit)
	output.Printf("  Max Per Query:    %d\n", cfg.News.MaxPerQuery)
	output.Printf("  Decay Days:       %.1f\n", cfg.News.DecayDays)
	output.Printf("  Fetch Timeout:    %s\n", cfg.News.FetchTimeout)
	output.Println()

	output.Header("HTTP")
	output.Printf("  Timeout:          %s\n", cfg.HTTP.Timeout)
	output.Printf("  Max Attempts:     %d\n", cfg.HTTP.MaxAttempts)
	output.Println()

	output.Header("Store")
	output.Printf("  DB Path:          %s\n", cfg.Store.DBPath)
	output.Println()

	output.Header("Credentials")
	output.Printf("  KIS Configured:   %v\n", cfg.Credentials.KIS.AppKey != "")
	output.Printf("  KIS Paper Mode:   %v\n", cfg.Credentials.KIS.Paper)

	return nil
}
