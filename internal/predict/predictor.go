package predict

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"finsight/internal/cache"
	"finsight/internal/config"
	"finsight/internal/errors"
	"finsight/internal/logging"
	"finsight/internal/models"
	"finsight/internal/store"
)

// signalThreshold is the fixed breakpoint for BUY/SELL classification.
const signalThreshold = 0.01

// Predictor computes cached one-day return forecasts. The result cache is
// the only process-wide state; reads and recomputations go through a
// single-flight TTL cache so concurrent misses for one symbol trigger a
// single computation.
type Predictor struct {
	cfg      config.PredictConfig
	model    ReturnModel
	fallback ReturnModel
	cache    *cache.Cache[*models.PredictionResult]
	store    store.PredictionStore
	logger   zerolog.Logger

	now func() time.Time
}

// Option customizes a Predictor.
type Option func(*Predictor)

// WithStore attaches a write-through prediction store.
func WithStore(s store.PredictionStore) Option {
	return func(p *Predictor) { p.store = s }
}

// WithModel overrides the primary model tier.
func WithModel(m ReturnModel) Option {
	return func(p *Predictor) { p.model = m }
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(p *Predictor) { p.now = now }
}

// NewPredictor creates a predictor. The model tiers are fixed here: ridge
// regression primary, EWMA fallback.
func NewPredictor(cfg config.PredictConfig, logger zerolog.Logger, opts ...Option) *Predictor {
	p := &Predictor{
		cfg:      cfg,
		model:    NewRidgeModel(cfg.RidgeAlpha, cfg.MinTrainingRows),
		fallback: NewMovingAverageModel(10),
		cache:    cache.New[*models.PredictionResult](cfg.CacheTTL),
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict returns the one-day forecast for symbol. Results are cached per
// symbol for the configured TTL; force bypasses the cache and recomputes.
// ErrInsufficientHistory is returned only when both model tiers are
// infeasible (fewer than the minimum valid closes).
func (p *Predictor) Predict(ctx context.Context, symbol string, series []models.PricePoint, force bool) (*models.PredictionResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if force {
		result, err := p.compute(ctx, symbol, series)
		if err != nil {
			return nil, err
		}
		p.cache.Set(symbol, result)
		return result, nil
	}

	return p.cache.GetOrCompute(symbol, func() (*models.PredictionResult, error) {
		return p.compute(ctx, symbol, series)
	})
}

// PredictBatch computes forecasts for several symbols sharing one price
// lookup function. Per-symbol failures are skipped.
func (p *Predictor) PredictBatch(ctx context.Context, symbols []string, history func(context.Context, string) ([]models.PricePoint, error), force bool) map[string]*models.PredictionResult {
	out := make(map[string]*models.PredictionResult, len(symbols))
	for _, symbol := range symbols {
		logger := logging.WithSymbol(p.logger, symbol)
		series, err := history(ctx, symbol)
		if err != nil {
			logger.Warn().Err(err).Msg("Skipping symbol: history fetch failed")
			continue
		}
		result, err := p.Predict(ctx, symbol, series, force)
		if err != nil {
			logger.Warn().Err(err).Msg("Skipping symbol: prediction failed")
			continue
		}
		out[result.Symbol] = result
	}
	return out
}

func (p *Predictor) compute(ctx context.Context, symbol string, series []models.PricePoint) (*models.PredictionResult, error) {
	ds, err := BuildDataset(series, p.cfg.MinClosePoints)
	if err != nil {
		return nil, errors.Wrapf(err, "building features for %s", symbol)
	}

	model := p.model
	predRet, err := model.Forecast(ds)
	if err != nil {
		// Regression tier infeasible (too few aligned rows, singular fit):
		// absorb by switching to the statistical tier.
		p.logger.Debug().Err(err).Str("symbol", symbol).Msg("Primary model unavailable, using fallback")
		model = p.fallback
		predRet, err = model.Forecast(ds)
		if err != nil {
			return nil, errors.Wrapf(err, "fallback forecast for %s", symbol)
		}
	} else if ridge, ok := model.(*RidgeModel); ok {
		p.logger.Debug().
			Str("symbol", symbol).
			Float64("validation_mse", ridge.ValidationMSE).
			Int("rows", len(ds.Features)).
			Msg("Ridge model fitted")
	}

	if !isFinite(predRet) {
		return nil, errors.NewComputationError("forecast", symbol, errors.ErrDataUnavailable)
	}

	result := &models.PredictionResult{
		Symbol:     symbol,
		LastClose:  round4(ds.LastClose),
		PredRet1D:  round6(predRet),
		Signal:     SignalFor(predRet),
		Model:      model.Name(),
		ComputedAt: p.now().UTC(),
	}
	result.PredClose1 = round4(result.LastClose * (1 + result.PredRet1D))

	if p.store != nil {
		if err := p.store.SavePrediction(ctx, result); err != nil {
			p.logger.Warn().Err(err).Str("symbol", symbol).Msg("Failed to persist prediction")
		}
	}

	logging.LogPrediction(p.logger, symbol, result.Model, result.PredRet1D, string(result.Signal))

	return result, nil
}

// SignalFor maps a predicted return to a trade signal with fixed +/-1%
// breakpoints. Pure and deterministic.
func SignalFor(predRet float64) models.TradeSignal {
	switch {
	case predRet > signalThreshold:
		return models.SignalBuy
	case predRet < -signalThreshold:
		return models.SignalSell
	default:
		return models.SignalHold
	}
}

func round4(v float64) float64 { return math.Round(v*1e4) / 1e4 }
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }
