package predict

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/config"
	"finsight/internal/errors"
	"finsight/internal/models"
)

func testPredictConfig() config.PredictConfig {
	return config.PredictConfig{
		CacheTTL:        15 * time.Minute,
		HistoryDays:     730,
		MinClosePoints:  20,
		MinTrainingRows: 60,
		RidgeAlpha:      1.0,
	}
}

// fakeClock is a mutable time source for cache-identity assertions.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestPredict_InsufficientHistory(t *testing.T) {
	p := NewPredictor(testPredictConfig(), zerolog.Nop())

	_, err := p.Predict(context.Background(), "TINY", series(syntheticCloses(15)...), false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientHistory))
}

func TestPredict_FallbackWhenHistoryShort(t *testing.T) {
	// 30 closes clear the feature floor but leave far fewer aligned rows
	// than the regression needs.
	p := NewPredictor(testPredictConfig(), zerolog.Nop())

	result, err := p.Predict(context.Background(), "shrt", series(syntheticCloses(30)...), false)

	require.NoError(t, err)
	assert.Equal(t, "SHRT", result.Symbol)
	assert.Equal(t, "ewma", result.Model)
}

func TestPredict_RidgeWhenHistoryLong(t *testing.T) {
	p := NewPredictor(testPredictConfig(), zerolog.Nop())

	result, err := p.Predict(context.Background(), "LONG", series(syntheticCloses(200)...), false)

	require.NoError(t, err)
	assert.Equal(t, "ridge", result.Model)
	assert.False(t, math.IsNaN(result.PredRet1D))
}

func TestPredict_PredictedCloseIdentity(t *testing.T) {
	p := NewPredictor(testPredictConfig(), zerolog.Nop())

	result, err := p.Predict(context.Background(), "IDNT", series(syntheticCloses(200)...), false)
	require.NoError(t, err)

	want := math.Round(result.LastClose*(1+result.PredRet1D)*1e4) / 1e4
	assert.InDelta(t, want, result.PredClose1, 1e-9)
}

func TestPredict_CachedResultReturned(t *testing.T) {
	clock := newFakeClock()
	p := NewPredictor(testPredictConfig(), zerolog.Nop(), WithClock(clock.Now))
	points := series(syntheticCloses(200)...)

	first, err := p.Predict(context.Background(), "CACH", points, false)
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)

	second, err := p.Predict(context.Background(), "CACH", points, false)
	require.NoError(t, err)

	// Within the TTL the cached result comes back bit-identical, including
	// its computation timestamp.
	assert.Same(t, first, second)
	assert.Equal(t, first.ComputedAt, second.ComputedAt)
}

func TestPredict_ForceBypassesCache(t *testing.T) {
	clock := newFakeClock()
	p := NewPredictor(testPredictConfig(), zerolog.Nop(), WithClock(clock.Now))
	points := series(syntheticCloses(200)...)

	first, err := p.Predict(context.Background(), "FRCE", points, false)
	require.NoError(t, err)

	clock.Advance(time.Minute)

	second, err := p.Predict(context.Background(), "FRCE", points, true)
	require.NoError(t, err)

	assert.True(t, second.ComputedAt.After(first.ComputedAt))
	// The forced result replaces the cached entry.
	third, err := p.Predict(context.Background(), "FRCE", points, false)
	require.NoError(t, err)
	assert.Same(t, second, third)
}

func TestPredict_SymbolNormalized(t *testing.T) {
	p := NewPredictor(testPredictConfig(), zerolog.Nop())
	points := series(syntheticCloses(200)...)

	lower, err := p.Predict(context.Background(), " aapl ", points, false)
	require.NoError(t, err)
	upper, err := p.Predict(context.Background(), "AAPL", points, false)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", lower.Symbol)
	assert.Same(t, lower, upper)
}

func TestSignalFor(t *testing.T) {
	tests := []struct {
		name    string
		predRet float64
		want    models.TradeSignal
	}{
		{"strong gain", 0.05, models.SignalBuy},
		{"just above threshold", 0.0101, models.SignalBuy},
		{"exactly threshold", 0.01, models.SignalHold},
		{"flat", 0.0, models.SignalHold},
		{"exactly negative threshold", -0.01, models.SignalHold},
		{"just below threshold", -0.0101, models.SignalSell},
		{"strong loss", -0.05, models.SignalSell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SignalFor(tt.predRet))
		})
	}
}

type recordingStore struct {
	mu    sync.Mutex
	saved []*models.PredictionResult
}

func (s *recordingStore) SavePrediction(_ context.Context, pred *models.PredictionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, pred)
	return nil
}

func (s *recordingStore) GetPrediction(context.Context, string) (*models.PredictionResult, error) {
	return nil, errors.ErrDataUnavailable
}

func (s *recordingStore) AllPredictions(context.Context) (map[string]*models.PredictionResult, error) {
	return nil, nil
}

func (s *recordingStore) Close() error { return nil }

func TestPredict_WritesThroughStore(t *testing.T) {
	rec := &recordingStore{}
	p := NewPredictor(testPredictConfig(), zerolog.Nop(), WithStore(rec))

	result, err := p.Predict(context.Background(), "PRST", series(syntheticCloses(200)...), false)
	require.NoError(t, err)

	require.Len(t, rec.saved, 1)
	assert.Equal(t, result, rec.saved[0])

	// A cache hit must not re-persist.
	_, err = p.Predict(context.Background(), "PRST", series(syntheticCloses(200)...), false)
	require.NoError(t, err)
	assert.Len(t, rec.saved, 1)
}

func TestPredictBatch_SkipsFailures(t *testing.T) {
	p := NewPredictor(testPredictConfig(), zerolog.Nop())

	history := func(_ context.Context, symbol string) ([]models.PricePoint, error) {
		switch symbol {
		case "GOOD":
			return series(syntheticCloses(200)...), nil
		case "TINY":
			return series(syntheticCloses(5)...), nil
		default:
			return nil, errors.NewFetchError("test", symbol, errors.ErrDataUnavailable)
		}
	}

	got := p.PredictBatch(context.Background(), []string{"GOOD", "TINY", "GONE"}, history, false)

	require.Len(t, got, 1)
	assert.Contains(t, got, "GOOD")
}

func TestMovingAverageModel_Forecast(t *testing.T) {
	m := NewMovingAverageModel(10)

	_, err := m.Forecast(&Dataset{})
	assert.True(t, errors.Is(err, errors.ErrInsufficientHistory))

	// A constant return series forecasts itself.
	returns := make([]float64, 40)
	for i := range returns {
		returns[i] = 0.002
	}
	got, err := m.Forecast(&Dataset{Returns: returns})
	require.NoError(t, err)
	assert.InDelta(t, 0.002, got, 1e-12)
}

func TestRidgeModel_ValidationMSERecorded(t *testing.T) {
	ds, err := BuildDataset(series(syntheticCloses(200)...), 20)
	require.NoError(t, err)

	m := NewRidgeModel(1.0, 60)
	_, err = m.Forecast(ds)
	require.NoError(t, err)

	assert.False(t, math.IsNaN(m.ValidationMSE))
	assert.GreaterOrEqual(t, m.ValidationMSE, 0.0)
}

func TestRidgeModel_TooFewRows(t *testing.T) {
	ds, err := BuildDataset(series(syntheticCloses(30)...), 20)
	require.NoError(t, err)

	m := NewRidgeModel(1.0, 60)
	_, err = m.Forecast(ds)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientHistory))
}
