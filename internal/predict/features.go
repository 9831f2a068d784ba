// Package predict produces one-day return forecasts from price history.
package predict

import (
	"math"
	"sort"

	"finsight/internal/errors"
	"finsight/internal/models"
)

// Feature column order for model input rows.
const (
	featRet1 = iota
	featSMA5Dev
	featSMA20Dev
	featRSI14
	featMACD
	featMACDSignal
	featMACDHist
	numFeatures
)

// Dataset holds engineered features aligned with next-day return targets.
type Dataset struct {
	// Features and Targets are the aligned rows used for fitting: every
	// feature is finite and the next-day return is known.
	Features [][]float64
	Targets  []float64

	// Live is the most recent fully-defined feature row; its target is
	// tomorrow's unknown return.
	Live []float64

	// Returns is the raw 1-day simple return series.
	Returns []float64

	LastClose float64
}

// BuildDataset engineers the feature matrix from a close-price series.
// Points are sorted chronologically and non-finite or non-positive closes
// are discarded first. Fewer than minPoints surviving closes yields
// ErrInsufficientHistory.
func BuildDataset(points []models.PricePoint, minPoints int) (*Dataset, error) {
	closes := validCloses(points)
	if len(closes) < minPoints {
		return nil, errors.ErrInsufficientHistory
	}

	n := len(closes)
	rows := make([][]float64, n)

	ret1 := dailyReturns(closes)
	sma5 := smaDeviation(closes, 5)
	sma20 := smaDeviation(closes, 20)
	rsi := rsiWilder(closes, 14)
	macd, signal, hist := macdSeries(closes, 12, 26, 9)

	for i := 0; i < n; i++ {
		rows[i] = []float64{ret1[i], sma5[i], sma20[i], rsi[i], macd[i], signal[i], hist[i]}
	}

	ds := &Dataset{
		Returns:   finiteOnly(ret1),
		LastClose: closes[n-1],
	}

	for i := 0; i < n-1; i++ {
		target := closes[i+1]/closes[i] - 1
		if rowFinite(rows[i]) && isFinite(target) {
			ds.Features = append(ds.Features, rows[i])
			ds.Targets = append(ds.Targets, target)
		}
	}

	// The live row is the last row with all features defined, scanning back
	// from today.
	for i := n - 1; i >= 0; i-- {
		if rowFinite(rows[i]) {
			ds.Live = rows[i]
			break
		}
	}

	return ds, nil
}

func validCloses(points []models.PricePoint) []float64 {
	sorted := make([]models.PricePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	closes := make([]float64, 0, len(sorted))
	for _, p := range sorted {
		if isFinite(p.Close) && p.Close > 0 {
			closes = append(closes, p.Close)
		}
	}
	return closes
}

// dailyReturns computes close[i]/close[i-1] - 1; index 0 is undefined (NaN).
func dailyReturns(closes []float64) []float64 {
	out := make([]float64, len(closes))
	out[0] = math.NaN()
	for i := 1; i < len(closes); i++ {
		out[i] = closes[i]/closes[i-1] - 1
	}
	return out
}

// smaDeviation computes sma(period)/price - 1; undefined before the window
// fills.
func smaDeviation(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	var sum float64
	for i := range closes {
		sum += closes[i]
		if i >= period {
			sum -= closes[i-period]
		}
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		sma := sum / float64(period)
		out[i] = sma/closes[i] - 1
	}
	return out
}

// rsiWilder computes the RSI using Wilder-style exponential smoothing of
// gains and losses (alpha = 1/period), normalized to [0, 1]. Values are
// undefined until the first delta and whenever the smoothed loss is zero.
func rsiWilder(closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	out[0] = math.NaN()
	if n < 2 {
		return out
	}

	alpha := 1.0 / float64(period)
	var avgGain, avgLoss float64
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		if i == 1 {
			avgGain, avgLoss = gain, loss
		} else {
			avgGain = alpha*gain + (1-alpha)*avgGain
			avgLoss = alpha*loss + (1-alpha)*avgLoss
		}

		if avgLoss == 0 {
			out[i] = math.NaN()
			continue
		}
		rs := avgGain / avgLoss
		out[i] = (100 - 100/(1+rs)) / 100.0
	}
	return out
}

// macdSeries computes MACD (fast EMA - slow EMA), its EMA signal line and
// the histogram. EMAs are seeded from the first close, so all values are
// defined from index 0.
func macdSeries(closes []float64, fast, slow, signalPeriod int) (macd, signal, hist []float64) {
	n := len(closes)
	macd = make([]float64, n)
	signal = make([]float64, n)
	hist = make([]float64, n)

	emaFast := ema(closes, fast)
	emaSlow := ema(closes, slow)

	for i := 0; i < n; i++ {
		macd[i] = emaFast[i] - emaSlow[i]
	}

	sig := ema(macd, signalPeriod)
	for i := 0; i < n; i++ {
		signal[i] = sig[i]
		hist[i] = macd[i] - sig[i]
	}
	return macd, signal, hist
}

// ema computes an exponential moving average seeded from the first value,
// multiplier 2/(period+1).
func ema(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	multiplier := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*multiplier + out[i-1]
	}
	return out
}

func rowFinite(row []float64) bool {
	for _, v := range row {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteOnly(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			out = append(out, v)
		}
	}
	return out
}
