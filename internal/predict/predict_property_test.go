package predict

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"finsight/internal/models"
)

// Property: the signal mapping is a total function of the predicted return
// with fixed +/-1% breakpoints, and it is sign-consistent: a BUY never comes
// from a non-positive return, a SELL never from a non-negative one.
func TestProperty_SignalMapping(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("signal follows the fixed breakpoints", prop.ForAll(
		func(predRet float64) bool {
			signal := SignalFor(predRet)
			switch {
			case predRet > 0.01:
				return signal == models.SignalBuy
			case predRet < -0.01:
				return signal == models.SignalSell
			default:
				return signal == models.SignalHold
			}
		},
		gen.Float64Range(-0.5, 0.5),
	))

	properties.Property("signal is sign-consistent", prop.ForAll(
		func(predRet float64) bool {
			switch SignalFor(predRet) {
			case models.SignalBuy:
				return predRet > 0
			case models.SignalSell:
				return predRet < 0
			default:
				return true
			}
		},
		gen.Float64Range(-0.5, 0.5),
	))

	properties.TestingRun(t)
}

// Property: the EWMA forecast never leaves the convex hull of the observed
// returns.
func TestProperty_EWMAWithinReturnBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("ewma forecast stays within observed range", prop.ForAll(
		func(returns []float64) bool {
			m := NewMovingAverageModel(10)
			got, err := m.Forecast(&Dataset{Returns: returns})
			if err != nil {
				return len(returns) == 0
			}

			lo, hi := returns[0], returns[0]
			for _, r := range returns {
				if r < lo {
					lo = r
				}
				if r > hi {
					hi = r
				}
			}
			return got >= lo-1e-12 && got <= hi+1e-12
		},
		gen.SliceOf(gen.Float64Range(-0.2, 0.2)),
	))

	properties.TestingRun(t)
}
