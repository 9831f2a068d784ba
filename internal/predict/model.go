package predict

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"finsight/internal/errors"
)

// ReturnModel forecasts the next-day return from an engineered dataset.
// Implementations are selected once at predictor construction; callers
// depend only on this interface.
type ReturnModel interface {
	Name() string
	Forecast(ds *Dataset) (float64, error)
}

// RidgeModel is an L2-regularized linear regression over the feature rows.
// Validation uses a chronological 80/20 split (no shuffling, to avoid
// lookahead leakage); the live forecast comes from a refit on the full
// aligned history.
type RidgeModel struct {
	Alpha   float64
	MinRows int

	// ValidationMSE is the held-out mean squared error of the most recent
	// Forecast call.
	ValidationMSE float64
}

// NewRidgeModel creates a ridge regression model.
func NewRidgeModel(alpha float64, minRows int) *RidgeModel {
	return &RidgeModel{Alpha: alpha, MinRows: minRows}
}

func (m *RidgeModel) Name() string { return "ridge" }

// Forecast fits the model and predicts the return for the live feature row.
func (m *RidgeModel) Forecast(ds *Dataset) (float64, error) {
	if len(ds.Features) < m.MinRows {
		return 0, errors.Wrapf(errors.ErrInsufficientHistory,
			"ridge needs %d aligned rows, have %d", m.MinRows, len(ds.Features))
	}
	if ds.Live == nil {
		return 0, errors.Wrap(errors.ErrDataUnavailable, "no fully-defined feature row")
	}

	split := int(float64(len(ds.Features)) * 0.8)
	trainCoef, trainIntercept, err := m.fit(ds.Features[:split], ds.Targets[:split])
	if err != nil {
		return 0, err
	}
	m.ValidationMSE = meanSquaredError(trainCoef, trainIntercept, ds.Features[split:], ds.Targets[split:])

	coef, intercept, err := m.fit(ds.Features, ds.Targets)
	if err != nil {
		return 0, err
	}
	return predictRow(coef, intercept, ds.Live), nil
}

// fit solves (Xc'Xc + alpha*I) beta = Xc'yc on centered data; the intercept
// is recovered from the column means and is not penalized.
func (m *RidgeModel) fit(features [][]float64, targets []float64) ([]float64, float64, error) {
	rows := len(features)
	if rows == 0 {
		return nil, 0, fmt.Errorf("empty training partition")
	}
	cols := len(features[0])

	colMeans := make([]float64, cols)
	for _, row := range features {
		for j, v := range row {
			colMeans[j] += v
		}
	}
	for j := range colMeans {
		colMeans[j] /= float64(rows)
	}

	var targetMean float64
	for _, y := range targets {
		targetMean += y
	}
	targetMean /= float64(rows)

	xc := mat.NewDense(rows, cols, nil)
	yc := mat.NewVecDense(rows, nil)
	for i, row := range features {
		for j, v := range row {
			xc.Set(i, j, v-colMeans[j])
		}
		yc.SetVec(i, targets[i]-targetMean)
	}

	gram := mat.NewSymDense(cols, nil)
	for j := 0; j < cols; j++ {
		for k := j; k < cols; k++ {
			var sum float64
			for i := 0; i < rows; i++ {
				sum += xc.At(i, j) * xc.At(i, k)
			}
			if j == k {
				sum += m.Alpha
			}
			gram.SetSym(j, k, sum)
		}
	}

	xty := mat.NewVecDense(cols, nil)
	for j := 0; j < cols; j++ {
		var sum float64
		for i := 0; i < rows; i++ {
			sum += xc.At(i, j) * yc.AtVec(i)
		}
		xty.SetVec(j, sum)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok {
		return nil, 0, fmt.Errorf("gram matrix not positive definite")
	}

	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, xty); err != nil {
		return nil, 0, errors.Wrap(err, "solving ridge system")
	}

	coef := make([]float64, cols)
	intercept := targetMean
	for j := 0; j < cols; j++ {
		coef[j] = beta.AtVec(j)
		intercept -= coef[j] * colMeans[j]
	}
	return coef, intercept, nil
}

func predictRow(coef []float64, intercept float64, row []float64) float64 {
	out := intercept
	for j, v := range row {
		out += coef[j] * v
	}
	return out
}

func meanSquaredError(coef []float64, intercept float64, features [][]float64, targets []float64) float64 {
	if len(features) == 0 {
		return 0
	}
	var sum float64
	for i, row := range features {
		diff := predictRow(coef, intercept, row) - targets[i]
		sum += diff * diff
	}
	return sum / float64(len(features))
}

// MovingAverageModel is the statistical fallback tier: the forecast is the
// exponentially-weighted moving average of recent daily returns. It needs
// no training and has the same output shape as the regression tier.
type MovingAverageModel struct {
	Span int
}

// NewMovingAverageModel creates an EWMA fallback model.
func NewMovingAverageModel(span int) *MovingAverageModel {
	return &MovingAverageModel{Span: span}
}

func (m *MovingAverageModel) Name() string { return "ewma" }

// Forecast returns the EWMA of the daily return series.
func (m *MovingAverageModel) Forecast(ds *Dataset) (float64, error) {
	if len(ds.Returns) == 0 {
		return 0, errors.Wrap(errors.ErrInsufficientHistory, "no return observations")
	}
	multiplier := 2.0 / float64(m.Span+1)
	out := ds.Returns[0]
	for i := 1; i < len(ds.Returns); i++ {
		out = (ds.Returns[i]-out)*multiplier + out
	}
	return out, nil
}
