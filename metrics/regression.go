// Package metrics implements the regression and classification metrics
// spec.md names (RMSE, MAE, LogLoss, AUC) plus a name-based resolver so a
// Config.Metric string can be turned into a callable without a
// runtime-polymorphic Metric interface.
package metrics

import (
	"math"

	"github.com/muhkartal/BoostedPP/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func checkSameLength(op string, yTrue, yPred *mat.VecDense) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.Wrapf(errors.ErrEmptyData, "%s", op)
	}
	if yPred.Len() != n {
		return 0, errors.NewDataShapeMismatchError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// MSE computes the mean squared error (1/n) * sum((yTrue - yPred)^2).
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkSameLength("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE is sqrt(MSE(yTrue, yPred)).
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error (1/n) * sum(|yTrue - yPred|).
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkSameLength("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}
