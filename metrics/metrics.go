package metrics

import (
	"github.com/muhkartal/BoostedPP/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Name identifies a metric by its Config.Metric string. Metrics are modeled
// as a tagged enumeration with a resolver rather than an interface, since the
// set is small, fixed, and each entry is a pure (labels, predictions) ->
// float64 function with no state worth abstracting behind a type.
type Name string

const (
	MetricRMSE    Name = "rmse"
	MetricMAE     Name = "mae"
	MetricLogLoss Name = "logloss"
	MetricAUC     Name = "auc"
)

// Func computes a metric from ground-truth labels and predictions of equal
// length.
type Func func(yTrue, yPred *mat.VecDense) (float64, error)

// Resolve looks up the Func for a metric name. Returns a
// ConfigurationInvalidError if name is not one of the known metrics.
func Resolve(name Name) (Func, error) {
	switch name {
	case MetricRMSE:
		return RMSE, nil
	case MetricMAE:
		return MAE, nil
	case MetricLogLoss:
		return LogLoss, nil
	case MetricAUC:
		return AUC, nil
	default:
		return nil, errors.NewConfigurationInvalidError("Metric", "unknown metric name", string(name))
	}
}

// DefaultForTask returns the metric name spec.md's Config defaults to when
// Metric is left empty: rmse for regression, logloss for binary
// classification.
func DefaultForTask(isBinary bool) Name {
	if isBinary {
		return MetricLogLoss
	}
	return MetricRMSE
}
