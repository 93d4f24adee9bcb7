package boosting

import (
	"github.com/muhkartal/BoostedPP/pkg/errors"
)

// Objective is the pluggable loss a GBDT trains against: given a row's
// current raw prediction and its label, it produces the first and second
// derivative Newton boosting needs, plus the initial base score to seed
// every row's prediction before the first tree is built.
type Objective interface {
	Gradient(prediction, label float64) float64
	Hessian(prediction, label float64) float64
	BaseScore(labels []float64) float64
	Name() string
}

// NewObjective returns the Objective for a task.
func NewObjective(task Task) (Objective, error) {
	switch task {
	case TaskRegression:
		return RegressionObjective{}, nil
	case TaskBinary:
		return BinaryObjective{}, nil
	default:
		return nil, errors.NewConfigurationInvalidError("Task", "no objective defined for task", string(task))
	}
}

// RegressionObjective is squared-error loss: g = pred - y, h = 1, base
// score is the label mean.
type RegressionObjective struct{}

func (RegressionObjective) Gradient(prediction, label float64) float64 {
	return prediction - label
}

func (RegressionObjective) Hessian(prediction, label float64) float64 {
	return 1.0
}

func (RegressionObjective) BaseScore(labels []float64) float64 {
	if len(labels) == 0 {
		return 0
	}
	var sum float64
	for _, y := range labels {
		sum += y
	}
	return sum / float64(len(labels))
}

func (RegressionObjective) Name() string {
	return "regression"
}

// BinaryObjective is logistic loss over raw (pre-sigmoid) predictions:
// p = sigmoid(pred), g = p - y, h = p*(1-p), base score is the logit of
// the (clipped) label mean.
type BinaryObjective struct{}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + errors.StabilizeExp(-x))
}

func (BinaryObjective) Gradient(prediction, label float64) float64 {
	return sigmoid(prediction) - label
}

func (BinaryObjective) Hessian(prediction, label float64) float64 {
	p := sigmoid(prediction)
	h := p * (1 - p)
	if h < 1e-16 {
		h = 1e-16
	}
	return h
}

func (BinaryObjective) BaseScore(labels []float64) float64 {
	if len(labels) == 0 {
		return 0
	}
	var sum float64
	for _, y := range labels {
		sum += y
	}
	mean := sum / float64(len(labels))
	p := errors.ClipValue(mean, 0.01, 0.99)
	return errors.StabilizeLog(p) - errors.StabilizeLog(1-p)
}

func (BinaryObjective) Name() string {
	return "binary"
}
