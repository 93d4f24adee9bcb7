package boosting

import (
	"github.com/muhkartal/BoostedPP/metrics"
	"github.com/muhkartal/BoostedPP/pkg/errors"
)

// Task selects the objective family a Config trains under.
type Task string

const (
	TaskRegression Task = "regression"
	TaskBinary     Task = "binary"
)

// Config holds every hyperparameter the training and prediction pipeline
// reads. Field names and JSON tags follow the teacher's TrainingParams
// convention, narrowed to the fields this engine actually uses; unset
// numeric fields are filled with their documented defaults by
// Config.WithDefaults before Validate is called.
type Config struct {
	Task           Task    `json:"task"`
	NRounds        int     `json:"n_rounds"`
	LearningRate   float64 `json:"learning_rate"`
	MaxDepth       int     `json:"max_depth"`
	MinDataInLeaf  int     `json:"min_data_in_leaf"`
	MinChildWeight float64 `json:"min_child_weight"`
	RegLambda      float64 `json:"reg_lambda"`
	NBins          int     `json:"n_bins"`
	Subsample      float64 `json:"subsample"`
	Colsample      float64 `json:"colsample"`
	Seed           uint64       `json:"seed"`
	NThreads       int          `json:"n_threads"`
	Metric         metrics.Name `json:"metric"`
}

// WithDefaults returns a copy of c with every zero-valued field filled in
// per spec.md's documented defaults. Task defaults to regression.
func (c Config) WithDefaults() Config {
	if c.Task == "" {
		c.Task = TaskRegression
	}
	if c.NRounds == 0 {
		c.NRounds = 100
	}
	if c.LearningRate == 0 {
		c.LearningRate = 0.1
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = 6
	}
	if c.MinDataInLeaf == 0 {
		c.MinDataInLeaf = 20
	}
	if c.MinChildWeight == 0 {
		c.MinChildWeight = 1.0
	}
	if c.RegLambda == 0 {
		c.RegLambda = 1.0
	}
	if c.NBins == 0 {
		c.NBins = 256
	}
	if c.Subsample == 0 {
		c.Subsample = 1.0
	}
	if c.Colsample == 0 {
		c.Colsample = 1.0
	}
	if c.NThreads == 0 {
		c.NThreads = 0 // 0 means "all CPUs" throughout internal/parallel
	}
	if c.Metric == "" {
		c.Metric = metrics.DefaultForTask(c.Task == TaskBinary)
	}
	return c
}

// Validate checks every field against spec.md's documented range and
// returns a single wrapped ConfigurationInvalidError naming the first
// violation found, in field-declaration order.
func (c Config) Validate() error {
	switch c.Task {
	case TaskRegression, TaskBinary:
	default:
		return errors.NewConfigurationInvalidError("Task", "must be \"regression\" or \"binary\"", string(c.Task))
	}
	if c.NRounds < 1 {
		return errors.NewConfigurationInvalidError("NRounds", "must be >= 1", c.NRounds)
	}
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return errors.NewConfigurationInvalidError("LearningRate", "must be in (0, 1]", c.LearningRate)
	}
	if c.MaxDepth < 1 || c.MaxDepth > 32 {
		return errors.NewConfigurationInvalidError("MaxDepth", "must be in [1, 32]", c.MaxDepth)
	}
	if c.MinDataInLeaf < 1 {
		return errors.NewConfigurationInvalidError("MinDataInLeaf", "must be >= 1", c.MinDataInLeaf)
	}
	if c.MinChildWeight <= 0 {
		return errors.NewConfigurationInvalidError("MinChildWeight", "must be > 0", c.MinChildWeight)
	}
	if c.RegLambda < 0 {
		return errors.NewConfigurationInvalidError("RegLambda", "must be >= 0", c.RegLambda)
	}
	if c.NBins < 1 || c.NBins > 256 {
		return errors.NewConfigurationInvalidError("NBins", "must be in [1, 256]", c.NBins)
	}
	if c.Subsample <= 0 || c.Subsample > 1 {
		return errors.NewConfigurationInvalidError("Subsample", "must be in (0, 1]", c.Subsample)
	}
	if c.Colsample <= 0 || c.Colsample > 1 {
		return errors.NewConfigurationInvalidError("Colsample", "must be in (0, 1]", c.Colsample)
	}
	if _, err := metrics.Resolve(c.Metric); err != nil {
		return errors.NewConfigurationInvalidError("Metric", "unknown metric name", string(c.Metric))
	}
	if c.Task == TaskRegression && (c.Metric == metrics.MetricLogLoss || c.Metric == metrics.MetricAUC) {
		return errors.NewConfigurationInvalidError("Metric", "logloss/auc require Task=binary", string(c.Metric))
	}
	return nil
}
