// Package log defines standard attribute keys used across the training and
// inference paths, so log lines stay filterable by field name regardless of
// which package emitted them.

package log

// Model and operation context.
const (
	ModelNameKey = "model.name"
	ComponentKey = "ml.component"
	OperationKey = "ml.operation"
	PhaseKey     = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
)

// Training progress and hyperparameters.
const (
	DurationMsKey     = "perf.duration_ms"
	LossKey           = "metrics.loss"
	IterationKey      = "training.iteration"
	LearningRateKey   = "hyperparams.learning_rate"
	RandomSeedKey     = "config.random_seed"
	NumTreesKey       = "model.num_trees"
)

// Standard operation and phase values.
const (
	OperationTrain   = "train"
	OperationPredict = "predict"

	PhaseTraining  = "training"
	PhaseInference = "inference"
)
