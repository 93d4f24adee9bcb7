package boosting

import (
	"math/rand/v2"

	"github.com/muhkartal/BoostedPP/metrics"
	"github.com/muhkartal/BoostedPP/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// CrossValidate runs nFolds-fold cross-validation of cfg over data and
// returns the per-round mean of cfg.Metric across folds (length
// cfg.NRounds), so a caller can see the metric's trajectory as trees are
// added rather than only its final value. Each fold trains a fresh
// ensemble from scratch; nothing is shared between folds except the
// deterministic row-to-fold assignment.
func CrossValidate(data *DataMatrix, cfg Config, nFolds int) ([]float64, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if nFolds < 2 {
		return nil, errors.NewConfigurationInvalidError("nFolds", "must be >= 2", nFolds)
	}
	if data.Rows < nFolds {
		return nil, errors.NewDataShapeMismatchError("CrossValidate", nFolds, data.Rows, 0)
	}

	foldOf := assignFolds(data.Rows, nFolds, cfg.Seed)

	metricFn, err := metrics.Resolve(cfg.Metric)
	if err != nil {
		return nil, err
	}

	meanMetrics := make([]float64, cfg.NRounds)

	for fold := 0; fold < nFolds; fold++ {
		trainData, valRaw, valLabels, err := splitFold(data, foldOf, fold)
		if err != nil {
			return nil, err
		}

		model, err := New(cfg)
		if err != nil {
			return nil, err
		}
		if err := model.Train(trainData); err != nil {
			return nil, err
		}

		valPreds := make([]float64, len(valLabels))
		for i := range valPreds {
			valPreds[i] = model.BaseScore
		}
		valTrue := mat.NewVecDense(len(valLabels), valLabels)

		for r, tree := range model.Trees {
			for i := range valPreds {
				valPreds[i] += model.Config.LearningRate * tree.PredictRow(valRaw[i], model.Bins)
			}
			val, err := metricFn(valTrue, mat.NewVecDense(len(valPreds), model.metricScores(valPreds)))
			if err != nil {
				return nil, err
			}
			meanMetrics[r] += val / float64(nFolds)
		}
	}

	return meanMetrics, nil
}

// assignFolds deterministically shuffles [0, n) under seed and assigns
// fold numbers round-robin over the shuffled order, so every fold gets a
// near-equal share of rows regardless of n's divisibility by nFolds.
func assignFolds(n, nFolds int, seed uint64) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

	foldOf := make([]int, n)
	for rank, row := range order {
		foldOf[row] = rank % nFolds
	}
	return foldOf
}

// splitFold partitions data into a training DataMatrix (every row not in
// fold) and a validation row set (every row in fold), returning the
// validation rows as raw feature slices since they're evaluated against
// the fold's own fitted bins rather than re-binned themselves.
func splitFold(data *DataMatrix, foldOf []int, fold int) (*DataMatrix, [][]float32, []float64, error) {
	var trainRaw []float32
	var trainLabels []float64
	var valRaw [][]float32
	var valLabels []float64

	for r := 0; r < data.Rows; r++ {
		row := data.Row(r)
		if foldOf[r] == fold {
			rowCopy := make([]float32, len(row))
			copy(rowCopy, row)
			valRaw = append(valRaw, rowCopy)
			valLabels = append(valLabels, data.Label(r))
		} else {
			trainRaw = append(trainRaw, row...)
			trainLabels = append(trainLabels, data.Label(r))
		}
	}

	trainData, err := NewDataMatrixFromSlice(trainRaw, len(trainLabels), data.Cols, trainLabels)
	if err != nil {
		return nil, nil, nil, err
	}
	return trainData, valRaw, valLabels, nil
}
