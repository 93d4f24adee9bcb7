package boosting

import (
	"fmt"
	"math/rand/v2"

	"github.com/muhkartal/BoostedPP/internal/parallel"
	"github.com/muhkartal/BoostedPP/metrics"
	"github.com/muhkartal/BoostedPP/pkg/errors"
	"github.com/muhkartal/BoostedPP/pkg/log"
	gonummat "gonum.org/v1/gonum/mat"
)

// noSplitWarnRounds is how many consecutive rounds of single-leaf trees
// (no feature produced a split satisfying MinDataInLeaf/MinChildWeight)
// trigger a ConvergenceWarning, signaling the data has nothing left worth
// splitting on at the current regularization settings.
const noSplitWarnRounds = 5

// GBDT is a histogram-based gradient boosted decision tree ensemble. Train
// grows Trees one at a time against the residual of the previous round's
// predictions; Predict sums BaseScore with every tree's contribution.
type GBDT struct {
	Config    Config
	Objective Objective
	BaseScore float64
	Trees     []*Tree
	Bins      []BinInfo

	consecutiveNoSplit int
}

// New validates cfg (after filling in defaults) and returns an untrained
// GBDT ready for Train.
func New(cfg Config) (*GBDT, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	obj, err := NewObjective(cfg.Task)
	if err != nil {
		return nil, err
	}
	return &GBDT{Config: cfg, Objective: obj}, nil
}

// Train fits cfg.NRounds trees against data, logging the configured metric
// after every round. data must carry labels; Train bins data's raw values
// itself (overwriting any bins data already carried) so the ensemble owns
// the exact thresholds later predictions must be evaluated against.
func (g *GBDT) Train(data *DataMatrix) error {
	if data.Rows == 0 {
		return errors.Wrapf(errors.ErrEmptyData, "GBDT.Train")
	}
	if data.Labels == nil {
		return errors.NewDataShapeMismatchError("GBDT.Train", data.Rows, 0, 0)
	}

	if err := data.CreateBins(g.Config.NBins); err != nil {
		return err
	}
	g.Bins = data.Bins

	logger := log.GetLoggerWithName("boosting.gbdt")
	logger.Info("starting training",
		log.SamplesKey, data.Rows,
		log.FeaturesKey, data.Cols,
		log.NumTreesKey, g.Config.NRounds,
		log.LearningRateKey, g.Config.LearningRate,
	)

	g.BaseScore = g.Objective.BaseScore(data.Labels)
	preds := make([]float64, data.Rows)
	for i := range preds {
		preds[i] = g.BaseScore
	}

	metricFn, err := metrics.Resolve(g.Config.Metric)
	if err != nil {
		return err
	}

	grad := make([]float64, data.Rows)
	hess := make([]float64, data.Rows)

	for round := 0; round < g.Config.NRounds; round++ {
		ComputeGradHess(g.Objective, data.Labels, preds, grad, hess, g.Config.NThreads)

		roundSeed := g.Config.Seed + uint64(round)
		rng := rand.New(rand.NewPCG(roundSeed, roundSeed))

		rowIndices := subsampleRows(data.Rows, g.Config.Subsample, rng)
		featureMask := subsampleFeatures(data.Cols, g.Config.Colsample, rng)

		tree := BuildTree(data, rowIndices, grad, hess, g.Config, featureMask)
		g.Trees = append(g.Trees, tree)
		g.trackConvergence(tree, round, logger)

		parallel.ForRows(data.Rows, g.Config.NThreads, func(start, end int) {
			for i := start; i < end; i++ {
				preds[i] += g.Config.LearningRate * tree.PredictRow(data.Row(i), g.Bins)
			}
		})

		if err := errors.CheckNumericalStability("GBDT.Train", preds, round); err != nil {
			return err
		}

		val, err := metricFn(gonummat.NewVecDense(data.Rows, data.Labels), gonummat.NewVecDense(data.Rows, g.metricScores(preds)))
		if err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("Iteration %d: %s = %v", round, g.Config.Metric, val),
			log.IterationKey, round,
			log.LossKey, val,
		)
	}

	logger.Info(fmt.Sprintf("Training completed: %d trees", len(g.Trees)),
		log.NumTreesKey, len(g.Trees),
	)
	return nil
}

func (g *GBDT) trackConvergence(tree *Tree, round int, logger log.Logger) {
	if len(tree.Nodes) > 1 {
		g.consecutiveNoSplit = 0
		return
	}
	g.consecutiveNoSplit++
	if g.consecutiveNoSplit >= noSplitWarnRounds {
		warning := errors.NewConvergenceWarning("GBDT", round+1,
			"no feature produced a split satisfying MinDataInLeaf/MinChildWeight over the last "+fmt.Sprint(noSplitWarnRounds)+" rounds")
		errors.Warn(warning)
		logger.Warn("no-split streak", log.IterationKey, round)
		g.consecutiveNoSplit = 0
	}
}

// metricScores converts raw margin predictions into the scale cfg.Metric
// expects: binary classification trains and predicts in logit space, but
// logloss/auc/accuracy are all defined over probabilities in [0, 1].
// Regression predictions are already on the label's own scale.
func (g *GBDT) metricScores(preds []float64) []float64 {
	if g.Config.Task != TaskBinary {
		return preds
	}
	out := make([]float64, len(preds))
	for i, p := range preds {
		out[i] = sigmoid(p)
	}
	return out
}

// Predict returns the sum of BaseScore and every tree's contribution for
// each row of data, using the bins Train fitted rather than any bins data
// itself may carry. Returns ModelNotTrainedError if called before Train.
func (g *GBDT) Predict(data *DataMatrix) ([]float64, error) {
	return g.PredictUpTo(data, len(g.Trees))
}

// PredictUpTo returns predictions using only the first nTrees trees,
// letting cross-validation and staged evaluation see the ensemble's
// trajectory without retraining at every round.
func (g *GBDT) PredictUpTo(data *DataMatrix, nTrees int) ([]float64, error) {
	if g.Bins == nil {
		return nil, errors.NewModelNotTrainedError("GBDT.Predict")
	}
	if data.Cols != len(g.Bins) {
		return nil, errors.NewDataShapeMismatchError("GBDT.Predict", len(g.Bins), data.Cols, 1)
	}
	if nTrees > len(g.Trees) {
		nTrees = len(g.Trees)
	}

	preds := make([]float64, data.Rows)
	parallel.ForRows(data.Rows, g.Config.NThreads, func(start, end int) {
		for i := start; i < end; i++ {
			row := data.Row(i)
			sum := g.BaseScore
			for t := 0; t < nTrees; t++ {
				sum += g.Config.LearningRate * g.Trees[t].PredictRow(row, g.Bins)
			}
			preds[i] = sum
		}
	})
	return preds, nil
}

// subsampleRows returns the row indices included in one boosting round.
// frac >= 1 includes every row without consuming rng (no randomness spent
// when subsampling is disabled).
func subsampleRows(n int, frac float64, rng *rand.Rand) []int32 {
	if frac >= 1 {
		all := make([]int32, n)
		for i := range all {
			all[i] = int32(i)
		}
		return all
	}

	out := make([]int32, 0, int(float64(n)*frac)+1)
	for i := 0; i < n; i++ {
		if rng.Float64() < frac {
			out = append(out, int32(i))
		}
	}
	if len(out) == 0 {
		out = append(out, int32(rng.IntN(n)))
	}
	return out
}

// subsampleFeatures returns a feature-eligibility mask for one boosting
// round. A nil return means every feature is eligible.
func subsampleFeatures(cols int, frac float64, rng *rand.Rand) []bool {
	if frac >= 1 {
		return nil
	}

	mask := make([]bool, cols)
	anySelected := false
	for c := 0; c < cols; c++ {
		if rng.Float64() < frac {
			mask[c] = true
			anySelected = true
		}
	}
	if !anySelected {
		mask[rng.IntN(cols)] = true
	}
	return mask
}
