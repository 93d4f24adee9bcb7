package metrics

import (
	"math"
	"sort"

	"github.com/muhkartal/BoostedPP/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LogLoss computes the binary cross-entropy loss, averaged over samples.
// yTrue must be 0/1; yPred is a probability in [0, 1], clipped away from the
// boundary to avoid log(0).
func LogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkSameLength("LogLoss", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	const epsilon = 1e-15
	var loss float64
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		if y != 0 && y != 1 {
			return 0, errors.Newf("LogLoss: yTrue must be binary (0 or 1), got %v at index %d", y, i)
		}

		p := yPred.AtVec(i)
		if p < epsilon {
			p = epsilon
		} else if p > 1-epsilon {
			p = 1 - epsilon
		}

		if y == 1 {
			loss -= math.Log(p)
		} else {
			loss -= math.Log(1 - p)
		}
	}
	return loss / float64(n), nil
}

// AUC computes the area under the ROC curve via the trapezoidal rule over
// thresholds induced by the distinct prediction scores. Returns 0.5 when
// yTrue contains only one class, since AUC is undefined there.
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkSameLength("AUC", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	type scoredLabel struct {
		score float64
		label float64
	}
	pairs := make([]scoredLabel, n)
	totalPos, totalNeg := 0.0, 0.0
	for i := 0; i < n; i++ {
		label := yTrue.AtVec(i)
		if label != 0 && label != 1 {
			return 0, errors.Newf("AUC: yTrue must be binary (0 or 1), got %v at index %d", label, i)
		}
		pairs[i] = scoredLabel{score: yPred.AtVec(i), label: label}
		if label == 1 {
			totalPos++
		} else {
			totalNeg++
		}
	}

	if totalPos == 0 || totalNeg == 0 {
		return 0.5, nil
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].score > pairs[j].score })

	tprs := []float64{0}
	fprs := []float64{0}
	tp, fp := 0.0, 0.0
	prevScore := pairs[0].score + 1
	for _, p := range pairs {
		if p.score != prevScore {
			tprs = append(tprs, tp/totalPos)
			fprs = append(fprs, fp/totalNeg)
			prevScore = p.score
		}
		if p.label == 1 {
			tp++
		} else {
			fp++
		}
	}
	tprs = append(tprs, 1)
	fprs = append(fprs, 1)

	var auc float64
	for i := 1; i < len(fprs); i++ {
		width := fprs[i] - fprs[i-1]
		height := (tprs[i] + tprs[i-1]) / 2
		auc += width * height
	}
	return auc, nil
}

// Accuracy computes the fraction of predictions matching yTrue after
// thresholding yPred at 0.5. Only meaningful for binary tasks.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkSameLength("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var correct int
	for i := 0; i < n; i++ {
		predicted := 0.0
		if yPred.AtVec(i) >= 0.5 {
			predicted = 1.0
		}
		if predicted == yTrue.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}
