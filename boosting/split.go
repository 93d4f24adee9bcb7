package boosting

import (
	"github.com/muhkartal/BoostedPP/internal/parallel"
)

// SplitInfo describes the best split found for a node: which feature, which
// bin threshold, and the aggregate statistics of the two children. Rows
// with a non-NaN raw value whose bin is <= Threshold go left; rows with bin
// > Threshold, or a NaN raw value, go right — missing values always route
// right, in both training partition and inference, regardless of where the
// bin scan placed the threshold.
type SplitInfo struct {
	Feature      int
	Threshold    uint16
	Gain         float64
	LeftGradSum  float64
	LeftHessSum  float64
	LeftCount    int32
	RightGradSum float64
	RightHessSum float64
	RightCount   int32
}

// FindBestSplit scans every feature's histogram over rowIndices and returns
// the split with the highest gain, or nil if no feature has a candidate
// split that satisfies MinChildWeight on both sides. MinDataInLeaf is a
// node-level pre-split stop rule enforced by Tree.grow before FindBestSplit
// is even called, not a per-candidate filter here. Gain follows spec.md's
// formula, with the parent's own G^2/(H+lambda) term subtracted so stored
// gains are comparable across nodes rather than dominated by the baseline.
func FindBestSplit(data *DataMatrix, rowIndices []int32, grad, hess []float64, cfg Config, featureMask []bool) *SplitInfo {
	var G, H float64
	for _, r := range rowIndices {
		G += grad[r]
		H += hess[r]
	}
	baseline := G * G / (H + cfg.RegLambda)
	total := int32(len(rowIndices))

	perFeature := make([]*SplitInfo, data.Cols)
	parallel.ForFeatures(data.Cols, cfg.NThreads, func(feature int) {
		if featureMask != nil && !featureMask[feature] {
			return
		}
		perFeature[feature] = bestSplitForFeature(data, feature, rowIndices, grad, hess, cfg, G, H, baseline, total)
	})

	var best *SplitInfo
	for _, cand := range perFeature {
		if cand == nil {
			continue
		}
		if best == nil || cand.Gain > best.Gain {
			best = cand
		}
	}
	return best
}

func bestSplitForFeature(data *DataMatrix, feature int, rowIndices []int32, grad, hess []float64, cfg Config, G, H, baseline float64, total int32) *SplitInfo {
	col := data.columnBinned(feature)
	hist := BuildHistogram(col, rowIndices, grad, hess)

	var best *SplitInfo
	var Lg, Lh float64
	var Lc int32
	for k := 0; k < len(hist.GradSum)-1; k++ {
		Lg += hist.GradSum[k]
		Lh += hist.HessSum[k]
		Lc += hist.Count[k]

		Rg := G - Lg
		Rh := H - Lh
		Rc := total - Lc

		if Lh < cfg.MinChildWeight || Rh < cfg.MinChildWeight {
			continue
		}

		gain := Lg*Lg/(Lh+cfg.RegLambda) + Rg*Rg/(Rh+cfg.RegLambda) - baseline
		if best == nil || gain > best.Gain {
			best = &SplitInfo{
				Feature:      feature,
				Threshold:    uint16(k),
				Gain:         gain,
				LeftGradSum:  Lg,
				LeftHessSum:  Lh,
				LeftCount:    Lc,
				RightGradSum: Rg,
				RightHessSum: Rh,
				RightCount:   Rc,
			}
		}
	}
	return best
}

// columnBinned extracts one feature column of Binned into a row-indexed
// slice suitable for BuildHistogram.
func (d *DataMatrix) columnBinned(col int) []uint16 {
	out := make([]uint16, d.Rows)
	for r := 0; r < d.Rows; r++ {
		out[r] = d.Binned[r*d.Cols+col]
	}
	return out
}
