package boosting

import (
	"github.com/muhkartal/BoostedPP/internal/parallel"
)

// ComputeGradHess fills grad and hess with the objective's per-row gradient
// and hessian for the current predictions, splitting the row range across
// nThreads workers via internal/parallel.ForRows.
func ComputeGradHess(obj Objective, labels, preds []float64, grad, hess []float64, nThreads int) {
	parallel.ForRows(len(labels), nThreads, func(start, end int) {
		for i := start; i < end; i++ {
			grad[i] = obj.Gradient(preds[i], labels[i])
			hess[i] = obj.Hessian(preds[i], labels[i])
		}
	})
}

// Histogram accumulates gradient sum, hessian sum, and row count per bin
// for one feature column, restricted to a node's row set.
type Histogram struct {
	GradSum []float64
	HessSum []float64
	Count   []int32
}

// NewHistogram allocates a zeroed Histogram with nBins buckets.
func NewHistogram(nBins int) *Histogram {
	return &Histogram{
		GradSum: make([]float64, nBins),
		HessSum: make([]float64, nBins),
		Count:   make([]int32, nBins),
	}
}

// unrollThreshold is the row-count above which the 4-wide unrolled
// accumulator is used instead of the plain scalar loop. Below it the loop
// overhead of unrolling outweighs the benefit.
const unrollThreshold = 64

// BuildHistogram accumulates grad/hess sums per bin for the rows named in
// rowIndices, reading bins from binnedCol (a single feature's column,
// already extracted from DataMatrix.Binned). This is the "wide vs narrow"
// kernel split spec.md's design notes call for: Go has no portable SIMD
// intrinsic reachable without cgo or assembly, so the 4-wide unrolled loop
// stands in for a hardware-vector variant and the scalar loop is the
// narrow/fallback tier.
func BuildHistogram(binnedCol []uint16, rowIndices []int32, grad, hess []float64) *Histogram {
	maxBin := uint16(0)
	for _, r := range rowIndices {
		if b := binnedCol[r]; b > maxBin {
			maxBin = b
		}
	}
	h := NewHistogram(int(maxBin) + 1)

	if len(rowIndices) < unrollThreshold {
		accumulateScalar(h, binnedCol, rowIndices, grad, hess)
	} else {
		accumulateUnrolled4(h, binnedCol, rowIndices, grad, hess)
	}
	return h
}

func accumulateScalar(h *Histogram, binnedCol []uint16, rowIndices []int32, grad, hess []float64) {
	for _, r := range rowIndices {
		b := binnedCol[r]
		h.GradSum[b] += grad[r]
		h.HessSum[b] += hess[r]
		h.Count[b]++
	}
}

func accumulateUnrolled4(h *Histogram, binnedCol []uint16, rowIndices []int32, grad, hess []float64) {
	n := len(rowIndices)
	i := 0
	for ; i+4 <= n; i += 4 {
		r0, r1, r2, r3 := rowIndices[i], rowIndices[i+1], rowIndices[i+2], rowIndices[i+3]
		b0, b1, b2, b3 := binnedCol[r0], binnedCol[r1], binnedCol[r2], binnedCol[r3]

		h.GradSum[b0] += grad[r0]
		h.HessSum[b0] += hess[r0]
		h.Count[b0]++

		h.GradSum[b1] += grad[r1]
		h.HessSum[b1] += hess[r1]
		h.Count[b1]++

		h.GradSum[b2] += grad[r2]
		h.HessSum[b2] += hess[r2]
		h.Count[b2]++

		h.GradSum[b3] += grad[r3]
		h.HessSum[b3] += hess[r3]
		h.Count[b3]++
	}
	for ; i < n; i++ {
		r := rowIndices[i]
		b := binnedCol[r]
		h.GradSum[b] += grad[r]
		h.HessSum[b] += hess[r]
		h.Count[b]++
	}
}
