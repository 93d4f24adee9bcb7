package boosting

import "testing"

func TestComputeGradHessRegression(t *testing.T) {
	labels := []float64{1, 2, 3}
	preds := []float64{1, 1, 1}
	grad := make([]float64, 3)
	hess := make([]float64, 3)
	ComputeGradHess(RegressionObjective{}, labels, preds, grad, hess, 2)

	want := []float64{0, -1, -2}
	for i := range want {
		if grad[i] != want[i] {
			t.Errorf("grad[%d] = %v, want %v", i, grad[i], want[i])
		}
		if hess[i] != 1.0 {
			t.Errorf("hess[%d] = %v, want 1", i, hess[i])
		}
	}
}

func TestBuildHistogramAccumulatesByBin(t *testing.T) {
	binnedCol := []uint16{0, 1, 0, 1, 2}
	grad := []float64{1, 2, 3, 4, 5}
	hess := []float64{1, 1, 1, 1, 1}
	rows := []int32{0, 1, 2, 3, 4}

	h := BuildHistogram(binnedCol, rows, grad, hess)
	if h.GradSum[0] != 4 { // rows 0,2
		t.Errorf("GradSum[0] = %v, want 4", h.GradSum[0])
	}
	if h.GradSum[1] != 6 { // rows 1,3
		t.Errorf("GradSum[1] = %v, want 6", h.GradSum[1])
	}
	if h.GradSum[2] != 5 { // row 4
		t.Errorf("GradSum[2] = %v, want 5", h.GradSum[2])
	}
	if h.Count[0] != 2 || h.Count[1] != 2 || h.Count[2] != 1 {
		t.Errorf("counts = %v, want [2 2 1]", h.Count)
	}
}

func TestBuildHistogramScalarAndUnrolledAgree(t *testing.T) {
	n := 200
	binnedCol := make([]uint16, n)
	grad := make([]float64, n)
	hess := make([]float64, n)
	rows := make([]int32, n)
	for i := 0; i < n; i++ {
		binnedCol[i] = uint16(i % 5)
		grad[i] = float64(i)
		hess[i] = 1
		rows[i] = int32(i)
	}

	scalar := NewHistogram(5)
	accumulateScalar(scalar, binnedCol, rows, grad, hess)

	unrolled := NewHistogram(5)
	accumulateUnrolled4(unrolled, binnedCol, rows, grad, hess)

	for b := 0; b < 5; b++ {
		if scalar.GradSum[b] != unrolled.GradSum[b] {
			t.Errorf("bin %d: scalar GradSum %v != unrolled %v", b, scalar.GradSum[b], unrolled.GradSum[b])
		}
		if scalar.Count[b] != unrolled.Count[b] {
			t.Errorf("bin %d: scalar Count %v != unrolled %v", b, scalar.Count[b], unrolled.Count[b])
		}
	}
}
