package boosting

import "math"

// TreeNode is one node of a flat, pre-order-built regression tree. Feature
// is -1 for a leaf. Left and Right index into the owning Tree's Nodes
// slice.
type TreeNode struct {
	Feature   int32   `json:"feature"`
	Threshold uint16  `json:"threshold"`
	Gain      float64 `json:"gain"`
	Left      int32   `json:"left"`
	Right     int32   `json:"right"`
	LeafValue float64 `json:"leaf_value"`
}

// IsLeaf reports whether n has no children.
func (n TreeNode) IsLeaf() bool {
	return n.Feature < 0
}

// Tree is one boosting round's regression tree, stored as a flat
// pre-order array rather than a pointer-linked structure so a whole tree
// serializes as one contiguous slice.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// BuildTree grows one tree greedily from rowIndices, stopping a branch when
// it reaches cfg.MaxDepth, has at most MinDataInLeaf rows, or
// FindBestSplit finds no candidate with MinChildWeight on both sides.
// featureMask restricts which columns FindBestSplit may choose from (nil
// means every column is eligible), implementing Colsample.
func BuildTree(data *DataMatrix, rowIndices []int32, grad, hess []float64, cfg Config, featureMask []bool) *Tree {
	t := &Tree{}
	t.grow(data, rowIndices, grad, hess, cfg, featureMask, 0)
	return t
}

func (t *Tree) grow(data *DataMatrix, rowIndices []int32, grad, hess []float64, cfg Config, featureMask []bool, depth int) int32 {
	idx := int32(len(t.Nodes))
	t.Nodes = append(t.Nodes, TreeNode{})

	if depth >= cfg.MaxDepth || len(rowIndices) <= cfg.MinDataInLeaf {
		t.Nodes[idx] = leafNode(grad, hess, rowIndices, cfg)
		return idx
	}

	split := FindBestSplit(data, rowIndices, grad, hess, cfg, featureMask)
	if split == nil {
		t.Nodes[idx] = leafNode(grad, hess, rowIndices, cfg)
		return idx
	}

	leftRows, rightRows := partitionRows(data, rowIndices, split)

	leftIdx := t.grow(data, leftRows, grad, hess, cfg, featureMask, depth+1)
	rightIdx := t.grow(data, rightRows, grad, hess, cfg, featureMask, depth+1)

	t.Nodes[idx] = TreeNode{
		Feature:   int32(split.Feature),
		Threshold: split.Threshold,
		Gain:      split.Gain,
		Left:      leftIdx,
		Right:     rightIdx,
	}
	return idx
}

func leafNode(grad, hess []float64, rowIndices []int32, cfg Config) TreeNode {
	var G, H float64
	for _, r := range rowIndices {
		G += grad[r]
		H += hess[r]
	}
	weight := -G / (H + cfg.RegLambda)
	return TreeNode{Feature: -1, LeafValue: weight}
}

// partitionRows splits rowIndices into left/right sets under split. A row
// whose raw value at split.Feature is NaN always goes right; otherwise the
// row's cached bin decides the side, mirroring PredictRow's inference-time
// rule exactly.
func partitionRows(data *DataMatrix, rowIndices []int32, split *SplitInfo) ([]int32, []int32) {
	left := make([]int32, 0, len(rowIndices))
	right := make([]int32, 0, len(rowIndices))
	for _, r := range rowIndices {
		raw := data.At(int(r), split.Feature)
		if math.IsNaN(float64(raw)) {
			right = append(right, r)
			continue
		}
		if data.BinnedAt(int(r), split.Feature) <= split.Threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return left, right
}

// PredictRow walks the tree for one row of raw feature values, using bins
// to convert a raw value to a bin index at each internal node the same way
// training did. A NaN feature value always routes right. The returned value
// is the raw Newton leaf weight -G/(H+lambda); callers scale it by
// cfg.LearningRate when accumulating it into a running prediction.
func (t *Tree) PredictRow(raw []float32, bins []BinInfo) float64 {
	idx := int32(0)
	for {
		n := t.Nodes[idx]
		if n.IsLeaf() {
			return n.LeafValue
		}
		v := raw[n.Feature]
		if math.IsNaN(float64(v)) {
			idx = n.Right
			continue
		}
		if bins[n.Feature].GetBin(v) <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}
