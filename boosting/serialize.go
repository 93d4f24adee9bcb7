package boosting

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/muhkartal/BoostedPP/pkg/errors"
)

// nativeModel is the round-trip JSON shape: configuration, fitted bins,
// and every tree, enough to reconstruct a GBDT exactly.
type nativeModel struct {
	Config    Config    `json:"config"`
	BaseScore float64   `json:"base_score"`
	Bins      []BinInfo `json:"bins"`
	Trees     []*Tree   `json:"trees"`
}

// Save writes the ensemble in the native round-trip JSON shape.
func (g *GBDT) Save(w io.Writer) error {
	m := nativeModel{Config: g.Config, BaseScore: g.BaseScore, Bins: g.Bins, Trees: g.Trees}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return errors.NewIOFailureError("GBDT.Save", "", err)
	}
	return nil
}

// SaveToFile is Save against a file path, mirroring the teacher's
// SaveToFile/LoadFromFile convention.
func (g *GBDT) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOFailureError("GBDT.SaveToFile", path, err)
	}
	defer f.Close()
	return g.Save(f)
}

// Load reconstructs a GBDT from the native JSON shape written by Save.
func Load(r io.Reader) (*GBDT, error) {
	var m nativeModel
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.NewModelFormatInvalidError("native", err.Error())
	}
	if m.Bins == nil || m.Trees == nil {
		return nil, errors.NewModelFormatInvalidError("native", "missing bins or trees")
	}
	cfg := m.Config.WithDefaults()
	obj, err := NewObjective(cfg.Task)
	if err != nil {
		return nil, err
	}
	return &GBDT{Config: cfg, Objective: obj, BaseScore: m.BaseScore, Bins: m.Bins, Trees: m.Trees}, nil
}

// LoadFromFile is Load against a file path.
func LoadFromFile(path string) (*GBDT, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOFailureError("LoadFromFile", path, err)
	}
	defer f.Close()
	return Load(f)
}

// The compatibility shape below mirrors XGBoost's own saved-model JSON
// layout: a learner object carrying attributes, a gradient_booster naming
// "gbtree" and holding the per-tree node list, and a learner_model_param
// recording the hyperparameters that shaped training. Each tree's nodes
// are relabeled by a breadth-first walk from the root so nodeid starts at
// 0 and strictly increases in BFS order; split_condition holds the raw
// feature-value threshold for an internal node (rows with value <= this
// threshold go to yes), and missing always equals no since this engine
// routes a NaN feature value right unconditionally.

type xgAttributes struct {
	BestIteration string `json:"best_iteration"`
}

type xgGbtreeModelParam struct {
	NumTrees int `json:"num_trees"`
}

type xgModel struct {
	GbtreeModelParam xgGbtreeModelParam `json:"gbtree_model_param"`
	Trees            []xgTree           `json:"trees"`
}

type xgGradientBooster struct {
	Name  string  `json:"name"`
	Model xgModel `json:"model"`
}

type xgLearnerModelParam struct {
	Objective       string  `json:"objective"`
	Eta             float64 `json:"eta"`
	MaxDepth        int     `json:"max_depth"`
	MinChildWeight  float64 `json:"min_child_weight"`
	Lambda          float64 `json:"lambda"`
	Subsample       float64 `json:"subsample"`
	ColsampleBytree float64 `json:"colsample_bytree"`
}

type xgLearner struct {
	Attributes        xgAttributes        `json:"attributes"`
	GradientBooster   xgGradientBooster   `json:"gradient_booster"`
	LearnerModelParam xgLearnerModelParam `json:"learner_model_param"`
	Name              string              `json:"name"`
	Version           string              `json:"version"`
}

type xgCompatModel struct {
	Learner xgLearner `json:"learner"`
}

// xgNode is one node of a compatibility-shape tree. A leaf node carries
// Leaf and nothing else; an internal node carries Split/SplitCondition and
// the Yes/No/Missing nodeid references. The pointer fields distinguish the
// two shapes on both encode and decode.
type xgNode struct {
	NodeID         int      `json:"nodeid"`
	Leaf           *float64 `json:"leaf,omitempty"`
	Split          *int     `json:"split,omitempty"`
	SplitCondition *float64 `json:"split_condition,omitempty"`
	Yes            *int     `json:"yes,omitempty"`
	No             *int     `json:"no,omitempty"`
	Missing        *int     `json:"missing,omitempty"`
}

type xgTree struct {
	Nodes []xgNode `json:"nodes"`
}

// SaveCompat writes the ensemble in the XGBoost-compatible JSON shape.
// Bin-threshold splits are translated back to raw feature-value thresholds
// via the fitted BinInfo, since that format has no notion of bins.
func (g *GBDT) SaveCompat(w io.Writer) error {
	trees := make([]xgTree, len(g.Trees))
	for i, t := range g.Trees {
		trees[i] = xgTree{Nodes: toXGNodes(t, g.Bins)}
	}
	m := xgCompatModel{Learner: xgLearner{
		Attributes: xgAttributes{BestIteration: strconv.Itoa(g.Config.NRounds)},
		GradientBooster: xgGradientBooster{
			Name: "gbtree",
			Model: xgModel{
				GbtreeModelParam: xgGbtreeModelParam{NumTrees: g.Config.NRounds},
				Trees:            trees,
			},
		},
		LearnerModelParam: xgLearnerModelParam{
			Objective:       objectiveFromTask(g.Config.Task),
			Eta:             g.Config.LearningRate,
			MaxDepth:        g.Config.MaxDepth,
			MinChildWeight:  g.Config.MinChildWeight,
			Lambda:          g.Config.RegLambda,
			Subsample:       g.Config.Subsample,
			ColsampleBytree: g.Config.Colsample,
		},
		Name:    "generic",
		Version: "1.0.0",
	}}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return errors.NewIOFailureError("GBDT.SaveCompat", "", err)
	}
	return nil
}

// SaveCompatToFile is SaveCompat against a file path.
func (g *GBDT) SaveCompatToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOFailureError("GBDT.SaveCompatToFile", path, err)
	}
	defer f.Close()
	return g.SaveCompat(f)
}

// toXGNodes relabels t's nodes by a breadth-first walk from the root:
// nodeid is assigned in BFS visitation order, and the returned slice is
// indexed by that same order, so nodeid strictly increases with position.
func toXGNodes(t *Tree, bins []BinInfo) []xgNode {
	newID := make([]int32, len(t.Nodes))
	order := make([]int32, 0, len(t.Nodes))
	queue := []int32{0}
	for len(queue) > 0 {
		origIdx := queue[0]
		queue = queue[1:]
		newID[origIdx] = int32(len(order))
		order = append(order, origIdx)
		n := t.Nodes[origIdx]
		if !n.IsLeaf() {
			queue = append(queue, n.Left, n.Right)
		}
	}

	nodes := make([]xgNode, len(order))
	for pos, origIdx := range order {
		n := t.Nodes[origIdx]
		if n.IsLeaf() {
			weight := n.LeafValue
			nodes[pos] = xgNode{NodeID: pos, Leaf: &weight}
			continue
		}
		split := int(n.Feature)
		cond := splitConditionValue(bins[n.Feature], n.Threshold)
		yes := int(newID[n.Left])
		no := int(newID[n.Right])
		nodes[pos] = xgNode{
			NodeID:         pos,
			Split:          &split,
			SplitCondition: &cond,
			Yes:            &yes,
			No:             &no,
			Missing:        &no,
		}
	}
	return nodes
}

// splitConditionValue translates a bin-index threshold back to the raw
// feature-value boundary it corresponds to: rows with value <= this
// boundary went left during training.
func splitConditionValue(bin BinInfo, thresholdBin uint16) float64 {
	idx := int(thresholdBin)
	if idx < len(bin.Splits) {
		return bin.Splits[idx]
	}
	if len(bin.Splits) > 0 {
		return bin.Splits[len(bin.Splits)-1]
	}
	return 0
}

func objectiveFromTask(task Task) string {
	if task == TaskBinary {
		return "binary:logistic"
	}
	return "reg:squarederror"
}

func taskFromObjective(objective string) (Task, error) {
	switch objective {
	case "binary:logistic":
		return TaskBinary, nil
	case "reg:squarederror":
		return TaskRegression, nil
	default:
		return "", errors.NewModelFormatInvalidError("compat", "unknown learner_model_param.objective "+objective)
	}
}

// LoadCompat reconstructs a GBDT from the XGBoost-compatible JSON shape
// written by SaveCompat. The compatibility format carries no bin metadata,
// so LoadCompat synthesizes, per feature, a BinInfo from the distinct
// split_condition values that feature's nodes actually use across every
// tree; since each such value becomes its own bin edge, re-binning any raw
// value against it reproduces the original left/right routing exactly,
// even though the synthesized bins generally differ from whatever bins (if
// any) trained the model this JSON came from. Per the documented format,
// an arbitrary but internally consistent nodeid assignment is accepted —
// LoadCompat does not require nodeid to follow BFS order.
func LoadCompat(r io.Reader) (*GBDT, error) {
	var m xgCompatModel
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.NewModelFormatInvalidError("compat", err.Error())
	}
	learner := m.Learner
	if learner.GradientBooster.Model.Trees == nil {
		return nil, errors.NewModelFormatInvalidError("compat", "learner.gradient_booster.model.trees")
	}

	task, err := taskFromObjective(learner.LearnerModelParam.Objective)
	if err != nil {
		return nil, err
	}
	nRounds, convErr := strconv.Atoi(learner.Attributes.BestIteration)
	if convErr != nil {
		nRounds = len(learner.GradientBooster.Model.Trees)
	}

	cfg := Config{
		Task:           task,
		NRounds:        nRounds,
		LearningRate:   learner.LearnerModelParam.Eta,
		MaxDepth:       learner.LearnerModelParam.MaxDepth,
		MinChildWeight: learner.LearnerModelParam.MinChildWeight,
		RegLambda:      learner.LearnerModelParam.Lambda,
		Subsample:      learner.LearnerModelParam.Subsample,
		Colsample:      learner.LearnerModelParam.ColsampleBytree,
	}.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	obj, err := NewObjective(cfg.Task)
	if err != nil {
		return nil, err
	}

	bins, err := synthesizeCompatBins(learner.GradientBooster.Model.Trees)
	if err != nil {
		return nil, err
	}

	trees := make([]*Tree, len(learner.GradientBooster.Model.Trees))
	for i, xt := range learner.GradientBooster.Model.Trees {
		tree, err := fromXGTree(xt, bins)
		if err != nil {
			return nil, err
		}
		trees[i] = tree
	}

	return &GBDT{Config: cfg, Objective: obj, Bins: bins, Trees: trees}, nil
}

// LoadCompatFromFile is LoadCompat against a file path.
func LoadCompatFromFile(path string) (*GBDT, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOFailureError("LoadCompatFromFile", path, err)
	}
	defer f.Close()
	return LoadCompat(f)
}

func synthesizeCompatBins(trees []xgTree) ([]BinInfo, error) {
	observed := map[int]map[float64]struct{}{}
	maxFeature := -1
	for _, xt := range trees {
		for _, n := range xt.Nodes {
			if n.Split == nil {
				continue
			}
			if n.SplitCondition == nil {
				return nil, errors.NewModelFormatInvalidError("compat", "node.split_condition")
			}
			if observed[*n.Split] == nil {
				observed[*n.Split] = map[float64]struct{}{}
			}
			observed[*n.Split][*n.SplitCondition] = struct{}{}
			if *n.Split > maxFeature {
				maxFeature = *n.Split
			}
		}
	}

	bins := make([]BinInfo, maxFeature+1)
	for feature, set := range observed {
		vals := make([]float64, 0, len(set))
		for v := range set {
			vals = append(vals, v)
		}
		sort.Float64s(vals)
		bins[feature] = BinInfo{Splits: vals}
	}
	return bins, nil
}

// fromXGTree rebuilds a Tree from a compatibility-shape tree, resolving
// Yes/No nodeid references against a map built from the order nodeid
// values first appear in the JSON node array, and re-binning each node's
// raw split_condition against bins (see synthesizeCompatBins).
func fromXGTree(xt xgTree, bins []BinInfo) (*Tree, error) {
	nodeMap := make(map[int]int, len(xt.Nodes))
	for i, n := range xt.Nodes {
		nodeMap[n.NodeID] = i
	}

	nodes := make([]TreeNode, len(xt.Nodes))
	for i, n := range xt.Nodes {
		if n.Leaf != nil {
			nodes[i] = TreeNode{Feature: -1, LeafValue: *n.Leaf}
			continue
		}
		if n.Split == nil || n.SplitCondition == nil || n.Yes == nil || n.No == nil {
			return nil, errors.NewModelFormatInvalidError("compat", "internal node missing split/split_condition/yes/no")
		}
		left, ok := nodeMap[*n.Yes]
		if !ok {
			return nil, errors.NewModelFormatInvalidError("compat", "node.yes references an unknown nodeid")
		}
		right, ok := nodeMap[*n.No]
		if !ok {
			return nil, errors.NewModelFormatInvalidError("compat", "node.no references an unknown nodeid")
		}
		nodes[i] = TreeNode{
			Feature:   int32(*n.Split),
			Threshold: bins[*n.Split].GetBin(float32(*n.SplitCondition)),
			Left:      int32(left),
			Right:     int32(right),
		}
	}
	return &Tree{Nodes: nodes}, nil
}
