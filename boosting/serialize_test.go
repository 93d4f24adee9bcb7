package boosting

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"testing"
)

func trainSmallModel(t *testing.T) *GBDT {
	t.Helper()
	data := makeLinearRegressionData(80)
	model, err := New(Config{NRounds: 5, MaxDepth: 2, MinDataInLeaf: 2, RegLambda: 0.1, NBins: 32, LearningRate: 0.2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := model.Train(data); err != nil {
		t.Fatalf("Train: %v", err)
	}
	return model
}

func TestSaveLoadNativeRoundTrip(t *testing.T) {
	model := trainSmallModel(t)

	var buf bytes.Buffer
	if err := model.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(loaded.Trees) != len(model.Trees) {
		t.Fatalf("loaded %d trees, want %d", len(loaded.Trees), len(model.Trees))
	}
	if loaded.BaseScore != model.BaseScore {
		t.Errorf("loaded BaseScore = %v, want %v", loaded.BaseScore, model.BaseScore)
	}

	data := makeLinearRegressionData(10)
	before, err := model.Predict(data)
	if err != nil {
		t.Fatalf("Predict before round trip: %v", err)
	}
	after, err := loaded.Predict(data)
	if err != nil {
		t.Fatalf("Predict after round trip: %v", err)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("row %d: prediction changed across the round trip: %v vs %v", i, before[i], after[i])
		}
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	if _, err := Load(bytes.NewReader([]byte("{not json"))); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestLoadRejectsMissingFields(t *testing.T) {
	if _, err := Load(bytes.NewReader([]byte(`{"config":{}}`))); err == nil {
		t.Error("expected an error for a model JSON missing bins/trees")
	}
}

func TestSaveCompatProducesDocumentedShape(t *testing.T) {
	model := trainSmallModel(t)

	var buf bytes.Buffer
	if err := model.SaveCompat(&buf); err != nil {
		t.Fatalf("SaveCompat: %v", err)
	}

	var decoded xgCompatModel
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding compat JSON: %v", err)
	}
	learner := decoded.Learner
	if learner.GradientBooster.Name != "gbtree" {
		t.Errorf("gradient_booster.name = %q, want gbtree", learner.GradientBooster.Name)
	}
	if learner.Name != "generic" || learner.Version != "1.0.0" {
		t.Errorf("learner.name/version = %q/%q, want generic/1.0.0", learner.Name, learner.Version)
	}
	if learner.GradientBooster.Model.GbtreeModelParam.NumTrees != model.Config.NRounds {
		t.Errorf("num_trees = %d, want %d", learner.GradientBooster.Model.GbtreeModelParam.NumTrees, model.Config.NRounds)
	}
	if learner.Attributes.BestIteration != strconv.Itoa(model.Config.NRounds) {
		t.Errorf("best_iteration = %q, want %q", learner.Attributes.BestIteration, strconv.Itoa(model.Config.NRounds))
	}
	if learner.LearnerModelParam.Objective != "reg:squarederror" {
		t.Errorf("objective = %q, want reg:squarederror", learner.LearnerModelParam.Objective)
	}

	trees := learner.GradientBooster.Model.Trees
	if len(trees) != len(model.Trees) {
		t.Fatalf("compat JSON has %d trees, want %d", len(trees), len(model.Trees))
	}
	for i, tree := range trees {
		if len(tree.Nodes) != len(model.Trees[i].Nodes) {
			t.Errorf("tree %d: %d nodes, want %d", i, len(tree.Nodes), len(model.Trees[i].Nodes))
		}
		for pos, n := range tree.Nodes {
			if n.NodeID != pos {
				t.Errorf("tree %d: node at position %d has nodeid %d, want strictly-BFS-increasing id %d", i, pos, n.NodeID, pos)
			}
			isLeaf := n.Leaf != nil
			hasInternalFields := n.Split != nil && n.SplitCondition != nil && n.Yes != nil && n.No != nil
			if isLeaf == hasInternalFields {
				t.Errorf("tree %d node %d: expected exactly one of leaf/split to be set", i, pos)
			}
			if !isLeaf && *n.Missing != *n.No {
				t.Errorf("tree %d node %d: missing = %d, want %d (equal to no)", i, pos, *n.Missing, *n.No)
			}
		}
	}
}

func TestSaveCompatLoadCompatRoundTripPreservesPredictions(t *testing.T) {
	model := trainSmallModel(t)

	var buf bytes.Buffer
	if err := model.SaveCompat(&buf); err != nil {
		t.Fatalf("SaveCompat: %v", err)
	}

	loaded, err := LoadCompat(&buf)
	if err != nil {
		t.Fatalf("LoadCompat: %v", err)
	}
	if len(loaded.Trees) != len(model.Trees) {
		t.Fatalf("loaded %d trees, want %d", len(loaded.Trees), len(model.Trees))
	}

	data := makeLinearRegressionData(10)
	before, err := model.Predict(data)
	if err != nil {
		t.Fatalf("Predict before round trip: %v", err)
	}

	loaded.BaseScore = model.BaseScore
	after, err := loaded.Predict(data)
	if err != nil {
		t.Fatalf("Predict after round trip: %v", err)
	}
	for i := range before {
		if math.Abs(before[i]-after[i]) > 1e-9 {
			t.Errorf("row %d: prediction changed across the compat round trip: %v vs %v", i, before[i], after[i])
		}
	}
}

func TestLoadCompatRejectsMalformedJSON(t *testing.T) {
	if _, err := LoadCompat(bytes.NewReader([]byte("{not json"))); err == nil {
		t.Error("expected an error for malformed compat JSON")
	}
}

func TestLoadCompatRejectsMissingTrees(t *testing.T) {
	if _, err := LoadCompat(bytes.NewReader([]byte(`{"learner":{"learner_model_param":{"objective":"reg:squarederror"}}}`))); err == nil {
		t.Error("expected an error for a compat model JSON missing learner.gradient_booster.model.trees")
	}
}
