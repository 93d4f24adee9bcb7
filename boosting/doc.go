// Package boosting implements a histogram-based gradient boosted decision
// tree engine: quantile binning of raw feature columns, Newton-boosted
// regression and binary-logistic trees grown greedily over per-feature
// histograms, k-fold cross-validation, and JSON serialization in both a
// native round-trip shape and an XGBoost-compatible shape.
package boosting
