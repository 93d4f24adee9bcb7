// Package boostedpp is the module root for BoostedPP, a histogram-based
// gradient boosted decision tree engine.
//
// The training and inference surface lives in the boosting package
// (Config, DataMatrix, GBDT). metrics implements the regression and
// classification metrics the training loop and cross-validation report.
// pkg/errors and pkg/log provide the ambient error-taxonomy and structured
// logging every package builds on; internal/parallel provides the two
// bounded fan-out shapes the histogram and prediction kernels use.
package boostedpp
