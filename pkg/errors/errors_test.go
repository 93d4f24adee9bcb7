package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewIOFailureError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		path    string
		err     error
		wantMsg string
	}{
		{
			name:    "with underlying error",
			op:      "open",
			path:    "model.json",
			err:     fmt.Errorf("permission denied"),
			wantMsg: "boosting: open model.json: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewIOFailureError(tt.op, tt.path, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("expected stack trace to contain test file name")
			}

			var ioErr *IOFailureError
			if !As(err, &ioErr) {
				t.Error("error should be castable to *IOFailureError")
			}
		})
	}
}

func TestNewDataShapeMismatchError(t *testing.T) {
	err := NewDataShapeMismatchError("Predict", 10, 8, 0)

	want := "boosting: Predict: dimension mismatch on axis 0 (rows): expected 10, got 8"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DataShapeMismatchError
	if !As(err, &dimErr) {
		t.Error("error should be castable to *DataShapeMismatchError")
	}
}

func TestNewModelNotTrainedError(t *testing.T) {
	err := NewModelNotTrainedError("Predict")

	want := "boosting: model is not trained yet; call Train() before Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notTrained *ModelNotTrainedError
	if !As(err, &notTrained) {
		t.Error("error should be castable to *ModelNotTrainedError")
	}
}

func TestNewModelFormatInvalidError(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		field   string
		wantMsg string
	}{
		{
			name:    "missing field",
			format:  "compat",
			field:   "learner",
			wantMsg: `boosting: invalid compat model format: missing field "learner"`,
		},
		{
			name:    "no field named",
			format:  "native",
			field:   "",
			wantMsg: "boosting: invalid native model format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelFormatInvalidError(tt.format, tt.field)
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestNewDataParseFailureError(t *testing.T) {
	err := NewDataParseFailureError("train.csv", 42, "expected 3 columns, got 2")

	want := "boosting: train.csv: line 42: expected 3 columns, got 2"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestNewConfigurationInvalidError(t *testing.T) {
	err := NewConfigurationInvalidError("LearningRate", "must be in (0, 1]", -0.5)

	want := `boosting: invalid config field "LearningRate": must be in (0, 1] (got: -0.5)`
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestNewConvergenceWarning(t *testing.T) {
	warn := NewConvergenceWarning("split-finding", 1000, "no feature produced positive gain")

	want := "split-finding: 1000 iterations: no feature produced positive gain"
	if warn.Error() != want {
		t.Errorf("Error() = %v, want %v", warn.Error(), want)
	}

	var convWarn *ConvergenceWarning
	if !As(warn, &convWarn) {
		t.Error("warning should be castable to *ConvergenceWarning")
	}
}

func TestWrapAndIs(t *testing.T) {
	baseErr := ErrEmptyData
	wrapped := Wrap(baseErr, "in GBDT.Train")

	if !Is(wrapped, ErrEmptyData) {
		t.Error("expected Is(wrapped, ErrEmptyData) to be true")
	}

	if !strings.Contains(wrapped.Error(), "in GBDT.Train") {
		t.Error("expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	baseErr := ErrEmptyData
	wrapped := Wrapf(baseErr, "in %s: expected %d, got %d", "Predict", 10, 5)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in Predict: expected 10, got 5"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("expected wrapped error to contain %q", expectedMsg)
	}
}

func TestErrorChaining(t *testing.T) {
	err1 := fmt.Errorf("base error")
	err2 := Wrap(err1, "wrapped once")
	err3 := NewIOFailureError("save", "model.json", err2)

	if !strings.Contains(err3.Error(), "base error") {
		t.Error("expected error chain to contain base error")
	}

	formatted := fmt.Sprintf("%+v", err3)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("expected detailed error to contain stack trace")
	}
}
