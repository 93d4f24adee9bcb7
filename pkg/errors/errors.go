// Package errors provides the boosting engine's error taxonomy and a
// package-level warning hook, wrapping github.com/cockroachdb/errors for
// stack traces and github.com/rs/zerolog for structured error logging.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("boosting: warning: %v\n", w)
	}
	zerologWarnFunc func(warning error)
)

// SetWarningHandler installs a handler for non-fatal conditions raised via
// Warn, replacing the default stderr logger.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc routes warnings through a zerolog sink instead of the
// plain handler. Kept separate from SetWarningHandler to avoid an import
// cycle between this package and pkg/log.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn reports a non-fatal condition. Training continues after a Warn call;
// Warn is for things like a feature with zero variance producing no
// candidate split, not for conditions that abort the run.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ConvergenceWarning reports that training finished without the condition an
// optimization loop usually stops on (e.g. several consecutive boosting
// rounds each produced a single-leaf tree).
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s: %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s: no improvement found over %d iterations", w.Algorithm, w.Iterations)
}

func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// ConfigurationInvalidError reports a Config field outside its documented
// domain (e.g. LearningRate <= 0, NBins > 256).
type ConfigurationInvalidError struct {
	Field  string
	Reason string
	Value  interface{}
}

func (e *ConfigurationInvalidError) Error() string {
	return fmt.Sprintf("boosting: invalid config field %q: %s (got: %v)", e.Field, e.Reason, e.Value)
}

func (e *ConfigurationInvalidError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("field", e.Field).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigurationInvalidError")
}

func NewConfigurationInvalidError(field, reason string, value interface{}) error {
	return errors.WithStack(&ConfigurationInvalidError{Field: field, Reason: reason, Value: value})
}

// DataShapeMismatchError reports an array/matrix dimension that does not
// agree with what an operation expects, e.g. a label vector whose length
// does not match the number of rows.
type DataShapeMismatchError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DataShapeMismatchError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("boosting: %s: dimension mismatch on axis %d (%s): expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

func (e *DataShapeMismatchError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DataShapeMismatchError")
}

func NewDataShapeMismatchError(op string, expected, got, axis int) error {
	return errors.WithStack(&DataShapeMismatchError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// DataParseFailureError reports a row that could not be parsed while reading
// a CSV source into a DataMatrix.
type DataParseFailureError struct {
	Source string
	Line   int
	Reason string
}

func (e *DataParseFailureError) Error() string {
	return fmt.Sprintf("boosting: %s: line %d: %s", e.Source, e.Line, e.Reason)
}

func (e *DataParseFailureError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).
		Int("line", e.Line).
		Str("reason", e.Reason).
		Str("type", "DataParseFailureError")
}

func NewDataParseFailureError(source string, line int, reason string) error {
	return errors.WithStack(&DataParseFailureError{Source: source, Line: line, Reason: reason})
}

// ModelNotTrainedError reports Predict called on a GBDT that has no fitted
// bins, i.e. one that was neither trained nor loaded.
type ModelNotTrainedError struct {
	Method string
}

func (e *ModelNotTrainedError) Error() string {
	return fmt.Sprintf("boosting: model is not trained yet; call Train() before %s()", e.Method)
}

func (e *ModelNotTrainedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("method", e.Method).Str("type", "ModelNotTrainedError")
}

func NewModelNotTrainedError(method string) error {
	return errors.WithStack(&ModelNotTrainedError{Method: method})
}

// ModelFormatInvalidError reports a serialized model file that is not valid
// JSON for the shape it claims to be, or is missing a required field.
type ModelFormatInvalidError struct {
	Format       string // "native" or "compat"
	MissingField string
}

func (e *ModelFormatInvalidError) Error() string {
	if e.MissingField != "" {
		return fmt.Sprintf("boosting: invalid %s model format: missing field %q", e.Format, e.MissingField)
	}
	return fmt.Sprintf("boosting: invalid %s model format", e.Format)
}

func (e *ModelFormatInvalidError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("format", e.Format).
		Str("missing_field", e.MissingField).
		Str("type", "ModelFormatInvalidError")
}

func NewModelFormatInvalidError(format, missingField string) error {
	return errors.WithStack(&ModelFormatInvalidError{Format: format, MissingField: missingField})
}

// IOFailureError wraps an underlying filesystem error encountered while
// loading or saving a model.
type IOFailureError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOFailureError) Error() string {
	return fmt.Sprintf("boosting: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOFailureError) Unwrap() error {
	return e.Err
}

func (e *IOFailureError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("path", e.Path).
		AnErr("cause", e.Err).
		Str("type", "IOFailureError")
}

func NewIOFailureError(op, path string, err error) error {
	return errors.WithStack(&IOFailureError{Op: op, Path: path, Err: err})
}

// Is reports whether err is, or wraps, target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain matching target's type.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Wrap annotates err with a message, preserving the chain.
func Wrap(err error, message string) error { return errors.Wrap(err, message) }

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error { return errors.Wrapf(err, format, args...) }

// New creates an error with a stack trace attached.
func New(message string) error { return errors.New(message) }

// Newf creates a formatted error with a stack trace attached.
func Newf(format string, args ...interface{}) error { return errors.Newf(format, args...) }

// WithStack attaches a stack trace to err if it doesn't already carry one.
func WithStack(err error) error { return errors.WithStack(err) }

var (
	// ErrEmptyData is returned when an operation receives a DataMatrix with
	// zero rows.
	ErrEmptyData = New("empty data")
)
