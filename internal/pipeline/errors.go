package pipeline

import (
	"errors"
	"fmt"

	"github.com/preflight-ml/preflight/internal/tensor"
)

// Build-time failures. All of them abort construction: no partially built
// pipeline is ever usable.
var (
	ErrConfigLoad          = errors.New("config unreadable")
	ErrConfigSchema        = errors.New("config schema violation")
	ErrUnsupportedOperator = errors.New("unsupported preprocess operator")
	ErrParameterConstraint = errors.New("operator parameter constraint violated")
)

// Execution-time failures. They abort the current batch call only; the
// pipeline stays valid for the next call.
var (
	ErrEmptyBatch     = errors.New("batch must contain at least one image")
	ErrNotInitialized = errors.New("preprocessor is not initialized")
)

// OperatorApplyError reports which image and which operator failed during
// batch execution.
type OperatorApplyError struct {
	Index int    // Image index within the batch
	Op    string // Failing operator name
	Err   error
}

// Error implements the error interface.
func (e *OperatorApplyError) Error() string {
	return fmt.Sprintf("failed to process image %d in %s: %v", e.Index, e.Op, e.Err)
}

// Unwrap returns the underlying operator failure.
func (e *OperatorApplyError) Unwrap() error { return e.Err }

// ShapeMismatchError reports per-image tensors that cannot be concatenated
// into one batch tensor.
type ShapeMismatchError struct {
	Index     int // Index of the offending tensor
	Want, Got tensor.Shape
	WantDType tensor.DataType
	GotDType  tensor.DataType
}

// Error implements the error interface.
func (e *ShapeMismatchError) Error() string {
	if e.WantDType != e.GotDType {
		return fmt.Sprintf("cannot batch image %d: dtype %s, expected %s", e.Index, e.GotDType, e.WantDType)
	}
	return fmt.Sprintf("cannot batch image %d: shape %v, expected %v", e.Index, e.Got, e.Want)
}
