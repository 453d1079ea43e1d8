// Package cpu implements the host backend used to assemble batch tensors.
package cpu

import (
	"fmt"

	"github.com/preflight-ml/preflight/internal/tensor"
)

// Backend implements tensor assembly operations on the host.
type Backend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *Backend {
	return &Backend{device: tensor.CPU}
}

// Name returns the backend name.
func (cpu *Backend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *Backend) Device() tensor.Device {
	return cpu.device
}

// Cat concatenates contiguous row-major tensors along the batch axis (dim 0).
// All tensors must agree on dtype and on every non-batch dimension; callers
// are expected to validate shapes beforehand, so violations panic.
func (cpu *Backend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}
	if dim != 0 {
		panic(fmt.Sprintf("cat: only batch-axis concatenation is supported, got dim %d", dim))
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()

	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
		for d := 1; d < ndim; d++ {
			if tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d]))
			}
		}
		totalDim += tShape[0]
	}

	outShape := shape.Clone()
	outShape[0] = totalDim

	result, err := tensor.NewRaw(outShape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	// Batch-axis concat of contiguous tensors is a straight byte copy.
	out := result.Data()
	offset := 0
	for _, t := range tensors {
		offset += copy(out[offset:], t.Data())
	}

	return result
}
