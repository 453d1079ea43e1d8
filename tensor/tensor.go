// Copyright 2026 Preflight Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the tensors produced by the
// preprocessing engine.
//
// The package defines the core types:
//   - RawTensor: a typed, shaped, device-tagged buffer
//   - Shape, DataType, Device: core type definitions
//
// Example:
//
//	t, err := tensor.NewRaw(tensor.Shape{1, 3, 224, 224}, tensor.Float32, tensor.CPU)
package tensor

import (
	"github.com/preflight-ml/preflight/internal/tensor"
)

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	WebGPU Device = tensor.WebGPU
)

// HostDeviceID tags tensors whose memory was produced by the host path.
const HostDeviceID = tensor.HostDeviceID

// Shape represents the dimensions of a tensor.
// Example: Shape{1, 3, 224, 224} is a batched CHW image tensor.
type Shape = tensor.Shape

// RawTensor is a typed, shaped, device-tagged buffer.
type RawTensor = tensor.RawTensor

// NewRaw creates a new zero-initialized tensor with the given shape and dtype.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Adopt wraps an existing byte buffer as a tensor without copying.
// The tensor becomes the sole owner of the buffer.
func Adopt(data []byte, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.Adopt(data, shape, dtype, device)
}
