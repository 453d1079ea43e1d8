package tensor

import (
	"fmt"
	"unsafe"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// HostDeviceID tags tensors whose memory was produced by the host path.
const HostDeviceID = -1

// RawTensor is the low-level tensor representation: a typed, shaped,
// device-tagged byte buffer.
type RawTensor struct {
	data     []byte
	shape    Shape
	stride   []int
	dtype    DataType
	device   Device
	deviceID int
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	byteSize := shape.NumElements() * dtype.Size()

	return &RawTensor{
		data:     make([]byte, byteSize),
		shape:    shape.Clone(),
		stride:   shape.ComputeStrides(),
		dtype:    dtype,
		device:   device,
		deviceID: HostDeviceID,
	}, nil
}

// Adopt wraps an existing byte buffer as a RawTensor without copying.
// The tensor becomes the sole owner of the buffer; the caller must not
// keep using it. The buffer length must match shape and dtype exactly.
func Adopt(data []byte, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	want := shape.NumElements() * dtype.Size()
	if len(data) != want {
		return nil, fmt.Errorf("buffer size %d does not match shape %v of dtype %s (want %d)",
			len(data), shape, dtype, want)
	}

	return &RawTensor{
		data:     data,
		shape:    shape.Clone(),
		stride:   shape.ComputeStrides(),
		dtype:    dtype,
		device:   device,
		deviceID: HostDeviceID,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// DeviceID returns the device ordinal the tensor is tagged with.
// HostDeviceID marks host memory with no accelerator affinity.
func (r *RawTensor) DeviceID() int {
	return r.deviceID
}

// SetDeviceID tags the tensor with a device ordinal.
func (r *RawTensor) SetDeviceID(id int) {
	r.deviceID = id
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.data
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsUint8 interprets the data as []uint8.
// Panics if the tensor's dtype is not Uint8.
func (r *RawTensor) AsUint8() []uint8 {
	if r.dtype != Uint8 {
		panic(fmt.Sprintf("tensor dtype is %s, not uint8", r.dtype))
	}
	return r.data // Already []byte = []uint8
}

// ExpandDim inserts a dimension of size 1 at the given axis.
// This is a metadata-only operation; the buffer is untouched.
func (r *RawTensor) ExpandDim(axis int) {
	ndim := len(r.shape)
	if axis < 0 || axis > ndim {
		panic(fmt.Sprintf("expand dim: axis %d out of range for %dD tensor (valid: [0, %d])", axis, ndim, ndim))
	}

	newShape := make(Shape, 0, ndim+1)
	newShape = append(newShape, r.shape[:axis]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, r.shape[axis:]...)

	r.shape = newShape
	r.stride = newShape.ComputeStrides()
}
