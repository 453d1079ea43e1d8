// Package vision provides the in-memory image representation mutated by
// preprocessing operators.
package vision

import (
	"fmt"
	"unsafe"

	"github.com/preflight-ml/preflight/internal/tensor"
)

// ChannelOrder describes the order of color channels in the pixel buffer.
type ChannelOrder int

// Supported channel orders. Decoded frames arrive as BGR.
const (
	BGR ChannelOrder = iota
	RGB
)

// String returns a human-readable channel order name.
func (o ChannelOrder) String() string {
	switch o {
	case BGR:
		return "BGR"
	case RGB:
		return "RGB"
	default:
		return "Unknown"
	}
}

// Layout describes the memory layout of the pixel buffer.
type Layout int

// Supported layouts. Decoded frames arrive as HWC (interleaved).
const (
	HWC Layout = iota
	CHW
)

// String returns a human-readable layout name.
func (l Layout) String() string {
	switch l {
	case HWC:
		return "HWC"
	case CHW:
		return "CHW"
	default:
		return "Unknown"
	}
}

// Image owns a raw pixel buffer together with its interpretation: dimensions,
// channel order, memory layout and element type. Operators mutate it in place
// and may change any of these, including the buffer itself.
type Image struct {
	data     []byte
	width    int
	height   int
	channels int
	order    ChannelOrder
	layout   Layout
	dtype    tensor.DataType
}

// NewBGR wraps an interleaved uint8 BGR pixel buffer as an Image.
// The image takes ownership of the buffer.
func NewBGR(data []uint8, width, height, channels int) (*Image, error) {
	return New(data, width, height, channels, tensor.Uint8, BGR, HWC)
}

// New wraps a pixel buffer as an Image with explicit metadata.
// The buffer length must match the dimensions and element type exactly.
func New(data []byte, width, height, channels int, dtype tensor.DataType, order ChannelOrder, layout Layout) (*Image, error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%dx%d", width, height, channels)
	}
	want := width * height * channels * dtype.Size()
	if len(data) != want {
		return nil, fmt.Errorf("buffer size %d does not match %dx%dx%d %s image (want %d)",
			len(data), width, height, channels, dtype, want)
	}
	return &Image{
		data:     data,
		width:    width,
		height:   height,
		channels: channels,
		order:    order,
		layout:   layout,
		dtype:    dtype,
	}, nil
}

// Width returns the image width in pixels.
func (m *Image) Width() int { return m.width }

// Height returns the image height in pixels.
func (m *Image) Height() int { return m.height }

// Channels returns the number of color channels.
func (m *Image) Channels() int { return m.channels }

// Order returns the channel order of the pixel buffer.
func (m *Image) Order() ChannelOrder { return m.order }

// Layout returns the memory layout of the pixel buffer.
func (m *Image) Layout() Layout { return m.layout }

// DType returns the element type of the pixel buffer.
func (m *Image) DType() tensor.DataType { return m.dtype }

// NumElements returns the total number of elements in the pixel buffer.
func (m *Image) NumElements() int {
	return m.width * m.height * m.channels
}

// Data returns the raw byte buffer.
func (m *Image) Data() []byte { return m.data }

// AsUint8 interprets the pixel buffer as []uint8.
// Panics if the element type is not Uint8.
func (m *Image) AsUint8() []uint8 {
	if m.dtype != tensor.Uint8 {
		panic(fmt.Sprintf("image dtype is %s, not uint8", m.dtype))
	}
	return m.data
}

// AsFloat32 interprets the pixel buffer as []float32.
// Panics if the element type is not Float32.
func (m *Image) AsFloat32() []float32 {
	if m.dtype != tensor.Float32 {
		panic(fmt.Sprintf("image dtype is %s, not float32", m.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&m.data[0])), m.NumElements())
}

// SetOrder records a new channel order after an in-place channel swap.
func (m *Image) SetOrder(order ChannelOrder) { m.order = order }

// Update replaces the pixel buffer and its interpretation after an operator
// produced a new frame. The buffer length must match the new metadata.
func (m *Image) Update(data []byte, width, height, channels int, dtype tensor.DataType, order ChannelOrder, layout Layout) error {
	replaced, err := New(data, width, height, channels, dtype, order, layout)
	if err != nil {
		return err
	}
	*m = *replaced
	return nil
}

// Shape returns the tensor shape implied by the image's layout.
func (m *Image) Shape() tensor.Shape {
	if m.layout == CHW {
		return tensor.Shape{m.channels, m.height, m.width}
	}
	return tensor.Shape{m.height, m.width, m.channels}
}

// ShareWithTensor transfers ownership of the pixel buffer to a new tensor
// without copying. The image's buffer is consumed: after the call the tensor
// is the only owner and the image must not be used again.
func (m *Image) ShareWithTensor() (*tensor.RawTensor, error) {
	if m.data == nil {
		return nil, fmt.Errorf("image buffer already shared")
	}
	t, err := tensor.Adopt(m.data, m.Shape(), m.dtype, tensor.CPU)
	if err != nil {
		return nil, err
	}
	m.data = nil
	return t, nil
}
