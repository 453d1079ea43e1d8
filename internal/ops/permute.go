package ops

import (
	"fmt"

	"github.com/preflight-ml/preflight/internal/tensor"
	"github.com/preflight-ml/preflight/internal/vision"
)

// HWC2CHW rewrites an interleaved image into planar channel-first layout.
type HWC2CHW struct{}

// NewHWC2CHW creates the layout permute operator.
func NewHWC2CHW() *HWC2CHW {
	return &HWC2CHW{}
}

// Name returns the operator name.
func (*HWC2CHW) Name() string { return NameHWC2CHW }

// Apply replaces the buffer with its CHW permutation.
func (*HWC2CHW) Apply(m *vision.Image) error {
	if m.Layout() != vision.HWC {
		return fmt.Errorf("%s: requires HWC layout, got %s", NameHWC2CHW, m.Layout())
	}

	w, h, c := m.Width(), m.Height(), m.Channels()
	switch m.DType() {
	case tensor.Uint8:
		out := permuteHWC2CHW(m.AsUint8(), w, h, c)
		return m.Update(out, w, h, c, tensor.Uint8, m.Order(), vision.CHW)
	case tensor.Float32:
		out := permuteHWC2CHW(m.AsFloat32(), w, h, c)
		return m.Update(float32Bytes(out), w, h, c, tensor.Float32, m.Order(), vision.CHW)
	default:
		return fmt.Errorf("%s: unsupported dtype %s", NameHWC2CHW, m.DType())
	}
}

func permuteHWC2CHW[T uint8 | float32](src []T, w, h, c int) []T {
	dst := make([]T, len(src))
	plane := w * h
	for p := 0; p < plane; p++ {
		for k := 0; k < c; k++ {
			dst[k*plane+p] = src[p*c+k]
		}
	}
	return dst
}
