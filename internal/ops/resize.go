package ops

import (
	"fmt"
	"math"

	"github.com/preflight-ml/preflight/internal/parallel"
	"github.com/preflight-ml/preflight/internal/tensor"
	"github.com/preflight-ml/preflight/internal/vision"
)

// Interpolation modes for ResizeByShort.
const (
	InterpNearest  = 0
	InterpBilinear = 1
)

// ResizeByShort scales an image so its shorter side becomes Target pixels,
// preserving the aspect ratio.
type ResizeByShort struct {
	Target   int
	Interp   int
	UseScale bool

	par parallel.Config
}

// NewResizeByShort creates the resize operator. When useScale is false the
// shorter side is pinned to exactly target; when true both output dimensions
// are derived from the raw scale factor by rounding.
func NewResizeByShort(target, interp int, useScale bool) *ResizeByShort {
	return &ResizeByShort{
		Target:   target,
		Interp:   interp,
		UseScale: useScale,
		par:      parallel.DefaultConfig(),
	}
}

// Name returns the operator name.
func (*ResizeByShort) Name() string { return NameResizeByShort }

// OutputSize reports the dimensions the operator would produce for an input.
func (r *ResizeByShort) OutputSize(width, height int) (int, int) {
	short := min(width, height)
	scale := float64(r.Target) / float64(short)
	outW := int(math.Round(float64(width) * scale))
	outH := int(math.Round(float64(height) * scale))
	if !r.UseScale {
		if width <= height {
			outW = r.Target
		} else {
			outH = r.Target
		}
	}
	return outW, outH
}

// Apply resizes the image in place, replacing its buffer.
func (r *ResizeByShort) Apply(m *vision.Image) error {
	if m.Layout() != vision.HWC {
		return fmt.Errorf("%s: requires HWC layout, got %s", NameResizeByShort, m.Layout())
	}
	if r.Target <= 0 {
		return fmt.Errorf("%s: target size must be positive, got %d", NameResizeByShort, r.Target)
	}

	outW, outH := r.OutputSize(m.Width(), m.Height())
	if outW == m.Width() && outH == m.Height() {
		return nil
	}

	c := m.Channels()
	switch m.DType() {
	case tensor.Uint8:
		out := resample(m.AsUint8(), m.Width(), m.Height(), c, outW, outH, r.Interp, r.par)
		return m.Update(out, outW, outH, c, tensor.Uint8, m.Order(), vision.HWC)
	case tensor.Float32:
		out := resample(m.AsFloat32(), m.Width(), m.Height(), c, outW, outH, r.Interp, r.par)
		return m.Update(float32Bytes(out), outW, outH, c, tensor.Float32, m.Order(), vision.HWC)
	default:
		return fmt.Errorf("%s: unsupported dtype %s", NameResizeByShort, m.DType())
	}
}

func resample[T uint8 | float32](src []T, w, h, c, outW, outH, interp int, par parallel.Config) []T {
	dst := make([]T, outW*outH*c)
	scaleX := float64(w) / float64(outW)
	scaleY := float64(h) / float64(outH)

	if interp == InterpNearest {
		parallel.ForRows(outH, func(oy int) {
			sy := min(int(float64(oy)*scaleY), h-1)
			for ox := 0; ox < outW; ox++ {
				sx := min(int(float64(ox)*scaleX), w-1)
				copy(dst[(oy*outW+ox)*c:(oy*outW+ox+1)*c], src[(sy*w+sx)*c:(sy*w+sx+1)*c])
			}
		}, par)
		return dst
	}

	// Bilinear with half-pixel centers.
	parallel.ForRows(outH, func(oy int) {
		fy := (float64(oy)+0.5)*scaleY - 0.5
		y0 := int(math.Floor(fy))
		wy := fy - float64(y0)
		y1 := y0 + 1
		y0 = clampInt(y0, 0, h-1)
		y1 = clampInt(y1, 0, h-1)

		for ox := 0; ox < outW; ox++ {
			fx := (float64(ox)+0.5)*scaleX - 0.5
			x0 := int(math.Floor(fx))
			wx := fx - float64(x0)
			x1 := x0 + 1
			x0 = clampInt(x0, 0, w-1)
			x1 = clampInt(x1, 0, w-1)

			for k := 0; k < c; k++ {
				v00 := float64(src[(y0*w+x0)*c+k])
				v01 := float64(src[(y0*w+x1)*c+k])
				v10 := float64(src[(y1*w+x0)*c+k])
				v11 := float64(src[(y1*w+x1)*c+k])
				top := v00 + (v01-v00)*wx
				bot := v10 + (v11-v10)*wx
				v := top + (bot-top)*wy
				dst[(oy*outW+ox)*c+k] = roundTo[T](v)
			}
		}
	}, par)
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundTo rounds for integer pixel types and truncates nothing for floats.
func roundTo[T uint8 | float32](v float64) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(clampInt(int(math.Round(v)), 0, 255))
	default:
		return T(v)
	}
}
