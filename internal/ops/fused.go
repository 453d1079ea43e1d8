package ops

import (
	"fmt"

	"github.com/preflight-ml/preflight/internal/parallel"
	"github.com/preflight-ml/preflight/internal/tensor"
	"github.com/preflight-ml/preflight/internal/vision"
)

// NormalizeAndPermute fuses Normalize and HWC2CHW into a single memory pass.
// It is produced only by the fusion pass and is the one operator eligible for
// the accelerated device path.
type NormalizeAndPermute struct {
	Mean  []float32
	Std   []float32
	Scale float32

	alpha []float32
	beta  []float32
	par   parallel.Config
}

// NewNormalizeAndPermute fuses the parameters of a Normalize operator with a
// following layout permute.
func NewNormalizeAndPermute(mean, std []float32, scale float32) (*NormalizeAndPermute, error) {
	n, err := NewNormalize(mean, std, scale)
	if err != nil {
		return nil, err
	}
	return &NormalizeAndPermute{
		Mean:  n.Mean,
		Std:   n.Std,
		Scale: n.Scale,
		alpha: n.alpha,
		beta:  n.beta,
		par:   parallel.DefaultConfig(),
	}, nil
}

// Name returns the operator name.
func (*NormalizeAndPermute) Name() string { return NameNormalizeAndPermute }

func (f *NormalizeAndPermute) check(m *vision.Image) error {
	if m.Layout() != vision.HWC {
		return fmt.Errorf("%s: requires HWC layout, got %s", NameNormalizeAndPermute, m.Layout())
	}
	if m.Channels() != len(f.alpha) {
		return fmt.Errorf("%s: image has %d channels, operator configured for %d",
			NameNormalizeAndPermute, m.Channels(), len(f.alpha))
	}
	return nil
}

// Apply normalizes and permutes on the host in one pass over the pixels.
func (f *NormalizeAndPermute) Apply(m *vision.Image) error {
	if err := f.check(m); err != nil {
		return err
	}

	w, h, c := m.Width(), m.Height(), m.Channels()
	plane := w * h
	out := make([]float32, plane*c)

	switch m.DType() {
	case tensor.Uint8:
		src := m.AsUint8()
		parallel.ForRows(h, func(y int) {
			for x := 0; x < w; x++ {
				p := y*w + x
				for k := 0; k < c; k++ {
					out[k*plane+p] = float32(src[p*c+k])*f.alpha[k] + f.beta[k]
				}
			}
		}, f.par)
	case tensor.Float32:
		src := m.AsFloat32()
		parallel.ForRows(h, func(y int) {
			for x := 0; x < w; x++ {
				p := y*w + x
				for k := 0; k < c; k++ {
					out[k*plane+p] = src[p*c+k]*f.alpha[k] + f.beta[k]
				}
			}
		}, f.par)
	default:
		return fmt.Errorf("%s: unsupported dtype %s", NameNormalizeAndPermute, m.DType())
	}

	return m.Update(float32Bytes(out), w, h, c, tensor.Float32, m.Order(), vision.CHW)
}

// ApplyAccelerated runs the fused pass on the device. The device kernel
// consumes interleaved uint8 pixels; any other input falls back to the host
// path, which is semantically identical.
func (f *NormalizeAndPermute) ApplyAccelerated(m *vision.Image, dev Device) error {
	if err := f.check(m); err != nil {
		return err
	}
	if m.DType() != tensor.Uint8 || dev == nil {
		return f.Apply(m)
	}

	out, err := dev.NormalizePermute(m.AsUint8(), m.Width(), m.Height(), m.Channels(), f.alpha, f.beta)
	if err != nil {
		return fmt.Errorf("%s: device dispatch: %w", NameNormalizeAndPermute, err)
	}
	return m.Update(out, m.Width(), m.Height(), m.Channels(), tensor.Float32, m.Order(), vision.CHW)
}
