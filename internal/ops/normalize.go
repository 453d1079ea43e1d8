package ops

import (
	"fmt"

	"github.com/preflight-ml/preflight/internal/tensor"
	"github.com/preflight-ml/preflight/internal/vision"
)

// Normalize maps pixel values to (x*scale - mean) / std per channel and
// converts the buffer to float32. The division is folded into per-channel
// alpha/beta once at construction: out = x*alpha[c] + beta[c].
type Normalize struct {
	Mean  []float32
	Std   []float32
	Scale float32

	alpha []float32
	beta  []float32
}

// NewNormalize creates the normalize operator from per-channel mean and std
// plus a global scale applied before centering.
func NewNormalize(mean, std []float32, scale float32) (*Normalize, error) {
	if len(mean) == 0 || len(mean) != len(std) {
		return nil, fmt.Errorf("%s: mean and std must be non-empty and equal length, got %d and %d",
			NameNormalize, len(mean), len(std))
	}
	for i, s := range std {
		if s == 0 {
			return nil, fmt.Errorf("%s: std[%d] must be non-zero", NameNormalize, i)
		}
	}

	n := &Normalize{
		Mean:  append([]float32(nil), mean...),
		Std:   append([]float32(nil), std...),
		Scale: scale,
		alpha: make([]float32, len(mean)),
		beta:  make([]float32, len(mean)),
	}
	for i := range mean {
		n.alpha[i] = scale / std[i]
		n.beta[i] = -mean[i] / std[i]
	}
	return n, nil
}

// Name returns the operator name.
func (*Normalize) Name() string { return NameNormalize }

// Apply converts the image to float32 and normalizes every channel in one pass.
func (n *Normalize) Apply(m *vision.Image) error {
	if m.Layout() != vision.HWC {
		return fmt.Errorf("%s: requires HWC layout, got %s", NameNormalize, m.Layout())
	}
	if m.Channels() != len(n.alpha) {
		return fmt.Errorf("%s: image has %d channels, operator configured for %d",
			NameNormalize, m.Channels(), len(n.alpha))
	}

	c := m.Channels()
	out := make([]float32, m.NumElements())

	switch m.DType() {
	case tensor.Uint8:
		src := m.AsUint8()
		for i, v := range src {
			k := i % c
			out[i] = float32(v)*n.alpha[k] + n.beta[k]
		}
	case tensor.Float32:
		src := m.AsFloat32()
		for i, v := range src {
			k := i % c
			out[i] = v*n.alpha[k] + n.beta[k]
		}
	default:
		return fmt.Errorf("%s: unsupported dtype %s", NameNormalize, m.DType())
	}

	return m.Update(float32Bytes(out), m.Width(), m.Height(), c, tensor.Float32, m.Order(), vision.HWC)
}
