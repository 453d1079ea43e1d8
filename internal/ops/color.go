package ops

import (
	"fmt"

	"github.com/preflight-ml/preflight/internal/tensor"
	"github.com/preflight-ml/preflight/internal/vision"
)

// BGR2RGB swaps the first and third channel of an interleaved 3-channel
// image in place. The decode path delivers BGR; everything downstream
// assumes RGB.
type BGR2RGB struct{}

// NewBGR2RGB creates the color conversion operator.
func NewBGR2RGB() *BGR2RGB {
	return &BGR2RGB{}
}

// Name returns the operator name.
func (*BGR2RGB) Name() string { return NameBGR2RGB }

// Apply swaps channels 0 and 2 of every pixel.
func (*BGR2RGB) Apply(m *vision.Image) error {
	if m.Layout() != vision.HWC {
		return fmt.Errorf("%s: requires HWC layout, got %s", NameBGR2RGB, m.Layout())
	}
	if m.Channels() != 3 {
		return fmt.Errorf("%s: requires 3 channels, got %d", NameBGR2RGB, m.Channels())
	}
	if m.Order() != vision.BGR {
		return fmt.Errorf("%s: requires BGR input, got %s", NameBGR2RGB, m.Order())
	}

	switch m.DType() {
	case tensor.Uint8:
		swapChannels02(m.AsUint8())
	case tensor.Float32:
		swapChannels02(m.AsFloat32())
	default:
		return fmt.Errorf("%s: unsupported dtype %s", NameBGR2RGB, m.DType())
	}

	m.SetOrder(vision.RGB)
	return nil
}

func swapChannels02[T uint8 | float32](px []T) {
	for i := 0; i+2 < len(px); i += 3 {
		px[i], px[i+2] = px[i+2], px[i]
	}
}
