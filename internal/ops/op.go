// Package ops implements the transform operators composed into a
// preprocessing pipeline. Every operator mutates an image in place and may
// change its dimensions, element type, channel order or layout.
package ops

import (
	"github.com/preflight-ml/preflight/internal/vision"
)

// Operator names as reported by Name(). The fusion pass and the executor
// match on these.
const (
	NameBGR2RGB             = "BGR2RGB"
	NameResizeByShort       = "ResizeByShort"
	NameCenterCrop          = "CenterCrop"
	NameNormalize           = "Normalize"
	NameHWC2CHW             = "HWC2CHW"
	NameNormalizeAndPermute = "NormalizeAndPermute"
)

// Operator is a single named transformation step applied to one image.
type Operator interface {
	Name() string
	Apply(m *vision.Image) error
}

// Device abstracts the accelerated runtime an operator can dispatch to.
// The only kernel offloaded in this design is the fused normalize+permute
// pass; it consumes interleaved uint8 pixels and yields raw float32 CHW bytes.
type Device interface {
	NormalizePermute(pixels []uint8, width, height, channels int, alpha, beta []float32) ([]byte, error)
}

// Accelerated is implemented by operators that carry a device code path in
// addition to the required host path.
type Accelerated interface {
	Operator
	ApplyAccelerated(m *vision.Image, dev Device) error
}
