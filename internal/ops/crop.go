package ops

import (
	"fmt"

	"github.com/preflight-ml/preflight/internal/vision"
)

// CenterCrop cuts a Width x Height window centered on the image.
type CenterCrop struct {
	Width  int
	Height int
}

// NewCenterCrop creates the crop operator.
func NewCenterCrop(width, height int) *CenterCrop {
	return &CenterCrop{Width: width, Height: height}
}

// Name returns the operator name.
func (*CenterCrop) Name() string { return NameCenterCrop }

// Apply replaces the image buffer with the cropped window.
func (cc *CenterCrop) Apply(m *vision.Image) error {
	if m.Layout() != vision.HWC {
		return fmt.Errorf("%s: requires HWC layout, got %s", NameCenterCrop, m.Layout())
	}
	if cc.Width <= 0 || cc.Height <= 0 {
		return fmt.Errorf("%s: invalid crop size %dx%d", NameCenterCrop, cc.Width, cc.Height)
	}
	if cc.Width > m.Width() || cc.Height > m.Height() {
		return fmt.Errorf("%s: crop %dx%d exceeds image %dx%d",
			NameCenterCrop, cc.Width, cc.Height, m.Width(), m.Height())
	}

	elem := m.DType().Size()
	c := m.Channels()
	srcRow := m.Width() * c * elem
	dstRow := cc.Width * c * elem
	offX := (m.Width() - cc.Width) / 2
	offY := (m.Height() - cc.Height) / 2

	src := m.Data()
	dst := make([]byte, cc.Height*dstRow)
	for y := 0; y < cc.Height; y++ {
		start := (offY+y)*srcRow + offX*c*elem
		copy(dst[y*dstRow:(y+1)*dstRow], src[start:start+dstRow])
	}

	return m.Update(dst, cc.Width, cc.Height, c, m.DType(), m.Order(), vision.HWC)
}
