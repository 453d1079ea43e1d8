package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preflight-ml/preflight/internal/tensor"
	"github.com/preflight-ml/preflight/internal/vision"
)

func TestBGR2RGBSwapsChannels(t *testing.T) {
	// Two pixels: (B=1, G=2, R=3) and (B=10, G=20, R=30).
	img, err := vision.NewBGR([]uint8{1, 2, 3, 10, 20, 30}, 2, 1, 3)
	require.NoError(t, err)

	require.NoError(t, NewBGR2RGB().Apply(img))

	assert.Equal(t, []uint8{3, 2, 1, 30, 20, 10}, img.AsUint8())
	assert.Equal(t, vision.RGB, img.Order())
}

func TestBGR2RGBRejectsNonBGR(t *testing.T) {
	img, err := vision.New(make([]byte, 6), 2, 1, 3, tensor.Uint8, vision.RGB, vision.HWC)
	require.NoError(t, err)

	assert.Error(t, NewBGR2RGB().Apply(img), "already RGB")

	gray, err := vision.New(make([]byte, 2), 2, 1, 1, tensor.Uint8, vision.BGR, vision.HWC)
	require.NoError(t, err)
	assert.Error(t, NewBGR2RGB().Apply(gray), "needs 3 channels")
}

func TestCenterCrop(t *testing.T) {
	// 4x4 single-channel frame with v(x, y) = y*4 + x.
	src := make([]byte, 16)
	for i := range src {
		src[i] = byte(i)
	}
	img, err := vision.New(src, 4, 4, 1, tensor.Uint8, vision.RGB, vision.HWC)
	require.NoError(t, err)

	require.NoError(t, NewCenterCrop(2, 2).Apply(img))

	assert.Equal(t, 2, img.Width())
	assert.Equal(t, 2, img.Height())
	assert.Equal(t, []uint8{5, 6, 9, 10}, img.AsUint8())
}

func TestCenterCropLargerThanImageFails(t *testing.T) {
	img, err := vision.NewBGR(make([]uint8, 2*2*3), 2, 2, 3)
	require.NoError(t, err)

	assert.Error(t, NewCenterCrop(4, 4).Apply(img))
}

func TestHWC2CHW(t *testing.T) {
	// 2x1 3-channel frame: pixel 0 = (1, 2, 3), pixel 1 = (4, 5, 6).
	img, err := vision.New([]byte{1, 2, 3, 4, 5, 6}, 2, 1, 3, tensor.Uint8, vision.RGB, vision.HWC)
	require.NoError(t, err)

	require.NoError(t, NewHWC2CHW().Apply(img))

	assert.Equal(t, vision.CHW, img.Layout())
	assert.Equal(t, []uint8{1, 4, 2, 5, 3, 6}, img.AsUint8())
}

func TestHWC2CHWRejectsCHWInput(t *testing.T) {
	img, err := vision.New(make([]byte, 6), 2, 1, 3, tensor.Uint8, vision.RGB, vision.CHW)
	require.NoError(t, err)

	assert.Error(t, NewHWC2CHW().Apply(img))
}
