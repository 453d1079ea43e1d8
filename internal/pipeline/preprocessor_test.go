package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preflight-ml/preflight/internal/ops"
	"github.com/preflight-ml/preflight/internal/tensor"
	"github.com/preflight-ml/preflight/internal/vision"
)

const permuteOnlyConfig = `
PreProcess:
  transform_ops:
    - ToCHWImage:
`

// uniformBGR builds an interleaved BGR image with every byte set to v.
func uniformBGR(t *testing.T, width, height int, v byte) *vision.Image {
	t.Helper()
	data := make([]byte, width*height*3)
	for i := range data {
		data[i] = v
	}
	img, err := vision.NewBGR(data, width, height, 3)
	require.NoError(t, err)
	return img
}

func TestRunSingleImage(t *testing.T) {
	p, err := NewFromBytes([]byte(clsConfig))
	require.NoError(t, err)

	out, err := p.Run([]*vision.Image{uniformBGR(t, 224, 224, 128)})
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{1, 3, 224, 224}, out.Shape())
	assert.Equal(t, tensor.Float32, out.DType())
	assert.Equal(t, tensor.HostDeviceID, out.DeviceID())
}

func TestRunBatchPreservesOrder(t *testing.T) {
	p, err := NewFromBytes([]byte(permuteOnlyConfig))
	require.NoError(t, err)

	batch := []*vision.Image{
		uniformBGR(t, 2, 2, 10),
		uniformBGR(t, 2, 2, 20),
		uniformBGR(t, 2, 2, 30),
	}
	out, err := p.Run(batch)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{3, 3, 2, 2}, out.Shape())
	assert.Equal(t, tensor.Uint8, out.DType())

	data := out.AsUint8()
	perImage := 3 * 2 * 2
	for i, want := range []uint8{10, 20, 30} {
		for j := 0; j < perImage; j++ {
			require.Equal(t, want, data[i*perImage+j], "image %d element %d", i, j)
		}
	}
}

func TestRunValues(t *testing.T) {
	cfg := `
PreProcess:
  transform_ops:
    - NormalizeImage:
        mean: [0.485, 0.456, 0.406]
        std: [0.229, 0.224, 0.225]
        scale: 0.00392157
    - ToCHWImage:
`
	p, err := NewFromBytes([]byte(cfg))
	require.NoError(t, err)
	require.Equal(t, []string{ops.NameBGR2RGB, ops.NameNormalizeAndPermute}, p.OperatorNames())

	// Two pixels, interleaved BGR: (1,2,3) and (10,20,30).
	img, err := vision.NewBGR([]byte{1, 2, 3, 10, 20, 30}, 2, 1, 3)
	require.NoError(t, err)

	out, err := p.Run([]*vision.Image{img})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 3, 1, 2}, out.Shape())

	mean := []float32{0.485, 0.456, 0.406}
	std := []float32{0.229, 0.224, 0.225}
	ref := func(v uint8, c int) float32 {
		return (float32(v)/255.0 - mean[c]) / std[c]
	}

	// Planar RGB after the color swap: R plane {3, 30}, G {2, 20}, B {1, 10}.
	want := []float32{
		ref(3, 0), ref(30, 0),
		ref(2, 1), ref(20, 1),
		ref(1, 2), ref(10, 2),
	}
	got := out.AsFloat32()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}
}

func TestRunEmptyBatch(t *testing.T) {
	p, err := NewFromBytes([]byte(clsConfig))
	require.NoError(t, err)

	_, err = p.Run(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyBatch), "got %v", err)
}

func TestRunNotInitialized(t *testing.T) {
	var p Preprocessor
	_, err := p.Run([]*vision.Image{uniformBGR(t, 2, 2, 1)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotInitialized), "got %v", err)
}

func TestRunAbortsOnOperatorFailure(t *testing.T) {
	p, err := NewFromBytes([]byte(permuteOnlyConfig))
	require.NoError(t, err)

	gray, err := vision.New(make([]byte, 4), 2, 2, 1, tensor.Uint8, vision.BGR, vision.HWC)
	require.NoError(t, err)
	batch := []*vision.Image{
		uniformBGR(t, 2, 2, 1),
		gray,
		uniformBGR(t, 2, 2, 3),
	}

	_, err = p.Run(batch)
	require.Error(t, err)

	var opErr *OperatorApplyError
	require.True(t, errors.As(err, &opErr), "got %v", err)
	assert.Equal(t, 1, opErr.Index)
	assert.Equal(t, ops.NameBGR2RGB, opErr.Op)
}

func TestRunShapeMismatch(t *testing.T) {
	p, err := NewFromBytes([]byte(permuteOnlyConfig))
	require.NoError(t, err)

	batch := []*vision.Image{
		uniformBGR(t, 2, 2, 1),
		uniformBGR(t, 3, 3, 2),
	}

	_, err = p.Run(batch)
	require.Error(t, err)

	var shapeErr *ShapeMismatchError
	require.True(t, errors.As(err, &shapeErr), "got %v", err)
	assert.Equal(t, 1, shapeErr.Index)
	assert.Equal(t, tensor.Shape{1, 3, 2, 2}, shapeErr.Want)
	assert.Equal(t, tensor.Shape{1, 3, 3, 3}, shapeErr.Got)
}

func TestRebuildRereadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inference_cls.yaml")
	require.NoError(t, os.WriteFile(path, []byte(permuteOnlyConfig), 0o644))

	p, err := NewFromFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{ops.NameBGR2RGB, ops.NameHWC2CHW}, p.OperatorNames())

	// The file changes on disk; the next rebuild must pick it up.
	require.NoError(t, os.WriteFile(path, []byte(clsConfig), 0o644))
	require.NoError(t, p.DisableNormalize())

	assert.Equal(t, []string{
		ops.NameBGR2RGB,
		ops.NameResizeByShort,
		ops.NameCenterCrop,
		ops.NameHWC2CHW,
	}, p.OperatorNames())
}

func TestRunFromFileEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inference_cls.yaml")
	require.NoError(t, os.WriteFile(path, []byte(clsConfig), 0o644))

	p, err := NewFromFile(path)
	require.NoError(t, err)

	batch := []*vision.Image{
		uniformBGR(t, 300, 400, 50),
		uniformBGR(t, 640, 480, 90),
	}
	out, err := p.Run(batch)
	require.NoError(t, err)

	// Different input sizes converge to the crop size.
	assert.Equal(t, tensor.Shape{2, 3, 224, 224}, out.Shape())
	assert.Equal(t, tensor.Float32, out.DType())
}
