package pipeline

import (
	"fmt"
	"math"

	"github.com/preflight-ml/preflight/internal/ops"
)

// Config operator names. This is the closed set the builder accepts; anything
// else fails the whole build.
const (
	cfgResizeImage    = "ResizeImage"
	cfgCropImage      = "CropImage"
	cfgNormalizeImage = "NormalizeImage"
	cfgToCHWImage     = "ToCHWImage"
)

// The pipeline assumes pixel values in [0, 255] before normalization, so the
// configured scale must be 1/255 within tolerance.
const (
	requiredScale  = 1.0 / 255.0
	scaleTolerance = 1e-6
)

// builders maps config operator names to constructor functions.
var builders = map[string]func(params map[string]any) (ops.Operator, error){
	cfgResizeImage:    buildResize,
	cfgCropImage:      buildCrop,
	cfgNormalizeImage: buildNormalize,
	cfgToCHWImage:     buildPermute,
}

// buildOptions are the administrative switches applied on (re)build.
type buildOptions struct {
	disableNormalize bool
	disablePermute   bool
}

// buildSequence turns parsed operator specs into the executable sequence.
// A BGR2RGB conversion is always prepended: the decode path delivers BGR
// frames and everything downstream assumes RGB. The built sequence is run
// through the fusion pass before being returned.
func buildSequence(specs []opSpec, opt buildOptions) ([]ops.Operator, error) {
	seq := make([]ops.Operator, 0, len(specs)+1)
	seq = append(seq, ops.NewBGR2RGB())

	for _, s := range specs {
		build, ok := builders[s.name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperator, s.name)
		}
		if s.name == cfgNormalizeImage && opt.disableNormalize {
			continue
		}
		if s.name == cfgToCHWImage && opt.disablePermute {
			continue
		}
		op, err := build(s.params)
		if err != nil {
			return nil, err
		}
		seq = append(seq, op)
	}

	return fuseTransforms(seq), nil
}

// buildResize constructs ResizeByShort. Interpolation and scale mode are not
// configurable from this surface: bilinear, no raw-scale sizing.
func buildResize(params map[string]any) (ops.Operator, error) {
	target, err := intParam(params, "resize_short", cfgResizeImage)
	if err != nil {
		return nil, err
	}
	if target <= 0 {
		return nil, fmt.Errorf("%w: %s resize_short must be positive, got %d",
			ErrParameterConstraint, cfgResizeImage, target)
	}
	return ops.NewResizeByShort(target, ops.InterpBilinear, false), nil
}

// buildCrop constructs a square CenterCrop.
func buildCrop(params map[string]any) (ops.Operator, error) {
	size, err := intParam(params, "size", cfgCropImage)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: %s size must be positive, got %d",
			ErrParameterConstraint, cfgCropImage, size)
	}
	return ops.NewCenterCrop(size, size), nil
}

// buildNormalize constructs Normalize and enforces the scale contract.
func buildNormalize(params map[string]any) (ops.Operator, error) {
	mean, err := floatListParam(params, "mean", cfgNormalizeImage)
	if err != nil {
		return nil, err
	}
	std, err := floatListParam(params, "std", cfgNormalizeImage)
	if err != nil {
		return nil, err
	}
	scale, err := floatParam(params, "scale", cfgNormalizeImage)
	if err != nil {
		return nil, err
	}
	if math.Abs(float64(scale)-requiredScale) > scaleTolerance {
		return nil, fmt.Errorf("%w: %s scale must be 1/255 (pixels in [0, 255]), got %v",
			ErrParameterConstraint, cfgNormalizeImage, scale)
	}

	op, err := ops.NewNormalize(mean, std, scale)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParameterConstraint, err)
	}
	return op, nil
}

// buildPermute constructs the layout permute; it takes no parameters.
func buildPermute(map[string]any) (ops.Operator, error) {
	return ops.NewHWC2CHW(), nil
}
