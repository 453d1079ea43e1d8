// Copyright 2026 Preflight Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package vision provides the public API for the images consumed by the
// preprocessing engine.
//
// Images are mutated in place by the pipeline's operators and their pixel
// buffers are consumed by the output batch tensor.
//
// Example:
//
//	img, err := vision.NewBGR(pixels, 640, 480, 3)
package vision

import (
	"github.com/preflight-ml/preflight/internal/vision"
)

// ChannelOrder describes the order of color channels in a pixel buffer.
type ChannelOrder = vision.ChannelOrder

// Channel order constants. Decoded frames arrive as BGR.
const (
	BGR ChannelOrder = vision.BGR
	RGB ChannelOrder = vision.RGB
)

// Layout describes the memory layout of a pixel buffer.
type Layout = vision.Layout

// Layout constants. Decoded frames arrive as HWC (interleaved).
const (
	HWC Layout = vision.HWC
	CHW Layout = vision.CHW
)

// Image owns a raw pixel buffer with its dimensions, channel order, layout
// and element type.
type Image = vision.Image

// NewBGR wraps an interleaved uint8 BGR pixel buffer as an Image.
// The image takes ownership of the buffer.
func NewBGR(data []uint8, width, height, channels int) (*Image, error) {
	return vision.NewBGR(data, width, height, channels)
}
