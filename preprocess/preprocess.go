// Copyright 2026 Preflight Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package preprocess provides the public API of the preprocessing engine:
// build an operator pipeline from a declarative configuration, run it over a
// batch of images, and get back one model-ready batch tensor.
//
// Example:
//
//	p, err := preprocess.NewFromFile("inference_cls.yaml")
//	if err != nil { ... }
//	out, err := p.Run([]*vision.Image{img})
package preprocess

import (
	"github.com/preflight-ml/preflight/internal/pipeline"
)

// Preprocessor turns a transform configuration into an executable operator
// sequence and applies it to image batches.
type Preprocessor = pipeline.Preprocessor

// NewFromFile creates a Preprocessor from a YAML configuration file.
// Administrative rebuilds re-read the file.
func NewFromFile(path string) (*Preprocessor, error) {
	return pipeline.NewFromFile(path)
}

// NewFromBytes creates a Preprocessor from an in-memory YAML configuration.
func NewFromBytes(data []byte) (*Preprocessor, error) {
	return pipeline.NewFromBytes(data)
}

// Build-time failures. Construction aborts entirely on any of these.
var (
	ErrConfigLoad          = pipeline.ErrConfigLoad
	ErrConfigSchema        = pipeline.ErrConfigSchema
	ErrUnsupportedOperator = pipeline.ErrUnsupportedOperator
	ErrParameterConstraint = pipeline.ErrParameterConstraint
)

// Execution-time failures. They abort the current batch call only.
var (
	ErrEmptyBatch     = pipeline.ErrEmptyBatch
	ErrNotInitialized = pipeline.ErrNotInitialized
)

// OperatorApplyError reports which image and which operator failed.
type OperatorApplyError = pipeline.OperatorApplyError

// ShapeMismatchError reports per-image tensors that cannot be batched.
type ShapeMismatchError = pipeline.ShapeMismatchError
