package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
)

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached in the Backend's shaders map.
func (b *Backend) compileShader(name, code string) *wgpu.ShaderModule {
	b.mu.RLock()
	if shader, exists := b.shaders[name]; exists {
		b.mu.RUnlock()
		return shader
	}
	b.mu.RUnlock()

	shader := b.device.CreateShaderModuleWGSL(code)

	b.mu.Lock()
	b.shaders[name] = shader
	b.mu.Unlock()

	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates a new one.
func (b *Backend) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	b.mu.RLock()
	if pipeline, exists := b.pipelines[name]; exists {
		b.mu.RUnlock()
		return pipeline
	}
	b.mu.RUnlock()

	pipeline := b.device.CreateComputePipelineSimple(nil, shader, "main")

	b.mu.Lock()
	b.pipelines[name] = pipeline
	b.mu.Unlock()

	return pipeline
}

// createBuffer creates a GPU buffer and uploads initial data.
func (b *Backend) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// createUniformBuffer creates a uniform buffer with proper alignment.
// Uniform buffers require 16-byte alignment for struct fields.
func (b *Backend) createUniformBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	alignedSize := (size + 15) &^ 15 // Round up to 16-byte boundary

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), alignedSize)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// readBuffer reads data back from a GPU buffer to CPU memory.
// Uses a staging buffer since storage buffers can't be mapped directly.
func (b *Backend) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	stagingBuffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer stagingBuffer.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, stagingBuffer, 0, size)
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	err := stagingBuffer.MapAsync(b.device, wgpu.MapModeRead, 0, size)
	if err != nil {
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}

	mappedPtr := stagingBuffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)

	stagingBuffer.Unmap()

	return result, nil
}

// NormalizePermute runs the fused normalize+permute kernel on the device.
// pixels is interleaved uint8 HWC data; the result is raw float32 CHW bytes.
// The shader packs parameters into vec4s, so at most 4 channels are supported.
func (b *Backend) NormalizePermute(pixels []uint8, width, height, channels int, alpha, beta []float32) ([]byte, error) {
	if channels < 1 || channels > 4 {
		return nil, fmt.Errorf("webgpu: normalize+permute supports 1-4 channels, got %d", channels)
	}
	if len(alpha) != channels || len(beta) != channels {
		return nil, fmt.Errorf("webgpu: alpha/beta length %d/%d does not match %d channels",
			len(alpha), len(beta), channels)
	}
	n := width * height * channels
	if len(pixels) != n {
		return nil, fmt.Errorf("webgpu: pixel buffer size %d does not match %dx%dx%d", len(pixels), width, height, channels)
	}

	shader := b.compileShader("normalize_permute", normalizePermuteShader)
	pipeline := b.getOrCreatePipeline("normalize_permute", shader)

	// Pad the byte buffer to a whole number of u32 words for the shader.
	padded := pixels
	if rem := n % 4; rem != 0 {
		padded = make([]byte, n+4-rem)
		copy(padded, pixels)
	}
	bufferSrc := b.createBuffer(padded, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferSrc.Release()

	resultSize := uint64(n) * 4 // float32 per element
	bufferDst := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer bufferDst.Release()

	// Params layout: width, height, channels, pad, alpha vec4, beta vec4.
	params := make([]byte, 48)
	binary.LittleEndian.PutUint32(params[0:4], uint32(width))     //nolint:gosec // G115: dims are validated non-negative
	binary.LittleEndian.PutUint32(params[4:8], uint32(height))    //nolint:gosec // G115
	binary.LittleEndian.PutUint32(params[8:12], uint32(channels)) //nolint:gosec // G115
	for i := 0; i < channels; i++ {
		binary.LittleEndian.PutUint32(params[16+i*4:20+i*4], math.Float32bits(alpha[i]))
		binary.LittleEndian.PutUint32(params[32+i*4:36+i*4], math.Float32bits(beta[i]))
	}
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferSrc, 0, uint64(len(padded))),
		wgpu.BufferBindingEntry(1, bufferDst, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferParams, 0, 48),
	})
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	// One invocation per pixel: ceil(plane / workgroupSize) workgroups.
	plane := width * height
	workgroups := uint32((plane + workgroupSize - 1) / workgroupSize) //nolint:gosec // G115: non-negative
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	return b.readBuffer(bufferDst, resultSize)
}
