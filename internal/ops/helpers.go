package ops

import "unsafe"

// float32Bytes reinterprets a float32 slice as its raw bytes without copying.
func float32Bytes(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation of a kernel output buffer
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}
