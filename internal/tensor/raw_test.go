package tensor

import (
	"testing"
)

func TestNewRawAllTypes(t *testing.T) {
	types := []struct {
		dtype       DataType
		elementSize int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int32, 4},
		{Int64, 8},
		{Uint8, 1},
	}

	shape := Shape{2, 3}
	for _, tt := range types {
		raw, err := NewRaw(shape, tt.dtype, CPU)
		if err != nil {
			t.Fatalf("NewRaw(%v, %v) failed: %v", shape, tt.dtype, err)
		}

		if raw.DType() != tt.dtype {
			t.Errorf("DType = %v, want %v", raw.DType(), tt.dtype)
		}

		expectedByteSize := 6 * tt.elementSize // 2*3 elements
		if raw.ByteSize() != expectedByteSize {
			t.Errorf("ByteSize = %d, want %d for type %v", raw.ByteSize(), expectedByteSize, tt.dtype)
		}
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	invalidShapes := []Shape{
		{0},
		{-1},
		{2, 0},
		{2, -3},
	}

	for _, shape := range invalidShapes {
		_, err := NewRaw(shape, Float32, CPU)
		if err == nil {
			t.Errorf("NewRaw(%v) should fail but didn't", shape)
		}
	}
}

func TestRawTensorAsFloat32(t *testing.T) {
	raw, _ := NewRaw(Shape{3, 2}, Float32, CPU)
	data := raw.AsFloat32()

	if len(data) != 6 {
		t.Errorf("AsFloat32 length = %d, want 6", len(data))
	}

	// Modify and verify zero-copy
	data[0] = 42
	if raw.AsFloat32()[0] != 42 {
		t.Error("AsFloat32 should return zero-copy slice")
	}
}

func TestRawTensorAsWrongTypePanics(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Float32, CPU)

	defer func() {
		if r := recover(); r == nil {
			t.Error("AsUint8 on Float32 tensor should panic")
		}
	}()
	_ = raw.AsUint8()
}

func TestAdoptZeroCopy(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5, 6}
	raw, err := Adopt(buf, Shape{2, 3}, Uint8, CPU)
	if err != nil {
		t.Fatalf("Adopt failed: %v", err)
	}

	buf[0] = 99
	if raw.AsUint8()[0] != 99 {
		t.Error("Adopt should wrap the buffer without copying")
	}
}

func TestAdoptSizeMismatch(t *testing.T) {
	_, err := Adopt(make([]byte, 5), Shape{2, 3}, Uint8, CPU)
	if err == nil {
		t.Error("Adopt with mismatched buffer size should fail")
	}

	_, err = Adopt(make([]byte, 6), Shape{2, 3}, Float32, CPU)
	if err == nil {
		t.Error("Adopt must account for the element size")
	}
}

func TestExpandDim(t *testing.T) {
	raw, _ := NewRaw(Shape{3, 4, 5}, Float32, CPU)

	raw.ExpandDim(0)
	if !raw.Shape().Equal(Shape{1, 3, 4, 5}) {
		t.Errorf("ExpandDim(0) shape = %v, want [1 3 4 5]", raw.Shape())
	}
	if raw.NumElements() != 60 {
		t.Errorf("ExpandDim must not change the element count, got %d", raw.NumElements())
	}

	raw.ExpandDim(4)
	if !raw.Shape().Equal(Shape{1, 3, 4, 5, 1}) {
		t.Errorf("ExpandDim(4) shape = %v, want [1 3 4 5 1]", raw.Shape())
	}
}

func TestExpandDimOutOfRangePanics(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Float32, CPU)

	defer func() {
		if r := recover(); r == nil {
			t.Error("ExpandDim out of range should panic")
		}
	}()
	raw.ExpandDim(3)
}

func TestDeviceIDTag(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Float32, CPU)

	if raw.DeviceID() != HostDeviceID {
		t.Errorf("new tensor DeviceID = %d, want %d", raw.DeviceID(), HostDeviceID)
	}

	raw.SetDeviceID(1)
	if raw.DeviceID() != 1 {
		t.Errorf("DeviceID = %d, want 1", raw.DeviceID())
	}
}
