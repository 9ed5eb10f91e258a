package common

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}

// Perspective builds a right-handed projection matrix with a [0, 1] depth range,
// which is what WebGPU clip space expects. mgl32.Perspective targets [-1, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1 / math32.Tan(fovY/2)
	var m mgl32.Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1
	m[14] = (near * far) / (near - far)
	return m
}

// ModelMatrix composes translation, a rotation about +Y and a uniform scale.
//
// Parameters:
//   - pos: world-space translation
//   - yaw: rotation about the vertical axis in radians
//   - scale: uniform scale factor
//
// Returns:
//   - mgl32.Mat4: T * Ry * S
func ModelMatrix(pos mgl32.Vec3, yaw, scale float32) mgl32.Mat4 {
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(mgl32.HomogRotate3DY(yaw)).
		Mul4(mgl32.Scale3D(scale, scale, scale))
}

// HexColor unpacks a 0xRRGGBB value into linear 0-1 components.
func HexColor(hex uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32((hex>>16)&0xff) / 255,
		float32((hex>>8)&0xff) / 255,
		float32(hex&0xff) / 255,
	}
}

// HSL converts hue, saturation and lightness (all 0-1) to RGB.
// Hue wraps, saturation and lightness are clamped.
func HSL(h, s, l float32) mgl32.Vec3 {
	h = h - math32.Floor(h)
	s = mgl32.Clamp(s, 0, 1)
	l = mgl32.Clamp(l, 0, 1)

	if s == 0 {
		return mgl32.Vec3{l, l, l}
	}

	var q float32
	if l <= 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return mgl32.Vec3{
		hueToRGB(p, q, h+1.0/3),
		hueToRGB(p, q, h),
		hueToRGB(p, q, h-1.0/3),
	}
}

func hueToRGB(p, q, t float32) float32 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*6*(2.0/3-t)
	}
	return p
}
