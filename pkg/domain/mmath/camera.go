// 指示: miu200521358
package mmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera は透視投影カメラを表す。
type Camera struct {
	Eye        Vec3
	Center     Vec3
	Up         Vec3
	FovDegrees float64
	Aspect     float64
	Near       float64
	Far        float64
}

// NewCamera は既定値を補ったカメラを生成する。
func NewCamera(eye, center Vec3, fovDegrees, aspect float64) *Camera {
	if fovDegrees <= 0 {
		fovDegrees = 45
	}
	if aspect <= 0 {
		aspect = 1
	}
	return &Camera{
		Eye:        eye,
		Center:     center,
		Up:         UNIT_Y_VEC3,
		FovDegrees: fovDegrees,
		Aspect:     aspect,
		Near:       0.1,
		Far:        1000,
	}
}

// ViewProjection はビュー射影行列を返す。
func (c *Camera) ViewProjection() mgl64.Mat4 {
	projection := mgl64.Perspective(DegToRad(c.FovDegrees), c.Aspect, c.Near, c.Far)
	view := mgl64.LookAtV(c.Eye.Mgl(), c.Center.Mgl(), c.Up.Mgl())
	return projection.Mul4(view)
}

// Project はワールド座標を正規化デバイス座標(x,y: -1..1)へ変換する。
// カメラの背面にある点は ok=false を返す。
func (c *Camera) Project(world Vec3) (x, y float64, ok bool) {
	clip := c.ViewProjection().Mul4x1(world.Mgl().Vec4(1))
	if clip[3] <= Epsilon {
		return 0, 0, false
	}
	return clip[0] / clip[3], clip[1] / clip[3], true
}

// PointerRay は正規化ポインタ座標(x,y: -1..1, y上向き)からワールド空間のレイを返す。
func (c *Camera) PointerRay(nx, ny float64) (origin Vec3, direction Vec3, ok bool) {
	inverse := c.ViewProjection().Inv()
	near := inverse.Mul4x1(mgl64.Vec4{nx, ny, -1, 1})
	far := inverse.Mul4x1(mgl64.Vec4{nx, ny, 1, 1})
	if math.Abs(near[3]) <= Epsilon || math.Abs(far[3]) <= Epsilon {
		return ZERO_VEC3, ZERO_VEC3, false
	}
	nearPoint := NewVec3FromMgl(near.Vec3().Mul(1 / near[3]))
	farPoint := NewVec3FromMgl(far.Vec3().Mul(1 / far[3]))
	dir, dirOk := farPoint.Subed(nearPoint).Normalized()
	if !dirOk {
		return ZERO_VEC3, ZERO_VEC3, false
	}
	return nearPoint, dir, true
}

// PointerToPlane は正規化ポインタ座標のレイと平面の交点を返す。
func (c *Camera) PointerToPlane(nx, ny float64, planePoint, planeNormal Vec3) (Vec3, bool) {
	origin, direction, ok := c.PointerRay(nx, ny)
	if !ok {
		return ZERO_VEC3, false
	}
	return IntersectRayPlane(origin, direction, planePoint, planeNormal)
}

// IntersectRayPlane はレイと平面の交点を返す。平行または背面の場合は ok=false を返す。
func IntersectRayPlane(origin, direction, planePoint, planeNormal Vec3) (Vec3, bool) {
	denominator := direction.Dot(planeNormal)
	if math.Abs(denominator) <= Epsilon {
		return ZERO_VEC3, false
	}
	t := planePoint.Subed(origin).Dot(planeNormal) / denominator
	if t < 0 {
		return ZERO_VEC3, false
	}
	return origin.Added(direction.MuledScalar(t)), true
}
