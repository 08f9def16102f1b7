// 指示: miu200521358
// Package physics は剛体の形状・定義と、ボーンに追従する物理プロキシを提供する。
package physics

import (
	"fmt"

	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
)

// ShapeType は剛体形状の種別を表す。
type ShapeType int

const (
	// SHAPE_BOX は箱形状。
	SHAPE_BOX ShapeType = iota
	// SHAPE_SPHERE は球形状。
	SHAPE_SPHERE
	// SHAPE_PLANE は無限平面。
	SHAPE_PLANE
)

// String は種別名を返す。
func (t ShapeType) String() string {
	switch t {
	case SHAPE_BOX:
		return "box"
	case SHAPE_SPHERE:
		return "sphere"
	case SHAPE_PLANE:
		return "plane"
	default:
		return fmt.Sprintf("shape(%d)", int(t))
	}
}

// ParseShapeType は文字列から形状種別を解決する。
func ParseShapeType(value string) (ShapeType, error) {
	switch value {
	case "box":
		return SHAPE_BOX, nil
	case "sphere":
		return SHAPE_SPHERE, nil
	case "plane":
		return SHAPE_PLANE, nil
	}
	return SHAPE_BOX, fmt.Errorf("剛体形状が不正です: %s", value)
}

// Shape は剛体のプリミティブ形状と寸法を表す。
type Shape struct {
	Type ShapeType
	// HalfExtents は箱の半寸法。
	HalfExtents mmath.Vec3
	// Radius は球の半径。
	Radius float64
	// Normal は平面の法線。
	Normal mmath.Vec3
	// Offset は原点から平面までの法線方向距離。
	Offset float64
}

// NewBoxShape は箱形状を生成する。
func NewBoxShape(halfExtents mmath.Vec3) Shape {
	return Shape{Type: SHAPE_BOX, HalfExtents: halfExtents}
}

// NewSphereShape は球形状を生成する。
func NewSphereShape(radius float64) Shape {
	return Shape{Type: SHAPE_SPHERE, Radius: radius}
}

// NewPlaneShape は平面形状を生成する。
func NewPlaneShape(normal mmath.Vec3, offset float64) Shape {
	return Shape{Type: SHAPE_PLANE, Normal: normal, Offset: offset}
}

// Validate は寸法が有効か検証する。
func (s Shape) Validate() error {
	switch s.Type {
	case SHAPE_BOX:
		if s.HalfExtents.X <= 0 || s.HalfExtents.Y <= 0 || s.HalfExtents.Z <= 0 {
			return fmt.Errorf("箱の半寸法は正の値が必要です: %v", s.HalfExtents)
		}
	case SHAPE_SPHERE:
		if s.Radius <= 0 {
			return fmt.Errorf("球の半径は正の値が必要です: %f", s.Radius)
		}
	case SHAPE_PLANE:
		if _, ok := s.Normal.Normalized(); !ok {
			return fmt.Errorf("平面の法線が不正です: %v", s.Normal)
		}
	default:
		return fmt.Errorf("剛体形状が不正です: %s", s.Type)
	}
	return nil
}
