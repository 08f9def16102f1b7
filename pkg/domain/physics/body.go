// 指示: miu200521358
package physics

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
)

// BodyKind は剛体の挙動種別を表す。
type BodyKind int

const (
	// BODY_KIND_STATIC は動かない剛体。
	BODY_KIND_STATIC BodyKind = iota
	// BODY_KIND_KINEMATIC は外部から位置を与える剛体。
	BODY_KIND_KINEMATIC
	// BODY_KIND_DYNAMIC は物理演算で動く剛体。
	BODY_KIND_DYNAMIC
)

// String は種別名を返す。
func (k BodyKind) String() string {
	switch k {
	case BODY_KIND_STATIC:
		return "static"
	case BODY_KIND_KINEMATIC:
		return "kinematic"
	case BODY_KIND_DYNAMIC:
		return "dynamic"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// BodyDef は剛体の生成定義を表す。
// Mass が 0 の剛体は静的またはキネマティック、正の剛体は動的になる。
type BodyDef struct {
	Name        string
	Shape       Shape
	Mass        float64
	Kinematic   bool
	Position    mmath.Vec3
	Orientation mmath.Quaternion
}

// Kind は質量とキネマティック指定から挙動種別を決める。
func (d BodyDef) Kind() BodyKind {
	if d.Mass > 0 {
		return BODY_KIND_DYNAMIC
	}
	if d.Kinematic {
		return BODY_KIND_KINEMATIC
	}
	return BODY_KIND_STATIC
}

// Validate は定義が有効か検証する。
func (d BodyDef) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("剛体名が未指定です")
	}
	if d.Mass < 0 {
		return fmt.Errorf("剛体の質量が負です: body=%s mass=%f", d.Name, d.Mass)
	}
	if d.Shape.Type == SHAPE_PLANE && d.Kind() == BODY_KIND_DYNAMIC {
		return fmt.Errorf("平面は動的剛体にできません: body=%s", d.Name)
	}
	if err := d.Shape.Validate(); err != nil {
		return fmt.Errorf("剛体形状が不正です: body=%s: %w", d.Name, err)
	}
	return nil
}
