// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_ikrig/pkg/domain/deform"
	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model/merrors"
)

// FrameOrder はIKとアニメーションの書き込み順の契約を表す。
type FrameOrder string

const (
	// FRAME_ORDER_IK_THEN_ANIMATION はIK反映後にアニメーションを進める順序。
	// 同じボーンを対象とするクリップがあれば、そのフレームはアニメーションが上書きする。
	FRAME_ORDER_IK_THEN_ANIMATION FrameOrder = "IK_THEN_ANIMATION"
)

const (
	// DefaultFixedTimestep は固定時間刻みの既定値(秒)。
	DefaultFixedTimestep = 1.0 / 60.0
	// DefaultActivation は起動条件式の既定値。
	DefaultActivation = ACTIVATION_PARAM_CLIP_FINISHED + " && " + ACTIVATION_PARAM_POINTER_ACTIVE
)

// ParseFrameOrder は設定値から順序契約を解決する。IK_THEN_ANIMATION 以外は受け付けない。
func ParseFrameOrder(value string) (FrameOrder, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if normalized == "" || normalized == string(FRAME_ORDER_IK_THEN_ANIMATION) {
		return FRAME_ORDER_IK_THEN_ANIMATION, nil
	}
	return "", merrors.NewConfigError("ordering", fmt.Sprintf("未対応の順序です: %s", value))
}

// TargetPlane はポインタ入力を投影する平面を表す。
type TargetPlane struct {
	Point  mmath.Vec3
	Normal mmath.Vec3
}

// FrameOptions はフレーム処理の設定を表す。
type FrameOptions struct {
	FixedTimestep float64
	Order         FrameOrder
	// ParallelSolve はチェーンを並列に解く。チェーン間のボーン集合が互いに素であることを前提とする。
	ParallelSolve  bool
	Activation     string
	TriggerClip    string
	EffectorPolicy deform.EffectorPolicy
	Camera         *mmath.Camera
	TargetPlane    TargetPlane
}

// DefaultFrameOptions は既定のフレーム設定を返す。
func DefaultFrameOptions() FrameOptions {
	return FrameOptions{
		FixedTimestep:  DefaultFixedTimestep,
		Order:          FRAME_ORDER_IK_THEN_ANIMATION,
		Activation:     DefaultActivation,
		EffectorPolicy: deform.EFFECTOR_POLICY_KEEP,
		Camera:         mmath.NewCamera(mmath.NewVec3(0, 1.5, 6), mmath.NewVec3(0, 1.5, 0), 45, 16.0/9.0),
		TargetPlane:    TargetPlane{Point: mmath.ZERO_VEC3, Normal: mmath.UNIT_Z_VEC3},
	}
}

// Validate は設定が有効か検証する。
func (o FrameOptions) Validate() error {
	if o.FixedTimestep <= 0 {
		return merrors.NewConfigError("fixedTimestep", fmt.Sprintf("正の値が必要です: %f", o.FixedTimestep))
	}
	if _, err := ParseFrameOrder(string(o.Order)); err != nil {
		return err
	}
	if _, err := NewActivationGate(o.Activation); err != nil {
		return merrors.NewConfigError("activation", err.Error())
	}
	return nil
}
