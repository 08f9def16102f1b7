// 指示: miu200521358
package model

import (
	"math"

	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
)

const (
	constraintAngleEpsilon = 1e-12
)

// AngleRange は角度範囲(ラジアン)を表す。
type AngleRange struct {
	Min float64
	Max float64
}

// NewAngleRangeDegrees は度指定から角度範囲を生成する。
func NewAngleRangeDegrees(minDegree float64, maxDegree float64) AngleRange {
	return AngleRange{Min: mmath.DegToRad(minDegree), Max: mmath.DegToRad(maxDegree)}
}

// Contains は値が範囲内か判定する。
func (r AngleRange) Contains(value float64, epsilon float64) bool {
	return value >= r.Min-epsilon && value <= r.Max+epsilon
}

// clampWrapped は周回角を範囲内で最も近い角度へクランプする。
func (r AngleRange) clampWrapped(value float64) float64 {
	if r.Contains(value, 0) {
		return value
	}
	if angularDistance(value, r.Min) <= angularDistance(value, r.Max) {
		return r.Min
	}
	return r.Max
}

// BallSocket はボールソケット関節の可動域を表す。
// Polar は親前方軸からの振り角、Twist は骨軸周りの捩り角、Azimuth は基準面内の方位角。
type BallSocket struct {
	Polar   AngleRange
	Twist   *AngleRange
	Azimuth *AngleRange
}

// JointConstraintType は関節制約の種別を表す。
type JointConstraintType int

const (
	// JOINT_CONSTRAINT_NONE は制約なし。
	JOINT_CONSTRAINT_NONE JointConstraintType = iota
	// JOINT_CONSTRAINT_BALL_SOCKET はボールソケット制約。
	JOINT_CONSTRAINT_BALL_SOCKET
)

// String は種別名を返す。
func (t JointConstraintType) String() string {
	switch t {
	case JOINT_CONSTRAINT_BALL_SOCKET:
		return "ball_socket"
	default:
		return "none"
	}
}

// JointConstraint は親に対する関節の許容向きを表す閉じたタグ付き variant。
type JointConstraint struct {
	Type       JointConstraintType
	BallSocket BallSocket
}

// NewBallSocketConstraint はボールソケット制約を生成する。
func NewBallSocketConstraint(polar AngleRange, twist *AngleRange, azimuth *AngleRange) JointConstraint {
	return JointConstraint{
		Type: JOINT_CONSTRAINT_BALL_SOCKET,
		BallSocket: BallSocket{
			Polar:   polar,
			Twist:   twist,
			Azimuth: azimuth,
		},
	}
}

// Clamp は親から見た関節方向 direction を、親の前方軸 forward に対する許容範囲内で
// 最も近い方向へ補正して返す。reference は方位角の基準軸(前方軸に直交していなくてよい)。
// 戻り値の長さは direction と同じ。方向が定まらない入力はそのまま返す。
func (c JointConstraint) Clamp(direction mmath.Vec3, forward mmath.Vec3, reference mmath.Vec3) mmath.Vec3 {
	switch c.Type {
	case JOINT_CONSTRAINT_BALL_SOCKET:
		return c.BallSocket.clamp(direction, forward, reference)
	default:
		return direction
	}
}

// ClampTwist はローカル回転の軸周り捩り成分を可動域内へ補正する。
func (c JointConstraint) ClampTwist(localRotation mmath.Quaternion, axis mmath.Vec3) mmath.Quaternion {
	if c.Type != JOINT_CONSTRAINT_BALL_SOCKET || c.BallSocket.Twist == nil {
		return localRotation
	}
	swing, _, twistRad := localRotation.SeparateTwistByAxis(axis)
	clamped := mmath.Clamp(twistRad, c.BallSocket.Twist.Min, c.BallSocket.Twist.Max)
	if clamped == twistRad {
		return localRotation
	}
	return swing.Muled(mmath.NewQuaternionFromAxisAngle(axis, clamped)).Normalized()
}

// Satisfies は方向が可動域を満たしているか判定する。
func (c JointConstraint) Satisfies(direction mmath.Vec3, forward mmath.Vec3, epsilon float64) bool {
	if c.Type != JOINT_CONSTRAINT_BALL_SOCKET {
		return true
	}
	return c.BallSocket.Polar.Contains(mmath.AngleBetween(direction, forward), epsilon)
}

// clamp はボールソケットの振り角・方位角クランプを行う。
func (b BallSocket) clamp(direction mmath.Vec3, forward mmath.Vec3, reference mmath.Vec3) mmath.Vec3 {
	length := direction.Length()
	d, dOk := direction.Normalized()
	f, fOk := forward.Normalized()
	if !dOk || !fOk {
		return direction
	}

	cosTheta := d.Dot(f)
	swing := d.Subed(f.MuledScalar(cosTheta))
	theta := math.Atan2(swing.Length(), cosTheta)

	swingAxis, swingOk := swing.Normalized()
	if !swingOk {
		swingAxis = referenceOnPlane(reference, f)
	}

	clampedTheta := mmath.Clamp(theta, b.Polar.Min, b.Polar.Max)
	changed := clampedTheta != theta

	if b.Azimuth != nil && clampedTheta > constraintAngleEpsilon {
		u := referenceOnPlane(reference, f)
		w := f.Cross(u)
		phi := math.Atan2(swingAxis.Dot(w), swingAxis.Dot(u))
		clampedPhi := b.Azimuth.clampWrapped(phi)
		if clampedPhi != phi {
			swingAxis = u.MuledScalar(math.Cos(clampedPhi)).Added(w.MuledScalar(math.Sin(clampedPhi)))
			changed = true
		}
	}

	if !changed {
		return direction
	}
	clamped := f.MuledScalar(math.Cos(clampedTheta)).Added(swingAxis.MuledScalar(math.Sin(clampedTheta)))
	return clamped.MuledScalar(length)
}

// referenceOnPlane は基準軸を前方軸に直交する平面へ射影した単位ベクトルを返す。
func referenceOnPlane(reference mmath.Vec3, forward mmath.Vec3) mmath.Vec3 {
	projected, ok := reference.ProjectedOnPlane(forward).Normalized()
	if ok {
		return projected
	}
	return forward.Perpendicular()
}

// angularDistance は周回を考慮した2角度間の距離を返す。
func angularDistance(a float64, b float64) float64 {
	diff := math.Mod(a-b, 2*math.Pi)
	if diff > math.Pi {
		diff -= 2 * math.Pi
	}
	if diff < -math.Pi {
		diff += 2 * math.Pi
	}
	return math.Abs(diff)
}
