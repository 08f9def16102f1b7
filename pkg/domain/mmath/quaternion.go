// 指示: miu200521358
package mmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quaternion は回転を表すクォータニオン。
type Quaternion struct {
	mgl64.Quat
}

// NewQuaternion は単位クォータニオンを生成する。
func NewQuaternion() Quaternion {
	return Quaternion{Quat: mgl64.QuatIdent()}
}

// NewQuaternionByValues は成分からクォータニオンを生成する。
func NewQuaternionByValues(x, y, z, w float64) Quaternion {
	return Quaternion{Quat: mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}}.Normalized()
}

// NewQuaternionFromAxisAngle は軸と角度(ラジアン)からクォータニオンを生成する。
func NewQuaternionFromAxisAngle(axis Vec3, rad float64) Quaternion {
	normalized, ok := axis.Normalized()
	if !ok {
		return NewQuaternion()
	}
	return Quaternion{Quat: mgl64.QuatRotate(rad, normalized.Mgl())}
}

// NewQuaternionFromDegrees はXYZオイラー角(度)からクォータニオンを生成する。
func NewQuaternionFromDegrees(x, y, z float64) Quaternion {
	return Quaternion{Quat: mgl64.AnglesToQuat(DegToRad(x), DegToRad(y), DegToRad(z), mgl64.XYZ)}.Normalized()
}

// NewQuaternionRotate は from から to へ向ける最短弧回転を返す。
// どちらかが長さゼロの場合は単位クォータニオンを返す。
func NewQuaternionRotate(from, to Vec3) Quaternion {
	fromNormalized, fromOk := from.Normalized()
	toNormalized, toOk := to.Normalized()
	if !fromOk || !toOk {
		return NewQuaternion()
	}
	w := 1.0 + fromNormalized.Dot(toNormalized)
	if w < 1e-9 {
		// 反平行は任意の直交軸で180度回す
		return NewQuaternionFromAxisAngle(fromNormalized.Perpendicular(), math.Pi)
	}
	axis := fromNormalized.Cross(toNormalized)
	return Quaternion{Quat: mgl64.Quat{W: w, V: axis.Mgl()}}.Normalized()
}

// Muled は q * other を返す。
func (q Quaternion) Muled(other Quaternion) Quaternion {
	return Quaternion{Quat: q.Quat.Mul(other.Quat)}
}

// Inverted は逆回転を返す。
func (q Quaternion) Inverted() Quaternion {
	return Quaternion{Quat: q.Quat.Inverse()}
}

// Normalized は正規化したクォータニオンを返す。
func (q Quaternion) Normalized() Quaternion {
	if q.Quat.Len() <= Epsilon {
		return NewQuaternion()
	}
	return Quaternion{Quat: q.Quat.Normalize()}
}

// Rotated はベクトルを回転させた結果を返す。
func (q Quaternion) Rotated(v Vec3) Vec3 {
	return NewVec3FromMgl(q.Quat.Rotate(v.Mgl()))
}

// Slerp は球面線形補間結果を返す。
func (q Quaternion) Slerp(other Quaternion, t float64) Quaternion {
	if t <= 0 {
		return q
	}
	if t >= 1 {
		return other
	}
	return Quaternion{Quat: mgl64.QuatSlerp(q.Quat, other.Quat, t)}.Normalized()
}

// ToRadian は回転角(ラジアン, 0..π)を返す。
func (q Quaternion) ToRadian() float64 {
	w := Clamp(math.Abs(q.W), 0, 1)
	return 2 * math.Acos(w)
}

// SeparateTwistByAxis は軸周りの捩り成分と残りの振り成分に分解する。
// q = swing * twist となる。twistRad は (-π, π] の捩り角。
func (q Quaternion) SeparateTwistByAxis(axis Vec3) (swing Quaternion, twist Quaternion, twistRad float64) {
	normalizedAxis, ok := axis.Normalized()
	if !ok {
		return q, NewQuaternion(), 0
	}
	v := NewVec3FromMgl(q.V)
	projected := normalizedAxis.MuledScalar(v.Dot(normalizedAxis))
	raw := mgl64.Quat{W: q.W, V: projected.Mgl()}
	if raw.Len() <= Epsilon {
		// 軸に直交する180度回転は捩りを持たない
		return q, NewQuaternion(), 0
	}
	twist = Quaternion{Quat: raw.Normalize()}
	swing = q.Muled(twist.Inverted()).Normalized()
	twistRad = 2 * math.Atan2(NewVec3FromMgl(twist.V).Dot(normalizedAxis), twist.W)
	if twistRad > math.Pi {
		twistRad -= 2 * math.Pi
	}
	if twistRad <= -math.Pi {
		twistRad += 2 * math.Pi
	}
	return swing, twist, twistRad
}

// NearEquals は同じ回転を表すか判定する(q と -q は同一視する)。
func (q Quaternion) NearEquals(other Quaternion, epsilon float64) bool {
	return math.Abs(math.Abs(q.Quat.Dot(other.Quat))-1.0) <= epsilon
}

// IsFinite はNaN/Infを含まないか判定する。
func (q Quaternion) IsFinite() bool {
	return isFinite(q.W) && NewVec3FromMgl(q.V).IsFinite()
}

// Mat4 は回転行列を返す。
func (q Quaternion) Mat4() mgl64.Mat4 {
	return q.Quat.Mat4()
}

// String は表示用文字列を返す。
func (q Quaternion) String() string {
	return fmt.Sprintf("[x=%.5f, y=%.5f, z=%.5f, w=%.5f]", q.V[0], q.V[1], q.V[2], q.W)
}

// NewTransformMat4 は位置と回転からローカル変換行列を生成する。
func NewTransformMat4(position Vec3, rotation Quaternion) mgl64.Mat4 {
	return mgl64.Translate3D(position.X, position.Y, position.Z).Mul4(rotation.Mat4())
}

// Mat4Position は変換行列の平行移動成分を返す。
func Mat4Position(m mgl64.Mat4) Vec3 {
	return NewVec3FromMgl(m.Col(3).Vec3())
}

// Mat4Rotation は変換行列の回転成分を返す(スケールなしを前提とする)。
func Mat4Rotation(m mgl64.Mat4) Quaternion {
	return Quaternion{Quat: mgl64.Mat4ToQuat(m)}.Normalized()
}

// MulMat4Vec3 は変換行列で点を変換する。
func MulMat4Vec3(m mgl64.Mat4, v Vec3) Vec3 {
	return NewVec3FromMgl(m.Mul4x1(v.Mgl().Vec4(1)).Vec3())
}
