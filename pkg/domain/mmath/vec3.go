// 指示: miu200521358
// Package mmath はIK・ボーン計算で使うベクトル/クォータニオン演算を提供する。
package mmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// Epsilon は長さゼロ判定に使う閾値。
	Epsilon = 1e-10
)

// Vec3 は3次元ベクトルを表す。
type Vec3 struct {
	r3.Vec
}

// NewVec3 は成分からベクトルを生成する。
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{Vec: r3.Vec{X: x, Y: y, Z: z}}
}

// UNIT_X_VEC3 などは単位軸ベクトル。
var (
	ZERO_VEC3   = NewVec3(0, 0, 0)
	UNIT_X_VEC3 = NewVec3(1, 0, 0)
	UNIT_Y_VEC3 = NewVec3(0, 1, 0)
	UNIT_Z_VEC3 = NewVec3(0, 0, 1)
)

// Added は加算結果を返す。
func (v Vec3) Added(other Vec3) Vec3 {
	return Vec3{Vec: r3.Add(v.Vec, other.Vec)}
}

// Subed は減算結果を返す。
func (v Vec3) Subed(other Vec3) Vec3 {
	return Vec3{Vec: r3.Sub(v.Vec, other.Vec)}
}

// MuledScalar はスカラー倍を返す。
func (v Vec3) MuledScalar(s float64) Vec3 {
	return Vec3{Vec: r3.Scale(s, v.Vec)}
}

// Negated は符号反転を返す。
func (v Vec3) Negated() Vec3 {
	return v.MuledScalar(-1)
}

// Dot は内積を返す。
func (v Vec3) Dot(other Vec3) float64 {
	return r3.Dot(v.Vec, other.Vec)
}

// Cross は外積を返す。
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{Vec: r3.Cross(v.Vec, other.Vec)}
}

// Length は長さを返す。
func (v Vec3) Length() float64 {
	return r3.Norm(v.Vec)
}

// LengthSqr は長さの2乗を返す。
func (v Vec3) LengthSqr() float64 {
	return r3.Norm2(v.Vec)
}

// Distance は2点間距離を返す。
func (v Vec3) Distance(other Vec3) float64 {
	return v.Subed(other).Length()
}

// DistanceSqr は2点間距離の2乗を返す。
func (v Vec3) DistanceSqr(other Vec3) float64 {
	return v.Subed(other).LengthSqr()
}

// Normalized は正規化したベクトルを返す。長さゼロの場合は ok=false を返す。
func (v Vec3) Normalized() (Vec3, bool) {
	length := v.Length()
	if length <= Epsilon || !isFinite(length) {
		return ZERO_VEC3, false
	}
	return v.MuledScalar(1.0 / length), true
}

// Lerp は線形補間結果を返す。
func (v Vec3) Lerp(other Vec3, t float64) Vec3 {
	return v.Added(other.Subed(v).MuledScalar(t))
}

// NearEquals は各成分が許容誤差内で一致するか判定する。
func (v Vec3) NearEquals(other Vec3, epsilon float64) bool {
	return math.Abs(v.X-other.X) <= epsilon &&
		math.Abs(v.Y-other.Y) <= epsilon &&
		math.Abs(v.Z-other.Z) <= epsilon
}

// IsFinite はNaN/Infを含まないか判定する。
func (v Vec3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// Perpendicular はvに直交する単位ベクトルを1つ返す。
func (v Vec3) Perpendicular() Vec3 {
	axis := UNIT_X_VEC3
	if math.Abs(v.X) > math.Abs(v.Y) {
		axis = UNIT_Y_VEC3
	}
	perp, ok := v.Cross(axis).Normalized()
	if !ok {
		return UNIT_Z_VEC3
	}
	return perp
}

// ProjectedOnPlane は法線 normal の平面へ射影したベクトルを返す。normal は単位ベクトルであること。
func (v Vec3) ProjectedOnPlane(normal Vec3) Vec3 {
	return v.Subed(normal.MuledScalar(v.Dot(normal)))
}

// Mgl はmgl64のベクトルへ変換する。
func (v Vec3) Mgl() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// NewVec3FromMgl はmgl64のベクトルから変換する。
func NewVec3FromMgl(v mgl64.Vec3) Vec3 {
	return NewVec3(v[0], v[1], v[2])
}

// String は表示用文字列を返す。
func (v Vec3) String() string {
	return fmt.Sprintf("[x=%.5f, y=%.5f, z=%.5f]", v.X, v.Y, v.Z)
}

// AngleBetween は2ベクトルのなす角(ラジアン)を返す。
func AngleBetween(a, b Vec3) float64 {
	return math.Atan2(a.Cross(b).Length(), a.Dot(b))
}

// DegToRad は度をラジアンへ変換する。
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadToDeg はラジアンを度へ変換する。
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// Clamp はmin-maxで値をクランプする。
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
