// 指示: miu200521358
// Package model はスケルトン・IKチェーン・関節制約などのリグモデルを提供する。
package model

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
)

// Bone はスケルトンのボーンを表す。
type Bone struct {
	index       int
	Name        string
	ParentIndex int

	// LocalPosition は親ボーン座標系での位置。
	LocalPosition mmath.Vec3
	// LocalRotation は親ボーン座標系での回転。
	LocalRotation mmath.Quaternion

	bindLocalPosition mmath.Vec3
	bindLocalRotation mmath.Quaternion
	worldMatrix       mgl64.Mat4
	inverseBindMatrix mgl64.Mat4
}

// NewBone はボーンを生成する。parentIndex が負の場合はルートボーンになる。
func NewBone(name string, parentIndex int, localPosition mmath.Vec3) *Bone {
	return &Bone{
		index:             -1,
		Name:              name,
		ParentIndex:       parentIndex,
		LocalPosition:     localPosition,
		LocalRotation:     mmath.NewQuaternion(),
		bindLocalPosition: localPosition,
		bindLocalRotation: mmath.NewQuaternion(),
		worldMatrix:       mgl64.Ident4(),
		inverseBindMatrix: mgl64.Ident4(),
	}
}

// Index はボーンindexを返す。
func (b *Bone) Index() int {
	return b.index
}

// IsRoot は親を持たないボーンか判定する。
func (b *Bone) IsRoot() bool {
	return b.ParentIndex < 0
}

// BindLocalRotation はバインド姿勢のローカル回転を返す。
func (b *Bone) BindLocalRotation() mmath.Quaternion {
	return b.bindLocalRotation
}

// BindLocalPosition はバインド姿勢のローカル位置を返す。
func (b *Bone) BindLocalPosition() mmath.Vec3 {
	return b.bindLocalPosition
}

// localMatrix はローカル変換行列を返す。
func (b *Bone) localMatrix() mgl64.Mat4 {
	return mmath.NewTransformMat4(b.LocalPosition, b.LocalRotation)
}
