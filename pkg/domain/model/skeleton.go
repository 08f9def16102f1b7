// 指示: miu200521358
package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model/merrors"
)

// Skeleton は描画側が所有するボーン階層を表す。
// ボーンは親が子より前に並ぶ順序で保持する。
type Skeleton struct {
	bones       []*Bone
	nameIndexes map[string]int
	dirty       bool
}

// NewSkeleton は空のスケルトンを生成する。
func NewSkeleton() *Skeleton {
	return &Skeleton{
		bones:       make([]*Bone, 0),
		nameIndexes: map[string]int{},
	}
}

// Append はボーンを末尾へ追加し、indexを割り当てる。
func (s *Skeleton) Append(bone *Bone) error {
	if bone == nil {
		return fmt.Errorf("追加対象ボーンが未設定です")
	}
	if _, exists := s.nameIndexes[bone.Name]; exists {
		return merrors.NewNameConflictError(bone.Name)
	}
	index := len(s.bones)
	if bone.ParentIndex >= index {
		return fmt.Errorf("親ボーンは子ボーンより前に定義してください: bone=%s parent=%d", bone.Name, bone.ParentIndex)
	}
	bone.index = index
	s.bones = append(s.bones, bone)
	s.nameIndexes[bone.Name] = index
	s.dirty = true
	return nil
}

// Len はボーン数を返す。
func (s *Skeleton) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bones)
}

// Get はindexに対応するボーンを返す。
func (s *Skeleton) Get(index int) (*Bone, error) {
	if s == nil || index < 0 || index >= len(s.bones) {
		return nil, fmt.Errorf("ボーンindexが範囲外です: %d", index)
	}
	return s.bones[index], nil
}

// GetByName は名前に対応するボーンを返す。
func (s *Skeleton) GetByName(name string) (*Bone, bool) {
	if s == nil {
		return nil, false
	}
	index, exists := s.nameIndexes[name]
	if !exists {
		return nil, false
	}
	return s.bones[index], true
}

// Values はボーン一覧を返す。
func (s *Skeleton) Values() []*Bone {
	if s == nil {
		return nil
	}
	return s.bones
}

// SetLocalRotation はボーンのローカル回転を更新し、ワールド変換を要再計算にする。
func (s *Skeleton) SetLocalRotation(index int, rotation mmath.Quaternion) {
	if index < 0 || index >= len(s.bones) {
		return
	}
	s.bones[index].LocalRotation = rotation.Normalized()
	s.dirty = true
}

// SetLocalPosition はボーンのローカル位置を更新し、ワールド変換を要再計算にする。
func (s *Skeleton) SetLocalPosition(index int, position mmath.Vec3) {
	if index < 0 || index >= len(s.bones) {
		return
	}
	s.bones[index].LocalPosition = position
	s.dirty = true
}

// MarkDirty はワールド変換を要再計算にする。
func (s *Skeleton) MarkDirty() {
	s.dirty = true
}

// UpdateWorldTransforms は全ボーンのワールド変換キャッシュを再計算する。
func (s *Skeleton) UpdateWorldTransforms() {
	if s == nil {
		return
	}
	for _, bone := range s.bones {
		local := bone.localMatrix()
		if bone.ParentIndex < 0 {
			bone.worldMatrix = local
			continue
		}
		bone.worldMatrix = s.bones[bone.ParentIndex].worldMatrix.Mul4(local)
	}
	s.dirty = false
}

// refresh は必要な場合だけワールド変換を再計算する。
func (s *Skeleton) refresh() {
	if s.dirty {
		s.UpdateWorldTransforms()
	}
}

// WorldMatrix はボーンのワールド変換行列を返す。
func (s *Skeleton) WorldMatrix(index int) mgl64.Mat4 {
	if s == nil || index < 0 || index >= len(s.bones) {
		return mgl64.Ident4()
	}
	s.refresh()
	return s.bones[index].worldMatrix
}

// WorldPosition はボーンのワールド位置を返す。
func (s *Skeleton) WorldPosition(index int) mmath.Vec3 {
	return mmath.Mat4Position(s.WorldMatrix(index))
}

// WorldRotation はボーンのワールド回転を返す。
func (s *Skeleton) WorldRotation(index int) mmath.Quaternion {
	return mmath.Mat4Rotation(s.WorldMatrix(index))
}

// ParentWorldRotation は親ボーンのワールド回転を返す。ルートは単位回転。
func (s *Skeleton) ParentWorldRotation(index int) mmath.Quaternion {
	bone, err := s.Get(index)
	if err != nil || bone.ParentIndex < 0 {
		return mmath.NewQuaternion()
	}
	return s.WorldRotation(bone.ParentIndex)
}

// SetupBindPose は現在のローカル変換をバインド姿勢として確定する。
func (s *Skeleton) SetupBindPose() {
	if s == nil {
		return
	}
	for _, bone := range s.bones {
		bone.bindLocalPosition = bone.LocalPosition
		bone.bindLocalRotation = bone.LocalRotation
	}
	s.UpdateWorldTransforms()
	for _, bone := range s.bones {
		bone.inverseBindMatrix = bone.worldMatrix.Inv()
	}
}

// ResetPose はバインド姿勢へ戻す。
func (s *Skeleton) ResetPose() {
	if s == nil {
		return
	}
	for _, bone := range s.bones {
		bone.LocalPosition = bone.bindLocalPosition
		bone.LocalRotation = bone.bindLocalRotation
	}
	s.UpdateWorldTransforms()
}

// SkinningMatrix はスキニング行列(ワールド×逆バインド)を返す。
func (s *Skeleton) SkinningMatrix(index int) mgl64.Mat4 {
	if s == nil || index < 0 || index >= len(s.bones) {
		return mgl64.Ident4()
	}
	s.refresh()
	return s.bones[index].worldMatrix.Mul4(s.bones[index].inverseBindMatrix)
}

// IsAncestor は ancestor が descendant の祖先ボーンか判定する。
func (s *Skeleton) IsAncestor(ancestor int, descendant int) bool {
	if s == nil || descendant < 0 || descendant >= len(s.bones) {
		return false
	}
	current := s.bones[descendant].ParentIndex
	for current >= 0 {
		if current == ancestor {
			return true
		}
		current = s.bones[current].ParentIndex
	}
	return false
}

// ChildrenByParent は親indexごとの子index一覧を構築する。
func (s *Skeleton) ChildrenByParent() map[int][]int {
	childrenByParent := map[int][]int{}
	if s == nil {
		return childrenByParent
	}
	for _, bone := range s.bones {
		if bone.ParentIndex < 0 {
			continue
		}
		childrenByParent[bone.ParentIndex] = append(childrenByParent[bone.ParentIndex], bone.Index())
	}
	return childrenByParent
}
