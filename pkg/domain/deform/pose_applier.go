// 指示: miu200521358
// Package deform はIK解をボーン姿勢へ反映し、スキンメッシュを変形する処理を提供する。
package deform

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model"
)

// EffectorPolicy はエフェクタボーンの回転の扱いを表す。
type EffectorPolicy int

const (
	// EFFECTOR_POLICY_KEEP はエフェクタのローカル回転を変更しない。
	EFFECTOR_POLICY_KEEP EffectorPolicy = iota
	// EFFECTOR_POLICY_COPY_PARENT はローカル回転を単位回転にし、親の解の向きを引き継ぐ。
	EFFECTOR_POLICY_COPY_PARENT
)

// ParseEffectorPolicy は設定値からエフェクタ方針を解決する。
func ParseEffectorPolicy(value string) (EffectorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "keep":
		return EFFECTOR_POLICY_KEEP, nil
	case "copy_parent":
		return EFFECTOR_POLICY_COPY_PARENT, nil
	}
	return EFFECTOR_POLICY_KEEP, fmt.Errorf("エフェクタ方針が不正です: %s", value)
}

// ApplyChainPose は解いた関節位置をルート側から順にボーンのローカル回転へ変換して書き戻す。
// 書き戻し後にスケルトンのワールド変換を再計算する。
func ApplyChainPose(skeleton *model.Skeleton, chain *model.IkChain, policy EffectorPolicy) error {
	if skeleton == nil || chain == nil {
		return fmt.Errorf("姿勢反映対象が未設定です")
	}
	for _, joint := range chain.Joints {
		if _, err := skeleton.Get(joint.BoneIndex); err != nil {
			return fmt.Errorf("姿勢反映対象ボーンが見つかりません: chain=%s: %w", chain.Name, err)
		}
	}

	for i := 0; i < chain.Len()-1; i++ {
		joint := chain.Joints[i]
		child := chain.Joints[i+1]

		// 旧方向は直前までの書き戻しを反映したワールド変換から求める
		oldDirection := skeleton.WorldPosition(child.BoneIndex).Subed(skeleton.WorldPosition(joint.BoneIndex))
		newDirection := child.Position.Subed(joint.Position)
		if !newDirection.IsFinite() {
			continue
		}
		if _, ok := oldDirection.Normalized(); !ok {
			continue
		}
		if _, ok := newDirection.Normalized(); !ok {
			continue
		}

		delta := mmath.NewQuaternionRotate(oldDirection, newDirection)
		bone, _ := skeleton.Get(joint.BoneIndex)
		parentWorld := skeleton.ParentWorldRotation(joint.BoneIndex)
		localRotation := parentWorld.Inverted().Muled(delta).Muled(parentWorld).Muled(bone.LocalRotation)

		// 捩りはバインド回転からの相対回転で、子関節方向を軸として制限する
		bindRotation := bone.BindLocalRotation()
		relative := bindRotation.Inverted().Muled(localRotation)
		relative = child.Constraint.ClampTwist(relative, childOffsetInBone(skeleton, bone, child.BoneIndex))
		localRotation = bindRotation.Muled(relative)
		if !localRotation.IsFinite() {
			continue
		}
		skeleton.SetLocalRotation(joint.BoneIndex, localRotation)
	}

	if policy == EFFECTOR_POLICY_COPY_PARENT {
		skeleton.SetLocalRotation(chain.Effector().BoneIndex, mmath.NewQuaternion())
	}

	skeleton.UpdateWorldTransforms()
	return nil
}

// childOffsetInBone は子関節のバインド位置をボーン座標系で返す。
func childOffsetInBone(skeleton *model.Skeleton, bone *model.Bone, childBoneIndex int) mmath.Vec3 {
	offset := mmath.ZERO_VEC3
	current := childBoneIndex
	for current >= 0 && current != bone.Index() {
		child, err := skeleton.Get(current)
		if err != nil {
			break
		}
		offset = child.BindLocalRotation().Rotated(offset).Added(child.BindLocalPosition())
		current = child.ParentIndex
	}
	return offset
}
