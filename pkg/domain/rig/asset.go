// 指示: miu200521358
// Package rig は読み込んだリグアセットと、名前指定の定義をスケルトンへ結び付ける処理を提供する。
package rig

import (
	"fmt"

	"github.com/miu200521358/mu_ikrig/pkg/domain/animation"
	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_ikrig/pkg/domain/physics"
)

// ChainSpec はボーン名で記述したIKチェーン定義を表す。
type ChainSpec struct {
	Name string
	// BoneNames はエフェクタからルートへの順のボーン名。
	BoneNames                []string
	IterationCount           int
	SquaredDistanceThreshold float64
	// Constraints はボーン名ごとの関節制約。
	Constraints   map[string]model.JointConstraint
	ReferenceAxis *mmath.Vec3
	Activation    string
}

// RigAsset は読み込んだシーングラフとリグ定義一式を表す。
type RigAsset struct {
	Model   *model.RigModel
	Chains  []ChainSpec
	Proxies []physics.ProxyDef
	Bodies  []physics.BodyDef
	Clips   []*animation.Clip
}

// ResolveChainDef はボーン名をindexへ解決してチェーン定義を返す。
func (s ChainSpec) ResolveChainDef(skeleton *model.Skeleton) (model.IkChainDef, error) {
	boneIndexes := make([]int, 0, len(s.BoneNames))
	for _, name := range s.BoneNames {
		bone, ok := skeleton.GetByName(name)
		if !ok {
			return model.IkChainDef{}, merrors.NewSetupError(
				model.RigWarningChainBoneMissing,
				fmt.Sprintf("chain=%s bone=%s", s.Name, name),
				nil,
			)
		}
		boneIndexes = append(boneIndexes, bone.Index())
	}
	constraints := map[int]model.JointConstraint{}
	for name, constraint := range s.Constraints {
		bone, ok := skeleton.GetByName(name)
		if !ok {
			return model.IkChainDef{}, merrors.NewSetupError(
				model.RigWarningChainBoneMissing,
				fmt.Sprintf("chain=%s constraint=%s", s.Name, name),
				nil,
			)
		}
		constraints[bone.Index()] = constraint
	}
	return model.IkChainDef{
		Name:                     s.Name,
		BoneIndexes:              boneIndexes,
		IterationCount:           s.IterationCount,
		SquaredDistanceThreshold: s.SquaredDistanceThreshold,
		Constraints:              constraints,
		ReferenceAxis:            s.ReferenceAxis,
		Activation:               s.Activation,
	}, nil
}

// ResolveProxyBoneIndex はプロキシ追従ボーンのindexを返す。
func ResolveProxyBoneIndex(skeleton *model.Skeleton, def physics.ProxyDef) (int, error) {
	bone, ok := skeleton.GetByName(def.BoneName)
	if !ok {
		return -1, merrors.NewSetupError(
			model.RigWarningProxyBoneMissing,
			fmt.Sprintf("proxy=%s bone=%s", def.Name, def.BoneName),
			nil,
		)
	}
	return bone.Index(), nil
}
