// 指示: miu200521358
package model

import (
	"fmt"

	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model/merrors"
)

const (
	// DefaultIkIterationCount はIK反復回数の既定値。
	DefaultIkIterationCount = 10
	// DefaultIkSquaredDistanceThreshold は収束判定距離(2乗)の既定値。
	DefaultIkSquaredDistanceThreshold = 1e-4
	// ikChainMinimumJointCount はIKチェーンの最小関節数。
	ikChainMinimumJointCount = 2
)

// Joint はIKチェーンの関節を表す。
type Joint struct {
	// BoneIndex はスケルトンのボーンindex。
	BoneIndex int
	// Position はワールド位置。ソルバーが反復中に更新する。
	Position mmath.Vec3
	// Length は子関節までの距離。バインド姿勢から一度だけ算出する。エフェクタは0。
	Length float64
	// Constraint は親に対する向きの制約。
	Constraint JointConstraint
	// Direction は親関節からこの関節への直近の有効な単位方向。ルートは基準前方軸。
	// 親子が一致した場合の代替方向として使う。
	Direction mmath.Vec3
}

// IkChainDef はIKチェーンの定義を表す。
type IkChainDef struct {
	Name string
	// BoneIndexes はエフェクタからルートへの順で並べたボーンindex。
	BoneIndexes              []int
	IterationCount           int
	SquaredDistanceThreshold float64
	// Constraints はボーンindexごとの関節制約。
	Constraints map[int]JointConstraint
	// ReferenceAxis は方位角の基準軸。未指定時はルート前方軸に直交する軸を使う。
	ReferenceAxis *mmath.Vec3
	// Activation はチェーン固有の起動条件式。空の場合は全体設定に従う。
	Activation string
}

// IkChain はルートからエフェクタへ並んだ関節列と目標位置を表す。
type IkChain struct {
	Name                     string
	Joints                   []*Joint
	Target                   *TargetBuffer
	IterationCount           int
	SquaredDistanceThreshold float64
	// Anchor はルート関節を固定する位置。
	Anchor mmath.Vec3
	// RootAxis はルート関節の前方軸(バインド時のルート→子方向、定数)。
	RootAxis mmath.Vec3
	// ReferenceAxis は方位角の基準軸。
	ReferenceAxis mmath.Vec3
	Activation    string

	totalLength        float64
	degenerateReported bool
}

// NewIkChain はスケルトンの現在(バインド)姿勢からIKチェーンを生成する。
func NewIkChain(skeleton *Skeleton, def IkChainDef) (*IkChain, error) {
	if skeleton == nil || skeleton.Len() == 0 {
		return nil, merrors.NewSetupError(RigWarningSkeletonEmpty, def.Name, nil)
	}
	if len(def.BoneIndexes) < ikChainMinimumJointCount {
		return nil, merrors.NewSetupError(
			RigWarningChainTooShort,
			fmt.Sprintf("chain=%s joints=%d", def.Name, len(def.BoneIndexes)),
			nil,
		)
	}

	// 定義はエフェクタ→ルート順なので反転する
	boneIndexes := make([]int, len(def.BoneIndexes))
	for i, boneIndex := range def.BoneIndexes {
		boneIndexes[len(def.BoneIndexes)-1-i] = boneIndex
	}

	skeleton.UpdateWorldTransforms()
	joints := make([]*Joint, len(boneIndexes))
	for i, boneIndex := range boneIndexes {
		if _, err := skeleton.Get(boneIndex); err != nil {
			return nil, merrors.NewSetupError(RigWarningChainBoneMissing, fmt.Sprintf("chain=%s", def.Name), err)
		}
		if i > 0 && !skeleton.IsAncestor(boneIndexes[i-1], boneIndex) {
			return nil, merrors.NewSetupError(
				RigWarningChainNotDescendant,
				fmt.Sprintf("chain=%s parent=%d child=%d", def.Name, boneIndexes[i-1], boneIndex),
				nil,
			)
		}
		joints[i] = &Joint{
			BoneIndex:  boneIndex,
			Position:   skeleton.WorldPosition(boneIndex),
			Constraint: def.Constraints[boneIndex],
		}
	}

	totalLength := 0.0
	for i := 0; i < len(joints)-1; i++ {
		link := joints[i+1].Position.Subed(joints[i].Position)
		direction, ok := link.Normalized()
		if !ok {
			return nil, merrors.NewSetupError(
				RigWarningChainZeroLength,
				fmt.Sprintf("chain=%s bone=%d", def.Name, joints[i].BoneIndex),
				nil,
			)
		}
		joints[i].Length = link.Length()
		joints[i+1].Direction = direction
		totalLength += joints[i].Length
	}
	rootAxis := joints[1].Direction
	joints[0].Direction = rootAxis

	referenceAxis := rootAxis.Perpendicular()
	if def.ReferenceAxis != nil {
		referenceAxis = *def.ReferenceAxis
	}

	iterationCount := def.IterationCount
	if iterationCount <= 0 {
		iterationCount = DefaultIkIterationCount
	}
	threshold := def.SquaredDistanceThreshold
	if threshold <= 0 {
		threshold = DefaultIkSquaredDistanceThreshold
	}

	return &IkChain{
		Name:                     def.Name,
		Joints:                   joints,
		Target:                   NewTargetBuffer(joints[len(joints)-1].Position),
		IterationCount:           iterationCount,
		SquaredDistanceThreshold: threshold,
		Anchor:                   joints[0].Position,
		RootAxis:                 rootAxis,
		ReferenceAxis:            referenceAxis,
		Activation:               def.Activation,
		totalLength:              totalLength,
	}, nil
}

// Len は関節数を返す。
func (c *IkChain) Len() int {
	return len(c.Joints)
}

// Root はルート関節を返す。
func (c *IkChain) Root() *Joint {
	return c.Joints[0]
}

// Effector はエフェクタ関節を返す。
func (c *IkChain) Effector() *Joint {
	return c.Joints[len(c.Joints)-1]
}

// TotalLength はリンク長の合計を返す。
func (c *IkChain) TotalLength() float64 {
	return c.totalLength
}

// BoneIndexes はルートからエフェクタ順のボーンindexを返す。
func (c *IkChain) BoneIndexes() []int {
	indexes := make([]int, len(c.Joints))
	for i, joint := range c.Joints {
		indexes[i] = joint.BoneIndex
	}
	return indexes
}

// Positions は関節位置のコピーを返す。
func (c *IkChain) Positions() []mmath.Vec3 {
	positions := make([]mmath.Vec3, len(c.Joints))
	for i, joint := range c.Joints {
		positions[i] = joint.Position
	}
	return positions
}

// SetPositions は関節位置を書き戻す。
func (c *IkChain) SetPositions(positions []mmath.Vec3) {
	for i := 0; i < len(c.Joints) && i < len(positions); i++ {
		c.Joints[i].Position = positions[i]
	}
}

// EffectorDistanceSqr はエフェクタと目標位置の距離の2乗を返す。
func (c *IkChain) EffectorDistanceSqr(target mmath.Vec3) float64 {
	return c.Effector().Position.DistanceSqr(target)
}

// ForwardAxis は関節 index の親の前方軸を返す。index=1 はルート前方軸(定数)。
func (c *IkChain) ForwardAxis(index int) mmath.Vec3 {
	if index <= 1 {
		return c.RootAxis
	}
	forward, ok := c.Joints[index-1].Position.Subed(c.Joints[index-2].Position).Normalized()
	if !ok {
		return c.Joints[index-1].Direction
	}
	return forward
}

// SyncAnchor はルートボーンの現在のワールド位置をアンカーとして取り込む。
func (c *IkChain) SyncAnchor(skeleton *Skeleton) {
	if skeleton == nil {
		return
	}
	c.Anchor = skeleton.WorldPosition(c.Root().BoneIndex)
}

// MarkDegenerateReported は縮退警告を初回のみ true で返す。
func (c *IkChain) MarkDegenerateReported() bool {
	if c.degenerateReported {
		return false
	}
	c.degenerateReported = true
	return true
}

// ValidateDisjointChains はチェーン間でボーンindexが重複しないことを検証する。
// 並列解決時は各チェーンが書き込むボーン集合が互いに素であることが前提となる。
func ValidateDisjointChains(chains []*IkChain) error {
	owners := map[int]string{}
	for _, chain := range chains {
		if chain == nil {
			continue
		}
		for _, boneIndex := range chain.BoneIndexes() {
			if owner, exists := owners[boneIndex]; exists {
				return merrors.NewSetupError(
					RigWarningChainBoneOverlap,
					fmt.Sprintf("bone=%d chains=%s,%s", boneIndex, owner, chain.Name),
					nil,
				)
			}
			owners[boneIndex] = chain.Name
		}
	}
	return nil
}
