// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_ikrig/pkg/domain/animation"
	"github.com/miu200521358/mu_ikrig/pkg/domain/ik"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model"
	"github.com/miu200521358/mu_ikrig/pkg/domain/physics"
)

// ChainBinding はIKチェーンと起動条件を結び付けたものを表す。
type ChainBinding struct {
	Chain *model.IkChain
	Gate  *ActivationGate

	lastTargetVersion uint64
	lastResult        ik.SolveResult
}

// LastResult は直近の解決結果を返す。
func (b *ChainBinding) LastResult() ik.SolveResult {
	return b.lastResult
}

// FrameContext は準備完了後にフレーム処理が扱う所有物一式を表す。
type FrameContext struct {
	Rig      *model.RigModel
	Skeleton *model.Skeleton
	Mesh     *model.SkinnedMesh
	Chains   []*ChainBinding
	Mixer    *animation.Mixer
	Proxies  []*physics.PhysicsProxy

	clipFinished bool
}

// ClipFinished はトリガークリップの再生完了を受け取ったか返す。
func (c *FrameContext) ClipFinished() bool {
	return c.clipFinished
}

// ChainByName は名前に対応するチェーン結合を返す。
func (c *FrameContext) ChainByName(name string) (*ChainBinding, bool) {
	for _, binding := range c.Chains {
		if binding.Chain.Name == name {
			return binding, true
		}
	}
	return nil, false
}

// IkChains はチェーン一覧を返す。
func (c *FrameContext) IkChains() []*model.IkChain {
	chains := make([]*model.IkChain, len(c.Chains))
	for i, binding := range c.Chains {
		chains[i] = binding.Chain
	}
	return chains
}
