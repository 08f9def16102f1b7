// 指示: miu200521358
package physics

import (
	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model"
)

// IKinematicTarget は位置だけを外部から書き込める剛体を表す。
type IKinematicTarget interface {
	SetKinematicPosition(position mmath.Vec3)
}

// ProxyDef は物理プロキシの定義を表す。
type ProxyDef struct {
	Name     string
	BoneName string
	Shape    Shape
	// Offset はボーン座標系でのプロキシ位置。
	Offset mmath.Vec3
}

// PhysicsProxy はボーンのワールド位置に毎フレーム追従するキネマティック剛体を表す。
// ボーンへは何も書き戻さない。
type PhysicsProxy struct {
	Name      string
	BoneIndex int
	Offset    mmath.Vec3
	Body      IKinematicTarget
}

// TargetPosition はボーンの現在のワールド変換から追従先の位置を求める。
func (p *PhysicsProxy) TargetPosition(skeleton *model.Skeleton) mmath.Vec3 {
	return mmath.MulMat4Vec3(skeleton.WorldMatrix(p.BoneIndex), p.Offset)
}

// Sync はボーン位置をプロキシ剛体へ書き込む。
func (p *PhysicsProxy) Sync(skeleton *model.Skeleton) {
	if p == nil || p.Body == nil || skeleton == nil {
		return
	}
	position := p.TargetPosition(skeleton)
	if !position.IsFinite() {
		return
	}
	p.Body.SetKinematicPosition(position)
}

// SyncProxies は全プロキシを同期する。
func SyncProxies(skeleton *model.Skeleton, proxies []*PhysicsProxy) {
	for _, proxy := range proxies {
		proxy.Sync(skeleton)
	}
}
