// 指示: miu200521358
package moutput

import (
	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/physics"
	"github.com/miu200521358/mu_ikrig/pkg/domain/rig"
)

// IPhysicsBody は物理ワールド上の剛体の契約を表す。
type IPhysicsBody interface {
	Name() string
	Position() mmath.Vec3
	Orientation() mmath.Quaternion
	// Mass は質量を返す。0 は静的またはキネマティック。
	Mass() float64
	Shape() physics.Shape
	Kind() physics.BodyKind
	// SetKinematicPosition は位置だけを書き込む。速度は与えない。
	SetKinematicPosition(position mmath.Vec3)
}

// IPhysicsWorld は剛体ワールドの契約を表す。
type IPhysicsWorld interface {
	// Step はワールドを dt 秒進める。
	Step(dt float64)
	// AddBody は剛体を追加する。
	AddBody(def physics.BodyDef) (IPhysicsBody, error)
	// RemoveBody は AddBody で追加した剛体を取り除く。未登録の剛体は無視する。
	RemoveBody(body IPhysicsBody)
	// Bodies は追加順の剛体一覧を返す。
	Bodies() []IPhysicsBody
}

// AssetLoadResult は非同期読み込みの結果を表す。
type AssetLoadResult struct {
	Asset *rig.RigAsset
	Err   error
}

// IAssetLoader はリグアセットの非同期読み込み契約を表す。
type IAssetLoader interface {
	// LoadAsync は読み込みを開始し、結果を1件だけ送るチャネルを返す。再試行はしない。
	LoadAsync(path string) <-chan AssetLoadResult
}

// PointerState は正規化されたポインタ入力を表す。
type PointerState struct {
	// X, Y は -1..1 の正規化座標(右・上が正)。
	X      float64
	Y      float64
	Active bool
}

// IInputSource はポインタ入力の契約を表す。
type IInputSource interface {
	Pointer() PointerState
}

// RenderBone は描画用のボーン姿勢を表す。
type RenderBone struct {
	Name     string
	Parent   int
	Position mmath.Vec3
	Rotation mmath.Quaternion
}

// RenderBody は描画用の剛体を表す。
type RenderBody struct {
	Name     string
	Shape    physics.Shape
	Kind     physics.BodyKind
	Position mmath.Vec3
}

// RenderTarget は描画用のIK目標を表す。
type RenderTarget struct {
	Chain     string
	Position  mmath.Vec3
	Converged bool
}

// RenderScene は描画担当へ渡すフレームのシーンを表す。
type RenderScene struct {
	Frame    int
	Phase    string
	Bones    []RenderBone
	Vertices []mmath.Vec3
	Bodies   []RenderBody
	Targets  []RenderTarget
}

// IRenderer は描画担当の契約を表す。
type IRenderer interface {
	Render(scene RenderScene) error
}
