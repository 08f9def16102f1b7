// 指示: miu200521358
// Package viewer はリグのフレームを画面へ表示するデバッグビューアを提供する。
package viewer

import (
	"sync"

	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/usecase/port/moutput"
)

// ToScreen はワールド座標を画面ピクセル座標へ変換する。カメラ背面は ok=false。
func ToScreen(camera *mmath.Camera, world mmath.Vec3, width, height int) (float32, float32, bool) {
	if camera == nil || width <= 0 || height <= 0 {
		return 0, 0, false
	}
	nx, ny, ok := camera.Project(world)
	if !ok {
		return 0, 0, false
	}
	x := (nx + 1) * 0.5 * float64(width)
	y := (1 - ny) * 0.5 * float64(height)
	return float32(x), float32(y), true
}

// NormalizePointer は画面ピクセル座標を -1..1 の正規化座標(上が正)へ変換する。
func NormalizePointer(x, y, width, height int) (float64, float64) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	nx := float64(x)/float64(width)*2 - 1
	ny := 1 - float64(y)/float64(height)*2
	return mmath.Clamp(nx, -1, 1), mmath.Clamp(ny, -1, 1)
}

// PointerInput は画面入力を保持するポインタ入力源を表す。
type PointerInput struct {
	mu    sync.Mutex
	state moutput.PointerState
}

// NewPointerInput はポインタ入力源を生成する。
func NewPointerInput() *PointerInput {
	return &PointerInput{}
}

// Set はピクセル座標から入力状態を更新する。
func (p *PointerInput) Set(x, y, width, height int, active bool) {
	nx, ny := NormalizePointer(x, y, width, height)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = moutput.PointerState{X: nx, Y: ny, Active: active}
}

// Pointer は最新の入力状態を返す。
func (p *PointerInput) Pointer() moutput.PointerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
