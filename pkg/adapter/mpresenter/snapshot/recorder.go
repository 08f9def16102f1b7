// 指示: miu200521358
// Package snapshot は描画シーンを複製して保持するヘッドレス描画担当を提供する。
package snapshot

import (
	"fmt"
	"sync"

	"github.com/tiendc/go-deepcopy"

	"github.com/miu200521358/mu_ikrig/pkg/usecase/port/moutput"
)

const (
	// DefaultCapacity は保持するシーン数の既定値。
	DefaultCapacity = 120
)

// RecordingRenderer は直近のシーンを複製して保持する描画担当を表す。
// 保持するシーンは呼び出し側の後続フレームで書き換わらない。
type RecordingRenderer struct {
	mu       sync.Mutex
	capacity int
	scenes   []moutput.RenderScene
	count    int
}

// NewRecordingRenderer は保持上限を指定して生成する。0以下は既定値を使う。
func NewRecordingRenderer(capacity int) *RecordingRenderer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RecordingRenderer{
		capacity: capacity,
		scenes:   make([]moutput.RenderScene, 0, capacity),
	}
}

// Render はシーンを複製して保持する。上限を超えた古いシーンは破棄する。
func (r *RecordingRenderer) Render(scene moutput.RenderScene) error {
	var copied moutput.RenderScene
	if err := deepcopy.Copy(&copied, scene); err != nil {
		return fmt.Errorf("描画シーンの複製に失敗しました: frame=%d: %w", scene.Frame, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.scenes) == r.capacity {
		r.scenes = append(r.scenes[:0], r.scenes[1:]...)
	}
	r.scenes = append(r.scenes, copied)
	r.count++
	return nil
}

// Scenes は保持しているシーンを古い順に返す。
func (r *RecordingRenderer) Scenes() []moutput.RenderScene {
	r.mu.Lock()
	defer r.mu.Unlock()
	scenes := make([]moutput.RenderScene, len(r.scenes))
	copy(scenes, r.scenes)
	return scenes
}

// Last は最新のシーンを返す。
func (r *RecordingRenderer) Last() (moutput.RenderScene, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.scenes) == 0 {
		return moutput.RenderScene{}, false
	}
	return r.scenes[len(r.scenes)-1], true
}

// Count は受け取ったシーンの総数を返す。
func (r *RecordingRenderer) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
