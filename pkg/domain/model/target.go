// 指示: miu200521358
package model

import (
	"sync/atomic"

	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
)

// TargetBuffer はIK目標位置を保持する。入力側(書き込み1)とIK解決(読み込み1)の間で
// ベクトル全体を原子的に差し替えるため、読み込み側が書き込み途中の値を見ることはない。
type TargetBuffer struct {
	value   atomic.Pointer[mmath.Vec3]
	version atomic.Uint64
}

// NewTargetBuffer は初期位置を持つ目標バッファを生成する。
func NewTargetBuffer(initial mmath.Vec3) *TargetBuffer {
	buffer := &TargetBuffer{}
	buffer.value.Store(&initial)
	return buffer
}

// Set は目標位置を差し替える。NaN/Infを含む値は無視する。
func (b *TargetBuffer) Set(position mmath.Vec3) {
	if b == nil || !position.IsFinite() {
		return
	}
	b.value.Store(&position)
	b.version.Add(1)
}

// Load は現在の目標位置を返す。
func (b *TargetBuffer) Load() mmath.Vec3 {
	if b == nil {
		return mmath.ZERO_VEC3
	}
	current := b.value.Load()
	if current == nil {
		return mmath.ZERO_VEC3
	}
	return *current
}

// Version は更新回数を返す。目標移動の検出に使う。
func (b *TargetBuffer) Version() uint64 {
	if b == nil {
		return 0
	}
	return b.version.Load()
}
