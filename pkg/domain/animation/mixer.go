// 指示: miu200521358
package animation

import (
	"fmt"
	"math"

	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_ikrig/pkg/shared/base/logging"
)

// LoopMode はクリップ再生のループ方式を表す。
type LoopMode int

const (
	// LOOP_MODE_ONCE は1回だけ再生する。
	LOOP_MODE_ONCE LoopMode = iota
	// LOOP_MODE_REPEAT は繰り返し再生する。
	LOOP_MODE_REPEAT
)

// FinishedEvent は再生完了通知を表す。
type FinishedEvent struct {
	ClipName string
	Action   *Action
}

// FinishedListener は再生完了通知の受け取り関数。
type FinishedListener func(event FinishedEvent)

// Action はミキサー上で再生されるクリップの状態を表す。
type Action struct {
	clip              *Clip
	boneIndexes       []int
	time              float64
	loop              LoopMode
	clampWhenFinished bool
	weight            float64
	running           bool
	finished          bool
}

// Play は先頭から再生を開始する。
func (a *Action) Play() *Action {
	a.time = 0
	a.running = true
	a.finished = false
	return a
}

// Stop は再生を停止し、姿勢への寄与をなくす。
func (a *Action) Stop() *Action {
	a.running = false
	a.finished = false
	return a
}

// SetLoop はループ方式を設定する。
func (a *Action) SetLoop(mode LoopMode) *Action {
	a.loop = mode
	return a
}

// SetClampWhenFinished は再生完了後も最終フレームを保持するか設定する。
func (a *Action) SetClampWhenFinished(clamp bool) *Action {
	a.clampWhenFinished = clamp
	return a
}

// SetWeight はブレンド重みを設定する。
func (a *Action) SetWeight(weight float64) *Action {
	a.weight = math.Max(weight, 0)
	return a
}

// ClipName はクリップ名を返す。
func (a *Action) ClipName() string {
	return a.clip.Name
}

// Time は現在の再生時刻を返す。
func (a *Action) Time() float64 {
	return a.time
}

// IsRunning は再生中か判定する。
func (a *Action) IsRunning() bool {
	return a.running
}

// IsFinished は1回再生が完了したか判定する。
func (a *Action) IsFinished() bool {
	return a.finished
}

// isContributing は姿勢へ寄与するか判定する。
func (a *Action) isContributing() bool {
	return a.weight > 0 && (a.running || (a.finished && a.clampWhenFinished))
}

// advance は再生時刻を進め、完了した場合 true を返す。
func (a *Action) advance(dt float64) bool {
	if !a.running {
		return false
	}
	a.time += dt
	duration := a.clip.Duration
	if a.loop == LOOP_MODE_REPEAT {
		if duration > 0 {
			a.time = math.Mod(a.time, duration)
		} else {
			a.time = 0
		}
		return false
	}
	if a.time >= duration {
		a.time = duration
		a.running = false
		a.finished = true
		return true
	}
	return false
}

// Mixer はクリップの再生とボーン姿勢へのブレンドを行う。
type Mixer struct {
	skeleton  *model.Skeleton
	clips     map[string]*Clip
	actions   map[string]*Action
	order     []string
	listeners []FinishedListener
}

// NewMixer はミキサーを生成する。
func NewMixer(skeleton *model.Skeleton) *Mixer {
	return &Mixer{
		skeleton: skeleton,
		clips:    map[string]*Clip{},
		actions:  map[string]*Action{},
	}
}

// AddClip はクリップを登録する。トラック対象ボーンがスケルトンにない場合はエラー。
func (m *Mixer) AddClip(clip *Clip) error {
	if clip == nil {
		return fmt.Errorf("クリップが未設定です")
	}
	if _, exists := m.clips[clip.Name]; exists {
		return merrors.NewNameConflictError(clip.Name)
	}
	boneIndexes := make([]int, len(clip.Tracks))
	for i, track := range clip.Tracks {
		bone, ok := m.skeleton.GetByName(track.BoneName)
		if !ok {
			return merrors.NewSetupError(
				model.RigWarningClipBoneMissing,
				fmt.Sprintf("clip=%s bone=%s", clip.Name, track.BoneName),
				nil,
			)
		}
		boneIndexes[i] = bone.Index()
	}
	m.clips[clip.Name] = clip
	m.actions[clip.Name] = &Action{
		clip:        clip,
		boneIndexes: boneIndexes,
		loop:        LOOP_MODE_REPEAT,
		weight:      1,
	}
	m.order = append(m.order, clip.Name)
	return nil
}

// ClipAction はクリップ名に対応するアクションを返す。
func (m *Mixer) ClipAction(name string) (*Action, error) {
	action, ok := m.actions[name]
	if !ok {
		return nil, fmt.Errorf("クリップが見つかりません: %s", name)
	}
	return action, nil
}

// ClipNames は登録順のクリップ名を返す。
func (m *Mixer) ClipNames() []string {
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

// AddFinishedListener は再生完了通知の受け取り関数を登録する。
func (m *Mixer) AddFinishedListener(listener FinishedListener) {
	if listener == nil {
		return
	}
	m.listeners = append(m.listeners, listener)
}

// blendSample はボーン1本分のブレンド途中結果を保持する。
type blendSample struct {
	rotation       mmath.Quaternion
	rotationWeight float64
	position       mmath.Vec3
	positionWeight float64
}

// Update は再生時刻を dt 秒進め、寄与するアクションを重み付きでボーン姿勢へ書き込む。
// 書き込み後に完了通知を発行する。
func (m *Mixer) Update(dt float64) {
	if m == nil || m.skeleton == nil {
		return
	}
	finishedActions := make([]*Action, 0)
	samples := map[int]*blendSample{}
	boneOrder := make([]int, 0)

	for _, name := range m.order {
		action := m.actions[name]
		if action.advance(dt) {
			finishedActions = append(finishedActions, action)
		}
		if !action.isContributing() {
			continue
		}
		for i, track := range action.clip.Tracks {
			boneIndex := action.boneIndexes[i]
			rotation, position := track.Sample(action.time)
			sample, ok := samples[boneIndex]
			if !ok {
				sample = &blendSample{rotation: rotation, rotationWeight: action.weight}
				samples[boneIndex] = sample
				boneOrder = append(boneOrder, boneIndex)
			} else {
				sample.rotationWeight += action.weight
				sample.rotation = sample.rotation.Slerp(rotation, action.weight/sample.rotationWeight)
			}
			if position != nil {
				sample.position = sample.position.Added(position.MuledScalar(action.weight))
				sample.positionWeight += action.weight
			}
		}
	}

	for _, boneIndex := range boneOrder {
		m.applySample(boneIndex, samples[boneIndex])
	}

	for _, action := range finishedActions {
		if logger := logging.DefaultLogger(); logger != nil {
			logger.Debug("アニメーション再生完了: clip=%s", action.clip.Name)
		}
		event := FinishedEvent{ClipName: action.clip.Name, Action: action}
		for _, listener := range m.listeners {
			listener(event)
		}
	}
}

// applySample はブレンド結果をボーンへ書き込む。重みが1未満の分はバインド姿勢と混ぜる。
func (m *Mixer) applySample(boneIndex int, sample *blendSample) {
	bone, err := m.skeleton.Get(boneIndex)
	if err != nil {
		return
	}
	rotation := sample.rotation
	if sample.rotationWeight < 1 {
		rotation = bone.BindLocalRotation().Slerp(rotation, sample.rotationWeight)
	}
	m.skeleton.SetLocalRotation(boneIndex, rotation)

	if sample.positionWeight <= 0 {
		return
	}
	position := sample.position.MuledScalar(1 / sample.positionWeight)
	if sample.positionWeight < 1 {
		position = bone.BindLocalPosition().Lerp(position, sample.positionWeight)
	}
	m.skeleton.SetLocalPosition(boneIndex, position)
}
