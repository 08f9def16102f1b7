// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_ikrig/pkg/domain/ik"
	"github.com/miu200521358/mu_ikrig/pkg/usecase/port/moutput"
)

// RenderScene は描画担当へ渡すシーンを表す。
type RenderScene = moutput.RenderScene

// FrameStage はフレーム内の処理段階を表す。
type FrameStage string

const (
	// FRAME_STAGE_PHYSICS_STEP は剛体ワールドを固定時間進める段階。
	FRAME_STAGE_PHYSICS_STEP FrameStage = "physics_step"
	// FRAME_STAGE_IK_SOLVE は起動条件を満たすチェーンを解く段階。
	FRAME_STAGE_IK_SOLVE FrameStage = "ik_solve"
	// FRAME_STAGE_POSE_APPLY は解いたチェーンをボーン姿勢へ反映する段階。
	FRAME_STAGE_POSE_APPLY FrameStage = "pose_apply"
	// FRAME_STAGE_PROXY_SYNC はボーン位置を物理プロキシへ写す段階。
	FRAME_STAGE_PROXY_SYNC FrameStage = "proxy_sync"
	// FRAME_STAGE_ANIMATION_BLEND はキーフレームミキサーを進める段階。
	FRAME_STAGE_ANIMATION_BLEND FrameStage = "animation_blend"
	// FRAME_STAGE_RENDER はシーンを描画担当へ渡す段階。
	FRAME_STAGE_RENDER FrameStage = "render"
)

// SetupPhase はリグ準備の段階を表す。
type SetupPhase string

const (
	// SETUP_PHASE_UNLOADED は読み込み未開始。
	SETUP_PHASE_UNLOADED SetupPhase = "unloaded"
	// SETUP_PHASE_LOADING は非同期読み込み中。
	SETUP_PHASE_LOADING SetupPhase = "loading"
	// SETUP_PHASE_READY はIKと物理の結合済み。
	SETUP_PHASE_READY SetupPhase = "ready"
	// SETUP_PHASE_FAILED は準備失敗。IKと物理結合は行わない。
	SETUP_PHASE_FAILED SetupPhase = "failed"
)

// IFrameObserver はフレーム段階の通知契約を表す。
type IFrameObserver interface {
	// ObserveStage は段階の実行を通知する。
	ObserveStage(frame int, stage FrameStage)
}

// SetupProgressEventType はリグ準備の進捗イベント種別を表す。
type SetupProgressEventType string

const (
	// SetupProgressEventTypeLoadStarted は非同期読み込み開始イベントを表す。
	SetupProgressEventTypeLoadStarted SetupProgressEventType = "load_started"
	// SetupProgressEventTypeAssetLoaded はアセット受信イベントを表す。
	SetupProgressEventTypeAssetLoaded SetupProgressEventType = "asset_loaded"
	// SetupProgressEventTypeSkinnedMeshFound はスキンメッシュ検出イベントを表す。
	SetupProgressEventTypeSkinnedMeshFound SetupProgressEventType = "skinned_mesh_found"
	// SetupProgressEventTypeChainsBound はIKチェーン結合完了イベントを表す。
	SetupProgressEventTypeChainsBound SetupProgressEventType = "chains_bound"
	// SetupProgressEventTypeBodiesAdded は剛体追加完了イベントを表す。
	SetupProgressEventTypeBodiesAdded SetupProgressEventType = "bodies_added"
	// SetupProgressEventTypeProxiesBound は物理プロキシ結合完了イベントを表す。
	SetupProgressEventTypeProxiesBound SetupProgressEventType = "proxies_bound"
	// SetupProgressEventTypeClipsAdded はクリップ登録完了イベントを表す。
	SetupProgressEventTypeClipsAdded SetupProgressEventType = "clips_added"
	// SetupProgressEventTypeReady は準備完了イベントを表す。
	SetupProgressEventTypeReady SetupProgressEventType = "ready"
	// SetupProgressEventTypeFailed は準備失敗イベントを表す。
	SetupProgressEventTypeFailed SetupProgressEventType = "failed"
)

// SetupProgressEvent はリグ準備の進捗イベントを表す。
type SetupProgressEvent struct {
	Type       SetupProgressEventType
	ChainCount int
	BodyCount  int
	ProxyCount int
	ClipCount  int
	Err        error
}

// ISetupProgressReporter はリグ準備の進捗通知契約を表す。
type ISetupProgressReporter interface {
	// ReportSetupProgress はリグ準備の進捗を通知する。
	ReportSetupProgress(event SetupProgressEvent)
}

// ChainReport は1チェーン分のフレーム結果を表す。
type ChainReport struct {
	Name   string
	Active bool
	Result ik.SolveResult
}

// FrameReport は1フレーム分の実行結果を表す。
type FrameReport struct {
	Frame  int
	Phase  SetupPhase
	Stages []FrameStage
	Chains []ChainReport
	// RenderErr は描画担当が返したエラー。フレームは継続する。
	RenderErr error
}

// SolvedChainCount は解いたチェーン数を返す。
func (r FrameReport) SolvedChainCount() int {
	count := 0
	for _, chain := range r.Chains {
		if chain.Active {
			count++
		}
	}
	return count
}

// ConvergedChainCount は解いたうち収束したチェーン数を返す。
func (r FrameReport) ConvergedChainCount() int {
	count := 0
	for _, chain := range r.Chains {
		if chain.Active && chain.Result.Converged {
			count++
		}
	}
	return count
}

// HasStage は段階が実行されたか判定する。
func (r FrameReport) HasStage(stage FrameStage) bool {
	for _, executed := range r.Stages {
		if executed == stage {
			return true
		}
	}
	return false
}

// reportSetupProgress はリグ準備の進捗を通知する。
func reportSetupProgress(reporter ISetupProgressReporter, event SetupProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportSetupProgress(event)
}
