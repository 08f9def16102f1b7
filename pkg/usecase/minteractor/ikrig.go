// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_ikrig/pkg/domain/ik"
	"github.com/miu200521358/mu_ikrig/pkg/shared/base/logging"
	"github.com/miu200521358/mu_ikrig/pkg/usecase/port/moutput"
)

// IkRigUsecaseDeps はIKリグユースケースの依存を表す。
type IkRigUsecaseDeps struct {
	World            moutput.IPhysicsWorld
	Loader           moutput.IAssetLoader
	Input            moutput.IInputSource
	Renderer         moutput.IRenderer
	Observer         IFrameObserver
	ProgressReporter ISetupProgressReporter
	Logger           logging.ILogger
}

// IkRigUsecase は毎フレームの物理・IK・姿勢反映・アニメーション・描画の順序をまとめたユースケースを表す。
// 単一のフレームコールバックから呼び出す前提で、内部で待ち合わせはしない。
type IkRigUsecase struct {
	world            moutput.IPhysicsWorld
	loader           moutput.IAssetLoader
	input            moutput.IInputSource
	renderer         moutput.IRenderer
	observer         IFrameObserver
	progressReporter ISetupProgressReporter
	logger           logging.ILogger

	options     FrameOptions
	defaultGate *ActivationGate
	solver      *ik.Solver

	phase    SetupPhase
	pending  <-chan moutput.AssetLoadResult
	setupErr error
	context  *FrameContext
	frame    int
}

// NewIkRigUsecase はIKリグユースケースを生成する。
func NewIkRigUsecase(deps IkRigUsecaseDeps, options FrameOptions) (*IkRigUsecase, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	gate, err := NewActivationGate(options.Activation)
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &IkRigUsecase{
		world:            deps.World,
		loader:           deps.Loader,
		input:            deps.Input,
		renderer:         deps.Renderer,
		observer:         deps.Observer,
		progressReporter: deps.ProgressReporter,
		logger:           logger,
		options:          options,
		defaultGate:      gate,
		solver:           ik.NewSolver(logger),
		phase:            SETUP_PHASE_UNLOADED,
	}, nil
}

// Phase は現在のリグ準備段階を返す。
func (uc *IkRigUsecase) Phase() SetupPhase {
	return uc.phase
}

// SetupError は準備失敗時のエラーを返す。
func (uc *IkRigUsecase) SetupError() error {
	return uc.setupErr
}

// Context は準備完了後のフレーム文脈を返す。準備前は nil。
func (uc *IkRigUsecase) Context() *FrameContext {
	return uc.context
}

// Options はフレーム設定を返す。
func (uc *IkRigUsecase) Options() FrameOptions {
	return uc.options
}

// FrameCount は実行済みフレーム数を返す。
func (uc *IkRigUsecase) FrameCount() int {
	return uc.frame
}

// logInfo はINFOログを出力する。
func (uc *IkRigUsecase) logInfo(format string, params ...any) {
	if uc.logger == nil {
		return
	}
	uc.logger.Info(format, params...)
}

// logWarn はWARNログを出力する。
func (uc *IkRigUsecase) logWarn(format string, params ...any) {
	if uc.logger == nil {
		return
	}
	uc.logger.Warn(format, params...)
}

// logError はERRORログを出力する。
func (uc *IkRigUsecase) logError(format string, params ...any) {
	if uc.logger == nil {
		return
	}
	uc.logger.Error(format, params...)
}

// logVerbose はフレーム冗長ログを出力する。
func (uc *IkRigUsecase) logVerbose(format string, params ...any) {
	if uc.logger == nil || !uc.logger.IsVerboseEnabled(logging.VERBOSE_INDEX_FRAME) {
		return
	}
	uc.logger.Verbose(logging.VERBOSE_INDEX_FRAME, format, params...)
}
