// 指示: miu200521358
package minteractor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/miu200521358/mu_ikrig/pkg/domain/animation"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_ikrig/pkg/domain/physics"
	"github.com/miu200521358/mu_ikrig/pkg/domain/rig"
	"github.com/miu200521358/mu_ikrig/pkg/usecase/port/moutput"
)

// BeginSetup はリグアセットの非同期読み込みを開始する。
// 結果は以降のフレーム処理で待たずに確認する。
func (uc *IkRigUsecase) BeginSetup(path string) error {
	if uc.phase != SETUP_PHASE_UNLOADED {
		return fmt.Errorf("リグ準備は開始済みです: phase=%s", uc.phase)
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("リグアセットパスが未指定です")
	}
	if uc.loader == nil {
		return fmt.Errorf("アセット読み込み担当が設定されていません")
	}
	uc.phase = SETUP_PHASE_LOADING
	uc.pending = uc.loader.LoadAsync(path)
	uc.logInfo("リグ読み込み開始: %s", path)
	reportSetupProgress(uc.progressReporter, SetupProgressEvent{Type: SetupProgressEventTypeLoadStarted})
	return nil
}

// pollSetup は読み込み結果が届いていれば結合する。届いていなければ何もしない。
func (uc *IkRigUsecase) pollSetup() {
	if uc.phase != SETUP_PHASE_LOADING || uc.pending == nil {
		return
	}
	select {
	case result, ok := <-uc.pending:
		uc.pending = nil
		if !ok {
			uc.failSetup(merrors.NewAssetLoadError("", errors.New("読み込み結果を受け取れませんでした")))
			return
		}
		if result.Err != nil {
			uc.failSetup(result.Err)
			return
		}
		if err := uc.Bind(result.Asset); err != nil {
			return
		}
	default:
	}
}

// Bind は読み込んだアセットのスケルトンへIKチェーン・剛体・プロキシ・クリップを結合する。
// 失敗した場合は準備失敗段階へ移り、フレーム処理はIKと物理結合なしで続く。
func (uc *IkRigUsecase) Bind(asset *rig.RigAsset) error {
	if uc.phase == SETUP_PHASE_READY {
		return fmt.Errorf("リグは結合済みです")
	}
	reportSetupProgress(uc.progressReporter, SetupProgressEvent{Type: SetupProgressEventTypeAssetLoaded})
	context, err := uc.bindContext(asset)
	if err != nil {
		uc.failSetup(err)
		return err
	}
	uc.context = context
	uc.phase = SETUP_PHASE_READY
	uc.setupErr = nil
	uc.logInfo("リグ準備完了: chains=%d proxies=%d clips=%d", len(context.Chains), len(context.Proxies), len(context.Mixer.ClipNames()))
	reportSetupProgress(uc.progressReporter, SetupProgressEvent{
		Type:       SetupProgressEventTypeReady,
		ChainCount: len(context.Chains),
		ProxyCount: len(context.Proxies),
		ClipCount:  len(context.Mixer.ClipNames()),
	})
	return nil
}

// bindContext はアセットからフレーム文脈を構築する。
func (uc *IkRigUsecase) bindContext(asset *rig.RigAsset) (*FrameContext, error) {
	if asset == nil || asset.Model == nil {
		return nil, merrors.NewSetupError(model.RigWarningSkeletonEmpty, "asset=nil", nil)
	}
	mesh, ok := asset.Model.SkinnedMesh()
	if !ok {
		return nil, merrors.NewSetupError(model.RigWarningSkinnedMeshMissing, fmt.Sprintf("path=%s", asset.Model.Path), nil)
	}
	skeleton := asset.Model.Skeleton
	if skeleton.Len() == 0 {
		return nil, merrors.NewSetupError(model.RigWarningSkeletonEmpty, fmt.Sprintf("path=%s", asset.Model.Path), nil)
	}
	skeleton.UpdateWorldTransforms()
	reportSetupProgress(uc.progressReporter, SetupProgressEvent{Type: SetupProgressEventTypeSkinnedMeshFound})

	context := &FrameContext{
		Rig:      asset.Model,
		Skeleton: skeleton,
		Mesh:     mesh,
	}

	chains, err := uc.bindChains(skeleton, asset.Chains)
	if err != nil {
		return nil, err
	}
	context.Chains = chains
	reportSetupProgress(uc.progressReporter, SetupProgressEvent{
		Type:       SetupProgressEventTypeChainsBound,
		ChainCount: len(chains),
	})

	pendingProxies, err := uc.resolveProxies(skeleton, asset.Proxies)
	if err != nil {
		return nil, err
	}

	mixer, err := uc.bindMixer(context, asset.Clips)
	if err != nil {
		return nil, err
	}
	context.Mixer = mixer
	reportSetupProgress(uc.progressReporter, SetupProgressEvent{
		Type:      SetupProgressEventTypeClipsAdded,
		ClipCount: len(asset.Clips),
	})

	// ワールドへの追加は最後に行い、途中で失敗した場合は追加分を取り除く
	added := make([]moutput.IPhysicsBody, 0, len(asset.Bodies)+len(pendingProxies))
	if err := uc.addBodies(asset.Bodies, &added); err != nil {
		uc.removeBodies(added)
		return nil, err
	}
	reportSetupProgress(uc.progressReporter, SetupProgressEvent{
		Type:      SetupProgressEventTypeBodiesAdded,
		BodyCount: len(asset.Bodies),
	})

	proxies, err := uc.bindProxies(skeleton, pendingProxies, &added)
	if err != nil {
		uc.removeBodies(added)
		return nil, err
	}
	context.Proxies = proxies
	reportSetupProgress(uc.progressReporter, SetupProgressEvent{
		Type:       SetupProgressEventTypeProxiesBound,
		ProxyCount: len(proxies),
	})
	return context, nil
}

// bindChains はチェーン定義を解決し、起動条件と結び付ける。
func (uc *IkRigUsecase) bindChains(skeleton *model.Skeleton, specs []rig.ChainSpec) ([]*ChainBinding, error) {
	bindings := make([]*ChainBinding, 0, len(specs))
	for _, spec := range specs {
		def, err := spec.ResolveChainDef(skeleton)
		if err != nil {
			return nil, err
		}
		chain, err := model.NewIkChain(skeleton, def)
		if err != nil {
			return nil, err
		}
		gate := uc.defaultGate
		if strings.TrimSpace(spec.Activation) != "" {
			gate, err = NewActivationGate(spec.Activation)
			if err != nil {
				return nil, merrors.NewConfigError("chains."+spec.Name+".activation", err.Error())
			}
		}
		bindings = append(bindings, &ChainBinding{
			Chain:             chain,
			Gate:              gate,
			lastTargetVersion: chain.Target.Version(),
		})
	}
	if uc.options.ParallelSolve {
		chains := make([]*model.IkChain, len(bindings))
		for i, binding := range bindings {
			chains[i] = binding.Chain
		}
		// 並列解決ではチェーン間でボーンを共有しないことが前提となる
		if err := model.ValidateDisjointChains(chains); err != nil {
			return nil, err
		}
	}
	return bindings, nil
}

// proxyBinding は剛体生成前のプロキシと形状を表す。
type proxyBinding struct {
	proxy *physics.PhysicsProxy
	shape physics.Shape
}

// resolveProxies はプロキシの追従ボーンを解決する。剛体はまだ生成しない。
func (uc *IkRigUsecase) resolveProxies(skeleton *model.Skeleton, defs []physics.ProxyDef) ([]proxyBinding, error) {
	proxies := make([]proxyBinding, 0, len(defs))
	if len(defs) == 0 {
		return proxies, nil
	}
	if uc.world == nil {
		uc.logWarn("物理ワールドが未設定のためプロキシを結合しません: count=%d", len(defs))
		return proxies, nil
	}
	for _, def := range defs {
		boneIndex, err := rig.ResolveProxyBoneIndex(skeleton, def)
		if err != nil {
			return nil, err
		}
		if err := (physics.BodyDef{Name: def.Name, Shape: def.Shape, Kinematic: true}).Validate(); err != nil {
			return nil, merrors.NewSetupError(model.RigWarningBodyInvalid, fmt.Sprintf("proxy=%s", def.Name), err)
		}
		proxies = append(proxies, proxyBinding{
			proxy: &physics.PhysicsProxy{Name: def.Name, BoneIndex: boneIndex, Offset: def.Offset},
			shape: def.Shape,
		})
	}
	return proxies, nil
}

// addBodies は剛体を物理ワールドへ追加し、追加できたものを added へ積む。
func (uc *IkRigUsecase) addBodies(defs []physics.BodyDef, added *[]moutput.IPhysicsBody) error {
	if len(defs) == 0 {
		return nil
	}
	if uc.world == nil {
		uc.logWarn("物理ワールドが未設定のため剛体を追加しません: count=%d", len(defs))
		return nil
	}
	for _, def := range defs {
		body, err := uc.world.AddBody(def)
		if err != nil {
			return merrors.NewSetupError(model.RigWarningBodyInvalid, fmt.Sprintf("body=%s", def.Name), err)
		}
		*added = append(*added, body)
	}
	return nil
}

// bindProxies は解決済みプロキシごとにキネマティック剛体を生成して結び付ける。
func (uc *IkRigUsecase) bindProxies(skeleton *model.Skeleton, bindings []proxyBinding, added *[]moutput.IPhysicsBody) ([]*physics.PhysicsProxy, error) {
	proxies := make([]*physics.PhysicsProxy, 0, len(bindings))
	for _, binding := range bindings {
		proxy := binding.proxy
		body, err := uc.world.AddBody(physics.BodyDef{
			Name:      proxy.Name,
			Shape:     binding.shape,
			Kinematic: true,
			Position:  proxy.TargetPosition(skeleton),
		})
		if err != nil {
			return nil, merrors.NewSetupError(model.RigWarningBodyInvalid, fmt.Sprintf("proxy=%s", proxy.Name), err)
		}
		*added = append(*added, body)
		proxy.Body = body
		proxies = append(proxies, proxy)
	}
	return proxies, nil
}

// removeBodies は準備途中で追加した剛体をワールドから取り除く。
func (uc *IkRigUsecase) removeBodies(bodies []moutput.IPhysicsBody) {
	for i := len(bodies) - 1; i >= 0; i-- {
		uc.world.RemoveBody(bodies[i])
	}
	if len(bodies) > 0 {
		uc.logWarn("準備失敗のため追加済みの剛体を取り除きました: count=%d", len(bodies))
	}
}

// bindMixer はクリップを登録し、トリガークリップの完了通知を起動条件へつなぐ。
func (uc *IkRigUsecase) bindMixer(context *FrameContext, clips []*animation.Clip) (*animation.Mixer, error) {
	mixer := animation.NewMixer(context.Skeleton)
	for _, clip := range clips {
		if err := mixer.AddClip(clip); err != nil {
			return nil, err
		}
	}

	triggerClip := strings.TrimSpace(uc.options.TriggerClip)
	if triggerClip == "" {
		// トリガーがない場合は最初から完了扱い
		context.clipFinished = true
		return mixer, nil
	}
	action, err := mixer.ClipAction(triggerClip)
	if err != nil {
		return nil, merrors.NewSetupError(model.RigWarningTriggerClipMissing, fmt.Sprintf("clip=%s", triggerClip), err)
	}
	mixer.AddFinishedListener(func(event animation.FinishedEvent) {
		if event.ClipName == triggerClip {
			context.clipFinished = true
			uc.logInfo("トリガークリップ再生完了: %s", triggerClip)
		}
	})
	action.SetLoop(animation.LOOP_MODE_ONCE).SetClampWhenFinished(true).Play()
	return mixer, nil
}

// failSetup は準備失敗段階へ移し、ログへ記録する。
func (uc *IkRigUsecase) failSetup(err error) {
	uc.phase = SETUP_PHASE_FAILED
	uc.setupErr = err
	uc.context = nil
	if merrors.IsAssetLoadError(err) {
		uc.logError("リグ読み込みに失敗しました: %v", err)
	} else {
		uc.logError("リグ準備に失敗しました。IKと物理結合を無効にして続行します: %v", err)
	}
	reportSetupProgress(uc.progressReporter, SetupProgressEvent{Type: SetupProgressEventTypeFailed, Err: err})
}

// waitSetupResult は読み込み結果を待つ。バッチ処理用。
func waitSetupResult(results <-chan moutput.AssetLoadResult) (*rig.RigAsset, error) {
	result, ok := <-results
	if !ok {
		return nil, merrors.NewAssetLoadError("", errors.New("読み込み結果を受け取れませんでした"))
	}
	return result.Asset, result.Err
}
