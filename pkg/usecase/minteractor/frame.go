// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_ikrig/pkg/domain/deform"
	"github.com/miu200521358/mu_ikrig/pkg/domain/physics"
	"github.com/miu200521358/mu_ikrig/pkg/usecase/port/moutput"
)

// Frame は1フレーム分の処理を固定順序で実行する。
// 物理 → IK解決 → 姿勢反映 → プロキシ同期 → アニメーション → 描画 の順で、
// 準備が完了していない間はIK解決から同期までを飛ばす。
func (uc *IkRigUsecase) Frame() FrameReport {
	uc.pollSetup()
	report := FrameReport{Frame: uc.frame, Phase: uc.phase}
	dt := uc.options.FixedTimestep

	if uc.world != nil {
		uc.world.Step(dt)
	}
	uc.markStage(&report, FRAME_STAGE_PHYSICS_STEP)

	context := uc.readyContext()
	if context != nil {
		report.Chains = uc.solveChains(context)
		uc.markStage(&report, FRAME_STAGE_IK_SOLVE)

		uc.applyPoses(context, report.Chains)
		uc.markStage(&report, FRAME_STAGE_POSE_APPLY)

		physics.SyncProxies(context.Skeleton, context.Proxies)
		uc.markStage(&report, FRAME_STAGE_PROXY_SYNC)
	}

	// IK反映後にミキサーを進めるため、同じボーンを動かすクリップはIK結果を上書きする
	if uc.context != nil && uc.context.Mixer != nil {
		uc.context.Mixer.Update(dt)
	}
	uc.markStage(&report, FRAME_STAGE_ANIMATION_BLEND)

	report.RenderErr = uc.render()
	uc.markStage(&report, FRAME_STAGE_RENDER)

	uc.logVerbose("フレーム完了: frame=%d phase=%s solved=%d", report.Frame, report.Phase, report.SolvedChainCount())
	uc.frame++
	return report
}

// readyContext は準備完了時のフレーム文脈を返す。
func (uc *IkRigUsecase) readyContext() *FrameContext {
	if uc.phase != SETUP_PHASE_READY {
		return nil
	}
	return uc.context
}

// markStage は段階の実行を記録し、観測者へ通知する。
func (uc *IkRigUsecase) markStage(report *FrameReport, stage FrameStage) {
	report.Stages = append(report.Stages, stage)
	if uc.observer != nil {
		uc.observer.ObserveStage(report.Frame, stage)
	}
}

// applyPoses は解いたチェーンの関節位置をボーン回転へ反映する。
func (uc *IkRigUsecase) applyPoses(context *FrameContext, reports []ChainReport) {
	for i, binding := range context.Chains {
		if i >= len(reports) || !reports[i].Active {
			continue
		}
		if err := deform.ApplyChainPose(context.Skeleton, binding.Chain, uc.options.EffectorPolicy); err != nil {
			uc.logWarn("姿勢反映に失敗しました: chain=%s: %v", binding.Chain.Name, err)
		}
	}
}

// render はシーンを組み立てて描画担当へ渡す。描画エラーはフレームを止めない。
func (uc *IkRigUsecase) render() error {
	if uc.renderer == nil {
		return nil
	}
	if err := uc.renderer.Render(uc.buildScene()); err != nil {
		uc.logWarn("描画に失敗しました: frame=%d: %v", uc.frame, err)
		return err
	}
	return nil
}

// buildScene は現在の姿勢から描画用シーンを組み立てる。
func (uc *IkRigUsecase) buildScene() RenderScene {
	scene := RenderScene{Frame: uc.frame, Phase: string(uc.phase)}
	if uc.world != nil {
		for _, body := range uc.world.Bodies() {
			scene.Bodies = append(scene.Bodies, moutput.RenderBody{
				Name:     body.Name(),
				Shape:    body.Shape(),
				Kind:     body.Kind(),
				Position: body.Position(),
			})
		}
	}

	context := uc.context
	if context == nil || context.Skeleton == nil {
		return scene
	}
	skeleton := context.Skeleton
	skeleton.UpdateWorldTransforms()
	for _, bone := range skeleton.Values() {
		scene.Bones = append(scene.Bones, moutput.RenderBone{
			Name:     bone.Name,
			Parent:   bone.ParentIndex,
			Position: skeleton.WorldPosition(bone.Index()),
			Rotation: skeleton.WorldRotation(bone.Index()),
		})
	}
	scene.Vertices = deform.SkinVertices(skeleton, context.Mesh)
	for _, binding := range context.Chains {
		scene.Targets = append(scene.Targets, moutput.RenderTarget{
			Chain:     binding.Chain.Name,
			Position:  binding.Chain.Target.Load(),
			Converged: binding.lastResult.Converged,
		})
	}
	return scene
}
