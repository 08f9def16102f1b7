// 指示: miu200521358
package minteractor

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/miu200521358/mu_ikrig/pkg/domain/ik"
	"github.com/miu200521358/mu_ikrig/pkg/usecase/port/moutput"
)

// solveChains は目標を更新し、起動条件を満たすチェーンを解く。
// 返す一覧はチェーン結合と同じ順序になる。
func (uc *IkRigUsecase) solveChains(context *FrameContext) []ChainReport {
	pointer := uc.readPointer()
	uc.updateTargets(context, pointer)

	reports := make([]ChainReport, len(context.Chains))
	for i, binding := range context.Chains {
		binding.Chain.SyncAnchor(context.Skeleton)
		version := binding.Chain.Target.Version()
		state := ActivationState{
			ClipFinished:  context.clipFinished,
			PointerActive: pointer.Active,
			TargetMoved:   version != binding.lastTargetVersion,
		}
		binding.lastTargetVersion = version
		active, err := binding.Gate.Evaluate(state)
		if err != nil {
			uc.logWarn("起動条件を評価できないためチェーンを解きません: chain=%s: %v", binding.Chain.Name, err)
			active = false
		}
		reports[i] = ChainReport{Name: binding.Chain.Name, Active: active}
	}

	if uc.options.ParallelSolve {
		uc.solveParallel(context, reports)
	} else {
		for i, binding := range context.Chains {
			if reports[i].Active {
				reports[i].Result = uc.solveOne(binding)
			}
		}
	}
	return reports
}

// solveOne は1チェーンを解き、結果を保持する。
func (uc *IkRigUsecase) solveOne(binding *ChainBinding) ik.SolveResult {
	result := uc.solver.Solve(binding.Chain)
	binding.lastResult = result
	return result
}

// solveParallel はチェーンを並列に解く。各チェーンの関節は互いに素なので書き込みは競合しない。
func (uc *IkRigUsecase) solveParallel(context *FrameContext, reports []ChainReport) {
	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, binding := range context.Chains {
		if !reports[i].Active {
			continue
		}
		group.Go(func() error {
			reports[i].Result = uc.solveOne(binding)
			return nil
		})
	}
	_ = group.Wait()
}

// updateTargets はポインタ入力を目標平面へ投影し、全チェーンの目標へ書き込む。
func (uc *IkRigUsecase) updateTargets(context *FrameContext, pointer moutput.PointerState) {
	if !pointer.Active || uc.options.Camera == nil {
		return
	}
	plane := uc.options.TargetPlane
	target, ok := uc.options.Camera.PointerToPlane(pointer.X, pointer.Y, plane.Point, plane.Normal)
	if !ok {
		return
	}
	for _, binding := range context.Chains {
		binding.Chain.Target.Set(target)
	}
}

// readPointer はフレーム内で共有するポインタ入力を読む。
func (uc *IkRigUsecase) readPointer() moutput.PointerState {
	if uc.input == nil {
		return moutput.PointerState{}
	}
	return uc.input.Pointer()
}
