// 指示: miu200521358
// Package ik はFABRIK方式のIKソルバーを提供する。
package ik

import (
	"github.com/miu200521358/mu_ikrig/pkg/domain/mmath"
	"github.com/miu200521358/mu_ikrig/pkg/domain/model"
	"github.com/miu200521358/mu_ikrig/pkg/shared/base/logging"
)

const (
	// anchorTolerance はルートがアンカー上にあるとみなす距離。
	anchorTolerance = 1e-9
)

// SolveResult は1チェーン分の解決結果を表す。
type SolveResult struct {
	// Converged は目標との距離(2乗)が閾値以内に収まったか。
	Converged bool
	// Reachable は目標がチェーン全長の届く範囲内か。
	Reachable bool
	// Iterations は実行した反復回数。
	Iterations int
	// DistanceSqr は解決後のエフェクタと目標の距離(2乗)。
	DistanceSqr float64
	// Mutated は関節位置を書き換えたか。
	Mutated bool
}

// Solver はFABRIKソルバーを表す。
type Solver struct {
	logger logging.ILogger
}

// NewSolver はソルバーを生成する。logger が nil の場合は既定ロガーを使う。
func NewSolver(logger logging.ILogger) *Solver {
	return &Solver{logger: logger}
}

// Solve はチェーンを既定ソルバーで解決し、収束したかを返す。
func Solve(chain *model.IkChain) bool {
	return NewSolver(nil).Solve(chain).Converged
}

// Solve はチェーンの関節位置をその場で更新し、エフェクタを目標へ近づける。
func (s *Solver) Solve(chain *model.IkChain) SolveResult {
	if chain == nil || chain.Len() < 2 {
		return SolveResult{}
	}
	target := chain.Target.Load()
	startDistanceSqr := chain.EffectorDistanceSqr(target)
	reachable := chain.Anchor.Distance(target) <= chain.TotalLength()

	if startDistanceSqr <= chain.SquaredDistanceThreshold {
		return SolveResult{Converged: true, Reachable: reachable, DistanceSqr: startDistanceSqr}
	}

	if !reachable {
		// 届かない目標はアンカーから目標方向へ一直線に伸ばす
		s.stretchToward(chain, target)
		s.forwardReach(chain)
		distanceSqr := chain.EffectorDistanceSqr(target)
		s.verbose("IK到達不能: chain=%s dist2=%.6f total=%.6f", chain.Name, distanceSqr, chain.TotalLength())
		return SolveResult{
			Converged:   distanceSqr <= chain.SquaredDistanceThreshold,
			Reachable:   false,
			Iterations:  1,
			DistanceSqr: distanceSqr,
			Mutated:     true,
		}
	}

	startPositions := chain.Positions()
	startAnchored := startPositions[0].Distance(chain.Anchor) <= anchorTolerance
	var bestPositions []mmath.Vec3
	bestDistanceSqr := 0.0
	iterations := 0

	for iterations < chain.IterationCount {
		iterations++
		s.backwardReach(chain, target)
		s.forwardReach(chain)

		distanceSqr := chain.EffectorDistanceSqr(target)
		s.verbose("IK反復: chain=%s iter=%d dist2=%.8f", chain.Name, iterations, distanceSqr)
		if bestPositions == nil || distanceSqr < bestDistanceSqr {
			bestPositions = chain.Positions()
			bestDistanceSqr = distanceSqr
		}
		if distanceSqr <= chain.SquaredDistanceThreshold {
			break
		}
	}

	// 開始時より遠ざかる結果は採用しない
	if startAnchored && bestDistanceSqr >= startDistanceSqr {
		chain.SetPositions(startPositions)
		return SolveResult{
			Converged:   false,
			Reachable:   true,
			Iterations:  iterations,
			DistanceSqr: startDistanceSqr,
			Mutated:     false,
		}
	}
	chain.SetPositions(bestPositions)
	s.refreshDirections(chain)

	return SolveResult{
		Converged:   bestDistanceSqr <= chain.SquaredDistanceThreshold,
		Reachable:   true,
		Iterations:  iterations,
		DistanceSqr: bestDistanceSqr,
		Mutated:     true,
	}
}

// backwardReach はエフェクタを目標に置き、ルート方向へリンク長を保って関節を引き寄せる。
// 関節 i を置くとき、リンク i→i+1 の向きは関節 i+2 の制約で i+1→i+2 の向きに対して補正する。
func (s *Solver) backwardReach(chain *model.IkChain, target mmath.Vec3) {
	joints := chain.Joints
	last := len(joints) - 1
	joints[last].Position = target
	for i := last - 1; i >= 0; i-- {
		child := joints[i+1]
		link := s.directionOrFallback(chain, child.Position.Subed(joints[i].Position), child.Direction)
		if i+2 <= last {
			grandchild := joints[i+2]
			forward := s.directionOrFallback(chain, grandchild.Position.Subed(child.Position), grandchild.Direction)
			link = s.normalizeClamped(chain, grandchild.Constraint.Clamp(link, forward, chain.ReferenceAxis), link)
		}
		joints[i].Position = child.Position.Subed(link.MuledScalar(joints[i].Length))
	}
}

// forwardReach はルートをアンカーへ戻し、エフェクタ方向へリンク長と制約を満たして関節を置き直す。
func (s *Solver) forwardReach(chain *model.IkChain) {
	joints := chain.Joints
	joints[0].Position = chain.Anchor
	forward := chain.RootAxis
	for i := 1; i < len(joints); i++ {
		parent := joints[i-1]
		joint := joints[i]
		direction := s.directionOrFallback(chain, joint.Position.Subed(parent.Position), joint.Direction)
		direction = s.normalizeClamped(chain, joint.Constraint.Clamp(direction, forward, chain.ReferenceAxis), direction)
		joint.Position = parent.Position.Added(direction.MuledScalar(parent.Length))
		joint.Direction = direction
		forward = direction
	}
}

// stretchToward はアンカーから目標方向の直線上に関節を並べる。
func (s *Solver) stretchToward(chain *model.IkChain, target mmath.Vec3) {
	joints := chain.Joints
	direction := s.directionOrFallback(chain, target.Subed(chain.Anchor), chain.RootAxis)
	joints[0].Position = chain.Anchor
	for i := 1; i < len(joints); i++ {
		joints[i].Position = joints[i-1].Position.Added(direction.MuledScalar(joints[i-1].Length))
	}
}

// refreshDirections は採用した姿勢から各関節の有効方向を更新する。
func (s *Solver) refreshDirections(chain *model.IkChain) {
	for i := 1; i < chain.Len(); i++ {
		joint := chain.Joints[i]
		if direction, ok := joint.Position.Subed(chain.Joints[i-1].Position).Normalized(); ok {
			joint.Direction = direction
		}
	}
}

// directionOrFallback はベクトルを正規化し、長さが0または非有限なら代替方向を返す。
func (s *Solver) directionOrFallback(chain *model.IkChain, vector mmath.Vec3, fallback mmath.Vec3) mmath.Vec3 {
	if vector.IsFinite() {
		if direction, ok := vector.Normalized(); ok {
			return direction
		}
	}
	s.reportDegenerate(chain)
	if direction, ok := fallback.Normalized(); ok {
		return direction
	}
	return chain.RootAxis
}

// normalizeClamped は制約補正後の方向を単位化する。補正結果が不正なら補正前を返す。
func (s *Solver) normalizeClamped(chain *model.IkChain, clamped mmath.Vec3, original mmath.Vec3) mmath.Vec3 {
	if !clamped.IsFinite() {
		s.reportDegenerate(chain)
		return original
	}
	direction, ok := clamped.Normalized()
	if !ok {
		s.reportDegenerate(chain)
		return original
	}
	return direction
}

// reportDegenerate は縮退した幾何をチェーンごとに一度だけ警告する。
func (s *Solver) reportDegenerate(chain *model.IkChain) {
	if !chain.MarkDegenerateReported() {
		return
	}
	logger := s.currentLogger()
	if logger == nil {
		return
	}
	logger.Warn("IK縮退を検出したため代替方向を使用します: chain=%s reason=%s", chain.Name, model.RigWarningDegenerateGeometry)
}

// verbose はIK冗長ログを出力する。
func (s *Solver) verbose(format string, params ...any) {
	logger := s.currentLogger()
	if logger == nil || !logger.IsVerboseEnabled(logging.VERBOSE_INDEX_IK) {
		return
	}
	logger.Verbose(logging.VERBOSE_INDEX_IK, format, params...)
}

// currentLogger は利用するロガーを返す。
func (s *Solver) currentLogger() logging.ILogger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return logging.DefaultLogger()
}
