// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"gopkg.in/Knetic/govaluate.v3"
)

const (
	// ACTIVATION_PARAM_CLIP_FINISHED はトリガークリップの再生完了を表す変数名。
	ACTIVATION_PARAM_CLIP_FINISHED = "clip_finished"
	// ACTIVATION_PARAM_POINTER_ACTIVE はポインタ入力中を表す変数名。
	ACTIVATION_PARAM_POINTER_ACTIVE = "pointer_active"
	// ACTIVATION_PARAM_TARGET_MOVED は前フレームから目標が更新されたことを表す変数名。
	ACTIVATION_PARAM_TARGET_MOVED = "target_moved"
)

// activationParams は起動条件式で使える変数名。
var activationParams = map[string]struct{}{
	ACTIVATION_PARAM_CLIP_FINISHED:  {},
	ACTIVATION_PARAM_POINTER_ACTIVE: {},
	ACTIVATION_PARAM_TARGET_MOVED:   {},
}

// ActivationState は起動条件式の評価入力を表す。
type ActivationState struct {
	ClipFinished  bool
	PointerActive bool
	TargetMoved   bool
}

// ActivationGate はIK解決の起動条件式を表す。
type ActivationGate struct {
	source     string
	expression *govaluate.EvaluableExpression
}

// NewActivationGate は起動条件式を解析する。空文字は常に真として扱う。
func NewActivationGate(source string) (*ActivationGate, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return &ActivationGate{}, nil
	}
	expression, err := govaluate.NewEvaluableExpression(trimmed)
	if err != nil {
		return nil, fmt.Errorf("起動条件式を解析できません: %s: %w", trimmed, err)
	}
	for _, name := range expression.Vars() {
		if _, ok := activationParams[name]; !ok {
			return nil, fmt.Errorf("起動条件式に未対応の変数があります: %s", name)
		}
	}
	return &ActivationGate{source: trimmed, expression: expression}, nil
}

// Source は条件式の文字列を返す。
func (g *ActivationGate) Source() string {
	return g.source
}

// Evaluate は条件式を評価する。真偽値以外の結果はエラー。
func (g *ActivationGate) Evaluate(state ActivationState) (bool, error) {
	if g == nil || g.expression == nil {
		return true, nil
	}
	result, err := g.expression.Evaluate(map[string]interface{}{
		ACTIVATION_PARAM_CLIP_FINISHED:  state.ClipFinished,
		ACTIVATION_PARAM_POINTER_ACTIVE: state.PointerActive,
		ACTIVATION_PARAM_TARGET_MOVED:   state.TargetMoved,
	})
	if err != nil {
		return false, fmt.Errorf("起動条件式の評価に失敗しました: %s: %w", g.source, err)
	}
	active, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("起動条件式の結果が真偽値ではありません: %s=%v", g.source, result)
	}
	return active, nil
}
