// 指示: miu200521358
// Package messages は表示に使うメッセージキーと翻訳表を提供する。
package messages

// メッセージキー一覧。
const (
	HelpUsageTitle = "使い方"
	HelpUsage      = "使い方説明"

	LabelRigPath    = "リグ入力"
	LabelRigPathTip = "リグ入力説明"
	LabelConfigPath = "設定ファイル"
	LabelConfigTip  = "設定ファイル説明"
	LabelFrames     = "フレーム数"
	LabelFramesTip  = "フレーム数説明"
	LabelViewer     = "ビューア"
	LabelViewerTip  = "ビューア説明"

	MessageRigRequired      = "リグファイルを指定してください"
	MessageLoadFailed       = "読み込み失敗"
	MessageSetupFailed      = "リグ準備失敗"
	MessageViewerNotBuilt   = "ビューア未同梱"
	MessageConfigLoadFailed = "設定読み込み失敗"

	LogSetupPhase    = "リグ準備段階: %s"
	LogFrameSummary  = "フレーム集計: フレーム=%d 解決=%d 収束=%d"
	LogSweepSummary  = "目標スイープ: 件数=%d 収束=%d 到達不能=%d"
	HudPhase         = "状態: %s"
	HudTargetReached = "目標到達"
)

// Translations は言語ごとの翻訳表を返す。
func Translations() map[string]map[string]string {
	return map[string]map[string]string{
		"ja": {
			HelpUsageTitle:          "使い方",
			HelpUsage:               "リグアセット(YAML)を読み込み、ポインタ目標へIKで追従させながら物理とアニメーションを毎フレーム更新します。",
			LabelRigPath:            "リグファイル",
			LabelRigPathTip:         "ボーン・メッシュ・IKチェーン・剛体・クリップを記述したYAMLファイル",
			LabelConfigPath:         "設定ファイル",
			LabelConfigTip:          "フレーム設定・物理・ログを記述したYAMLファイル(省略時は既定値)",
			LabelFrames:             "フレーム数",
			LabelFramesTip:          "ヘッドレス実行で進めるフレーム数",
			LabelViewer:             "ビューア",
			LabelViewerTip:          "ウィンドウを開いてマウスで目標を動かす",
			MessageRigRequired:      "リグファイルを指定してください",
			MessageLoadFailed:       "読み込みに失敗しました",
			MessageSetupFailed:      "リグ準備に失敗しました。IKと物理結合なしで続行します",
			MessageViewerNotBuilt:   "ビューアは viewer ビルドタグ付きでのみ利用できます",
			MessageConfigLoadFailed: "設定ファイルの読み込みに失敗しました",
			LogSetupPhase:           "リグ準備段階: %s",
			LogFrameSummary:         "フレーム集計: フレーム=%d 解決=%d 収束=%d",
			LogSweepSummary:         "目標スイープ: 件数=%d 収束=%d 到達不能=%d",
			HudPhase:                "状態: %s",
			HudTargetReached:        "目標到達",
		},
		"en": {
			HelpUsageTitle:          "Usage",
			HelpUsage:               "Loads a rig asset (YAML) and updates physics, IK toward the pointer target, and animation every frame.",
			LabelRigPath:            "Rig file",
			LabelRigPathTip:         "YAML file describing bones, meshes, IK chains, bodies and clips",
			LabelConfigPath:         "Config file",
			LabelConfigTip:          "YAML file with frame, physics and log settings (defaults when omitted)",
			LabelFrames:             "Frames",
			LabelFramesTip:          "Number of frames to run headless",
			LabelViewer:             "Viewer",
			LabelViewerTip:          "Open a window and drag the target with the mouse",
			MessageRigRequired:      "Specify a rig file",
			MessageLoadFailed:       "Failed to load",
			MessageSetupFailed:      "Rig setup failed. Continuing without IK and physics binding",
			MessageViewerNotBuilt:   "The viewer is only available when built with the viewer tag",
			MessageConfigLoadFailed: "Failed to load the config file",
			LogSetupPhase:           "Setup phase: %s",
			LogFrameSummary:         "Frame summary: frames=%d solved=%d converged=%d",
			LogSweepSummary:         "Target sweep: count=%d converged=%d unreachable=%d",
			HudPhase:                "Phase: %s",
			HudTargetReached:        "Target reached",
		},
	}
}
