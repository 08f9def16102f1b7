// 指示: miu200521358
package model

const (
	// RigWarningSkinnedMeshMissing はスキンメッシュ未検出警告。
	RigWarningSkinnedMeshMissing = "RigWarningSkinnedMeshMissing"
	// RigWarningSkeletonEmpty はボーン階層が空の警告。
	RigWarningSkeletonEmpty = "RigWarningSkeletonEmpty"
	// RigWarningChainBoneMissing はIKチェーン構成ボーン未検出警告。
	RigWarningChainBoneMissing = "RigWarningChainBoneMissing"
	// RigWarningChainTooShort はIKチェーンの関節数不足警告。
	RigWarningChainTooShort = "RigWarningChainTooShort"
	// RigWarningChainNotDescendant はIKチェーンの親子関係不正警告。
	RigWarningChainNotDescendant = "RigWarningChainNotDescendant"
	// RigWarningChainBoneOverlap はチェーン間のボーン重複警告。
	RigWarningChainBoneOverlap = "RigWarningChainBoneOverlap"
	// RigWarningChainZeroLength は長さゼロのリンク警告。
	RigWarningChainZeroLength = "RigWarningChainZeroLength"
	// RigWarningProxyBoneMissing は物理プロキシ追従ボーン未検出警告。
	RigWarningProxyBoneMissing = "RigWarningProxyBoneMissing"
	// RigWarningClipBoneMissing はアニメーショントラック対象ボーン未検出警告。
	RigWarningClipBoneMissing = "RigWarningClipBoneMissing"
	// RigWarningBodyInvalid は剛体追加失敗警告。
	RigWarningBodyInvalid = "RigWarningBodyInvalid"
	// RigWarningTriggerClipMissing は起動トリガークリップ未検出警告。
	RigWarningTriggerClipMissing = "RigWarningTriggerClipMissing"
	// RigWarningDegenerateGeometry はIK計算中の親子関節一致警告。
	RigWarningDegenerateGeometry = "RigWarningDegenerateGeometry"
)
