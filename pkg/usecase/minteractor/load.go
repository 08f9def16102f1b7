// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_ikrig/pkg/domain/rig"
	"github.com/miu200521358/mu_ikrig/pkg/usecase/port/moutput"
)

// LoadRig はリグアセットを読み込み、結果が届くまで待つ。
// 読み込みに失敗した場合は準備失敗段階へ移り、フレーム処理はIKと物理結合なしで続く。
func (uc *IkRigUsecase) LoadRig(rep moutput.IAssetLoader, path string) (*rig.RigAsset, error) {
	loader := rep
	if loader == nil {
		loader = uc.loader
	}
	if loader == nil {
		return nil, fmt.Errorf("アセット読み込み担当が設定されていません")
	}
	asset, err := waitSetupResult(loader.LoadAsync(path))
	if err != nil {
		if uc.phase != SETUP_PHASE_READY {
			uc.failSetup(err)
		}
		return nil, err
	}
	return asset, nil
}
