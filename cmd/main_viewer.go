//go:build viewer
// +build viewer

// 指示: miu200521358
package main

import (
	"github.com/miu200521358/mu_ikrig/pkg/adapter/mpresenter/snapshot"
	"github.com/miu200521358/mu_ikrig/pkg/infra/viewer"
	"github.com/miu200521358/mu_ikrig/pkg/usecase/minteractor"
)

// runViewer はウィンドウを開き、非同期読み込みでリグを準備しながらフレームを進める。
func runViewer(a *app, opts options) error {
	recorder := snapshot.NewRecordingRenderer(1)
	pointer := viewer.NewPointerInput()
	usecase, err := minteractor.NewIkRigUsecase(minteractor.IkRigUsecaseDeps{
		World:            a.world,
		Loader:           a.repository,
		Input:            pointer,
		Renderer:         recorder,
		ProgressReporter: &progressPrinter{out: a.out, translator: a.translator},
		Logger:           a.logger,
	}, a.frame)
	if err != nil {
		return err
	}
	if err := usecase.BeginSetup(opts.rigPath); err != nil {
		return err
	}
	return viewer.Run(usecase, recorder, pointer, viewer.Options{
		Title:      appName,
		Camera:     a.frame.Camera,
		Translator: a.translator,
	})
}
