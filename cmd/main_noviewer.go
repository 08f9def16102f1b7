//go:build !viewer
// +build !viewer

// 指示: miu200521358
package main

import (
	"errors"

	"github.com/miu200521358/mu_ikrig/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_ikrig/pkg/shared/base/i18n"
)

// runViewer はビューア未同梱のビルドでエラーを返す。
func runViewer(a *app, _ options) error {
	return errors.New(i18n.TranslateOrMark(a.translator, messages.MessageViewerNotBuilt))
}
