// 指示: miu200521358
// Package merrors はリグ処理で扱うエラー種別を提供する。
package merrors

import (
	"errors"
	"fmt"
)

// SetupError はアセット読み込み後のIK/物理バインド構築に失敗したことを表す。
// フレームループは継続し、IK/物理バインド機能だけが無効になる。
type SetupError struct {
	// Reason は警告ID(model.RigWarning*)を保持する。
	Reason string
	Detail string
	Cause  error
}

// NewSetupError はセットアップエラーを生成する。
func NewSetupError(reason string, detail string, cause error) *SetupError {
	return &SetupError{Reason: reason, Detail: detail, Cause: cause}
}

// Error はエラーメッセージを返す。
func (e *SetupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("セットアップに失敗しました[%s]: %s: %v", e.Reason, e.Detail, e.Cause)
	}
	return fmt.Sprintf("セットアップに失敗しました[%s]: %s", e.Reason, e.Detail)
}

// Unwrap は原因エラーを返す。
func (e *SetupError) Unwrap() error {
	return e.Cause
}

// IsSetupError はセットアップエラーか判定する。
func IsSetupError(err error) bool {
	var target *SetupError
	return errors.As(err, &target)
}

// AssetLoadError はアセット読み込み失敗を表す。再試行は行わない。
type AssetLoadError struct {
	Path  string
	Cause error
}

// NewAssetLoadError はアセット読み込みエラーを生成する。
func NewAssetLoadError(path string, cause error) *AssetLoadError {
	return &AssetLoadError{Path: path, Cause: cause}
}

// Error はエラーメッセージを返す。
func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("アセット読み込みに失敗しました: %s: %v", e.Path, e.Cause)
}

// Unwrap は原因エラーを返す。
func (e *AssetLoadError) Unwrap() error {
	return e.Cause
}

// IsAssetLoadError はアセット読み込みエラーか判定する。
func IsAssetLoadError(err error) bool {
	var target *AssetLoadError
	return errors.As(err, &target)
}

// ConfigError は設定値の不正を表す。
type ConfigError struct {
	Key    string
	Detail string
}

// NewConfigError は設定エラーを生成する。
func NewConfigError(key string, detail string) *ConfigError {
	return &ConfigError{Key: key, Detail: detail}
}

// Error はエラーメッセージを返す。
func (e *ConfigError) Error() string {
	return fmt.Sprintf("設定値が不正です[%s]: %s", e.Key, e.Detail)
}

// IsConfigError は設定エラーか判定する。
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// NameConflictError は名前重複を表す。
type NameConflictError struct {
	Name string
}

// NewNameConflictError は名前重複エラーを生成する。
func NewNameConflictError(name string) *NameConflictError {
	return &NameConflictError{Name: name}
}

// Error はエラーメッセージを返す。
func (e *NameConflictError) Error() string {
	return fmt.Sprintf("名前が重複しています: %s", e.Name)
}

// IsNameConflictError は名前重複エラーか判定する。
func IsNameConflictError(err error) bool {
	var target *NameConflictError
	return errors.As(err, &target)
}
