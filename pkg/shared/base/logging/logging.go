// 指示: miu200521358
// Package logging はロガーの契約と既定ロガーの保持を提供する。
package logging

import (
	"fmt"
	"strings"
	"sync"
)

// LogLevel はログレベルを表す。
type LogLevel int

const (
	// LOG_LEVEL_DEBUG はデバッグレベル。
	LOG_LEVEL_DEBUG LogLevel = 10
	// LOG_LEVEL_INFO は情報レベル。
	LOG_LEVEL_INFO LogLevel = 20
	// LOG_LEVEL_WARN は警告レベル。
	LOG_LEVEL_WARN LogLevel = 30
	// LOG_LEVEL_ERROR はエラーレベル。
	LOG_LEVEL_ERROR LogLevel = 40
)

// String はレベル名を返す。
func (l LogLevel) String() string {
	switch l {
	case LOG_LEVEL_DEBUG:
		return "debug"
	case LOG_LEVEL_INFO:
		return "info"
	case LOG_LEVEL_WARN:
		return "warn"
	case LOG_LEVEL_ERROR:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLogLevel は文字列からログレベルを解決する。
func ParseLogLevel(value string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "info":
		return LOG_LEVEL_INFO, nil
	case "debug":
		return LOG_LEVEL_DEBUG, nil
	case "warn", "warning":
		return LOG_LEVEL_WARN, nil
	case "error":
		return LOG_LEVEL_ERROR, nil
	}
	return LOG_LEVEL_INFO, fmt.Errorf("ログレベルが不正です: %s", value)
}

// VerboseIndex は冗長ログの出力先チャネルを表す。
type VerboseIndex int

const (
	// VERBOSE_INDEX_IK はIK反復の冗長ログ。
	VERBOSE_INDEX_IK VerboseIndex = iota
	// VERBOSE_INDEX_PHYSICS は物理ステップの冗長ログ。
	VERBOSE_INDEX_PHYSICS
	// VERBOSE_INDEX_FRAME はフレーム段階の冗長ログ。
	VERBOSE_INDEX_FRAME
)

// verboseIndexNames は冗長ログチャネル名を保持する。
var verboseIndexNames = map[VerboseIndex]string{
	VERBOSE_INDEX_IK:      "ik",
	VERBOSE_INDEX_PHYSICS: "physics",
	VERBOSE_INDEX_FRAME:   "frame",
}

// String はチャネル名を返す。
func (v VerboseIndex) String() string {
	if name, ok := verboseIndexNames[v]; ok {
		return name
	}
	return fmt.Sprintf("verbose(%d)", int(v))
}

// ParseVerboseIndex は文字列から冗長ログチャネルを解決する。
func ParseVerboseIndex(value string) (VerboseIndex, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for index, name := range verboseIndexNames {
		if name == normalized {
			return index, nil
		}
	}
	return 0, fmt.Errorf("冗長ログ種別が不正です: %s", value)
}

// IMessageBuffer は出力済みログ行の保持契約を表す。
type IMessageBuffer interface {
	// Lines は保持している行を返す。
	Lines() []string
	// Clear は保持している行を破棄する。
	Clear()
}

// ILogger はロガーの契約を表す。
type ILogger interface {
	Debug(format string, params ...any)
	Info(format string, params ...any)
	Warn(format string, params ...any)
	Error(format string, params ...any)
	Verbose(index VerboseIndex, format string, params ...any)
	IsVerboseEnabled(index VerboseIndex) bool
	EnableVerbose(index VerboseIndex, enabled bool)
	SetLevel(level LogLevel)
	Level() LogLevel
	MessageBuffer() IMessageBuffer
}

var (
	defaultLoggerMu sync.RWMutex
	defaultLogger   ILogger
)

// DefaultLogger は既定ロガーを返す。未設定の場合は nil。
func DefaultLogger() ILogger {
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger は既定ロガーを差し替える。
func SetDefaultLogger(logger ILogger) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = logger
}
