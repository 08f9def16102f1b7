// 指示: miu200521358
// Package mlogging は log/slog を出力先とするロガー実装を提供する。
package mlogging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/miu200521358/mu_ikrig/pkg/shared/base/logging"
)

const (
	messageBufferLimit = 2000
	// slogLevelVerbose は冗長ログのslogレベル。
	slogLevelVerbose = slog.LevelDebug - 4
)

// MessageBuffer は出力済みログ行を上限付きで保持する。
type MessageBuffer struct {
	mu    sync.Mutex
	lines []string
	limit int
}

// Lines は保持している行のコピーを返す。
func (b *MessageBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := make([]string, len(b.lines))
	copy(lines, b.lines)
	return lines
}

// Clear は保持している行を破棄する。
func (b *MessageBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = b.lines[:0]
}

// append は1行追加し、上限を超えた古い行を捨てる。
func (b *MessageBuffer) append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, line)
	if len(b.lines) > b.limit {
		b.lines = b.lines[len(b.lines)-b.limit:]
	}
}

// Logger は logging.ILogger の実装。
type Logger struct {
	mu      sync.RWMutex
	slogger *slog.Logger
	level   logging.LogLevel
	verbose map[logging.VerboseIndex]bool
	buffer  *MessageBuffer
}

// NewLogger はロガーを生成する。w が nil の場合は標準エラー出力へ書き込む。
func NewLogger(w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevelVerbose})
	return &Logger{
		slogger: slog.New(handler),
		level:   logging.LOG_LEVEL_INFO,
		verbose: map[logging.VerboseIndex]bool{},
		buffer:  &MessageBuffer{limit: messageBufferLimit},
	}
}

// Debug はDEBUGログを出力する。
func (l *Logger) Debug(format string, params ...any) {
	l.log(logging.LOG_LEVEL_DEBUG, slog.LevelDebug, format, params...)
}

// Info はINFOログを出力する。
func (l *Logger) Info(format string, params ...any) {
	l.log(logging.LOG_LEVEL_INFO, slog.LevelInfo, format, params...)
}

// Warn はWARNログを出力する。
func (l *Logger) Warn(format string, params ...any) {
	l.log(logging.LOG_LEVEL_WARN, slog.LevelWarn, format, params...)
}

// Error はERRORログを出力する。
func (l *Logger) Error(format string, params ...any) {
	l.log(logging.LOG_LEVEL_ERROR, slog.LevelError, format, params...)
}

// Verbose は有効化されたチャネルの冗長ログを出力する。
func (l *Logger) Verbose(index logging.VerboseIndex, format string, params ...any) {
	if !l.IsVerboseEnabled(index) {
		return
	}
	message := fmt.Sprintf(format, params...)
	l.buffer.append(message)
	l.slogger.Log(context.Background(), slogLevelVerbose, message, slog.String("verbose", index.String()))
}

// IsVerboseEnabled は冗長ログチャネルが有効か判定する。
func (l *Logger) IsVerboseEnabled(index logging.VerboseIndex) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verbose[index]
}

// EnableVerbose は冗長ログチャネルの有効/無効を切り替える。
func (l *Logger) EnableVerbose(index logging.VerboseIndex, enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose[index] = enabled
}

// SetLevel はログレベルを設定する。
func (l *Logger) SetLevel(level logging.LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level はログレベルを返す。
func (l *Logger) Level() logging.LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// MessageBuffer は出力済みログ行のバッファを返す。
func (l *Logger) MessageBuffer() logging.IMessageBuffer {
	return l.buffer
}

// log はレベル判定後にslogへ出力し、バッファへ記録する。
func (l *Logger) log(level logging.LogLevel, slogLevel slog.Level, format string, params ...any) {
	if level < l.Level() {
		return
	}
	message := fmt.Sprintf(format, params...)
	l.buffer.append(message)
	l.slogger.Log(context.Background(), slogLevel, message)
}
