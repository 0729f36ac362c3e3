package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level はログレベルを表す
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel は文字列をログレベルに変換する
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

// sink は名前付きロガー間で共有される出力先
type sink struct {
	mu       sync.Mutex
	out      io.Writer
	minLevel Level
}

// Logger はスレッドセーフなロガー
// Named で作成した子ロガーは出力先とレベルを親と共有する
type Logger struct {
	sink *sink
	name string
}

// Default はデフォルトのロガー
var Default = New(os.Stdout, LevelInfo)

// New は新しいロガーを作成する
func New(out io.Writer, minLevel Level) *Logger {
	return &Logger{
		sink: &sink{
			out:      out,
			minLevel: minLevel,
		},
	}
}

// Discard は何も出力しないロガーを返す
func Discard() *Logger {
	return New(io.Discard, LevelError+1)
}

// Named は名前付きの子ロガーを返す
// 既に名前がある場合は "parent/child" の形式で連結する
func (l *Logger) Named(name string) *Logger {
	if l.name != "" && name != "" {
		name = l.name + "/" + name
	} else if name == "" {
		name = l.name
	}
	return &Logger{sink: l.sink, name: name}
}

// Name はロガー名を返す
func (l *Logger) Name() string {
	return l.name
}

// SetLevel はログレベルを設定する
func (l *Logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.minLevel = level
}

// Enabled は指定レベルが出力対象かを返す
func (l *Logger) Enabled(level Level) bool {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return level >= l.sink.minLevel
}

func (l *Logger) log(level Level, format string, args ...any) {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()

	if level < s.minLevel {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	msg := fmt.Sprintf(format, args...)

	if l.name != "" {
		_, _ = fmt.Fprintf(s.out, "[%s] [%s] [%s] %s\n", timestamp, level, l.name, msg)
	} else {
		_, _ = fmt.Fprintf(s.out, "[%s] [%s] %s\n", timestamp, level, msg)
	}
}

// Debug はデバッグログを出力する
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Info は情報ログを出力する
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warn は警告ログを出力する
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Error はエラーログを出力する
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// グローバル関数（デフォルトロガーを使用）

// Debug はデバッグログを出力する
func Debug(format string, args ...any) {
	Default.Debug(format, args...)
}

// Info は情報ログを出力する
func Info(format string, args ...any) {
	Default.Info(format, args...)
}

// Warn は警告ログを出力する
func Warn(format string, args ...any) {
	Default.Warn(format, args...)
}

// Error はエラーログを出力する
func Error(format string, args ...any) {
	Default.Error(format, args...)
}
