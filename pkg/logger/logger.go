// Package logger はCLI全体で共有する slog ロガーを管理する。
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

var globalLogger *slog.Logger

// Options はロガーの初期化オプション
type Options struct {
	// Level は debug, info, warn, error のいずれか
	Level string
	// Format は text または json（空なら text）
	Format string
	// Output は出力先（nil なら標準エラー出力）
	Output io.Writer
}

// ParseLevel はログレベル文字列を slog.Level に変換する
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

// InitLogger ログレベルに応じてslogを初期化（テキスト形式、標準エラー出力）
func InitLogger(level string) error {
	return InitLoggerWithOptions(Options{Level: level})
}

// InitLoggerWithOptions 出力形式と出力先を指定してslogを初期化
func InitLoggerWithOptions(opts Options) error {
	slogLevel, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	out := opts.Output
	if out == nil {
		// 標準出力はコマンドの結果に使う
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: slogLevel}

	var handler slog.Handler
	switch opts.Format {
	case "", "text":
		handler = slog.NewTextHandler(out, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(out, handlerOpts)
	default:
		return fmt.Errorf("invalid log format: %s", opts.Format)
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)

	return nil
}

// GetLogger グローバルロガーを取得
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}
