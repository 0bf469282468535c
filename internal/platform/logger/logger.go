// Package logger は zerolog を使った構造化ロガーを構築します。
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options はロガーの生成時設定です。
type Options struct {
	// Level は trace, debug, info, warn, error のいずれか。空や不明な値は info。
	Level string
	// Pretty が true の場合はコンソール向けの整形出力、false の場合は JSON。
	Pretty bool
	// Output は出力先。nil の場合は os.Stdout。
	Output io.Writer
}

// New は Options に従ってロガーを生成します。グローバル状態は変更しません。
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(parseLevel(opts.Level)).
		With().
		Timestamp().
		Str("service", "payroll").
		Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
