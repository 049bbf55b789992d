// Package logging はロギング機能を提供します
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogEntry はログエントリを表す構造体です
type LogEntry struct {
	// Timestamp はログが記録された時刻をRFC3339形式で表します
	Timestamp string `json:"timestamp"`
	// Level はログレベル（DEBUG, INFO, WARN, ERROR）を表します
	Level string `json:"level"`
	// Message はログメッセージの内容を表します
	Message string `json:"message"`
	// Error はエラーが発生した場合のエラーメッセージを表します
	Error string `json:"error,omitempty"`
}

// Logger は構造化ログを出力するためのインターフェースです
type Logger interface {
	Log(level, message string, err error)
}

// JSONLogger はJSONフォーマットでログを出力するロガーです
type JSONLogger struct {
	logger *zap.Logger
}

// NewJSONLogger は新しいJSONLoggerインスタンスを作成します。
// minLevel 未満のログは出力しません（空文字の場合は DEBUG 以上を全て出力）。
func NewJSONLogger(writer io.Writer, minLevel ...string) *JSONLogger {
	if writer == nil {
		writer = os.Stdout
	}
	threshold := zapcore.DebugLevel
	if len(minLevel) > 0 && minLevel[0] != "" {
		threshold = ParseLevel(minLevel[0])
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(writer),
		zap.NewAtomicLevelAt(threshold),
	)
	return &JSONLogger{logger: zap.New(core)}
}

// NewNopLogger は何も出力しないロガーを作成します
func NewNopLogger() *JSONLogger {
	return &JSONLogger{logger: zap.NewNop()}
}

// ParseLevel はログレベル文字列を解釈します。解釈できない場合は INFO とみなします。
func ParseLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Log はメッセージをJSONフォーマットでログ出力します
func (l *JSONLogger) Log(level, message string, err error) {
	var fields []zap.Field
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if ce := l.logger.Check(ParseLevel(level), message); ce != nil {
		ce.Write(fields...)
	}
}

// Sync はバッファされたログを書き出します
func (l *JSONLogger) Sync() error {
	return l.logger.Sync()
}
