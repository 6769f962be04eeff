// Copyright 2023 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger provides the leveled logging surface the rest of the
// daemon calls into: Tracef through Errorf, backed by log/slog, with an
// on-disk file target rotated by lumberjack when one is configured.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nvanbenschoten/cockroach-fuse/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// asyncLogBufferSize bounds how many pending log lines can queue for the
// rotating file writer before AsyncLogger starts dropping them.
const asyncLogBufferSize = 4096

// The severities this package understands, mapped onto slog's integer
// level space. TRACE sits below slog's built-in Debug, and OFF sits above
// Error so that every real severity compares less than it.
const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelOff   = slog.Level(12)
)

func severityName(level slog.Level) string {
	switch level {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return level.String()
	}
}

func severityFromConfig(level string) slog.Level {
	switch level {
	case config.TRACE:
		return LevelTrace
	case config.DEBUG:
		return LevelDebug
	case config.INFO:
		return LevelInfo
	case config.WARNING:
		return LevelWarn
	case config.ERROR:
		return LevelError
	default:
		return LevelOff
	}
}

// setLoggingLevel points programLevel at the slog.Level corresponding to
// the named severity.
func setLoggingLevel(level string, programLevel *slog.LevelVar) {
	programLevel.Set(severityFromConfig(level))
}

// loggerFactory holds the state needed to rebuild the handler whenever the
// format, level, or output target changes.
type loggerFactory struct {
	file      *os.File
	sysWriter io.Writer

	// async is the rotating writer backing file, present whenever
	// InitLogFile has been called. SetLogFormat and SetSeverity must write
	// through it rather than file directly, since file is closed as soon
	// as its path has been validated.
	async *AsyncLogger

	level  string
	format string

	logRotateConfig config.LogRotateConfig
}

// target returns the io.Writer the next handler rebuild should write to:
// the rotating async writer when a log file is configured, the raw file
// only as a fallback for a factory built without one, and stderr
// otherwise.
func (f *loggerFactory) target() io.Writer {
	switch {
	case f.async != nil:
		return f.async
	case f.file != nil:
		return f.file
	case f.sysWriter != nil:
		return f.sysWriter
	default:
		return os.Stderr
	}
}

// leveledHandler is a slog.Handler that renders records the way this
// daemon's ops tooling expects: a single line, either a quoted key=value
// text form or a flat JSON object, gated by a shared *slog.LevelVar.
type leveledHandler struct {
	w      io.Writer
	level  *slog.LevelVar
	prefix string
	json   bool
}

func (h *leveledHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *leveledHandler) Handle(_ context.Context, r slog.Record) error {
	msg := h.prefix + r.Message
	if h.json {
		_, err := fmt.Fprintf(h.w,
			"{\"timestamp\":{\"seconds\":%d,\"nanos\":%d},\"severity\":%q,\"message\":%q}\n",
			r.Time.Unix(), r.Time.Nanosecond(), severityName(r.Level), msg)
		return err
	}
	_, err := fmt.Fprintf(h.w, "time=%q severity=%s message=%q\n",
		r.Time.Format("2006/01/02 15:04:05.000000"), severityName(r.Level), msg)
	return err
}

func (h *leveledHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }
func (h *leveledHandler) WithGroup(name string) slog.Handler       { return h }

// createJsonOrTextHandler builds a handler writing to buf at the severity
// tracked by programLevel, in whichever format f.format currently names.
// Anything other than the literal string "text" is treated as JSON, which
// is also what an unset format defaults to.
func (f *loggerFactory) createJsonOrTextHandler(buf io.Writer, programLevel *slog.LevelVar, prefix string) slog.Handler {
	return &leveledHandler{
		w:      buf,
		level:  programLevel,
		prefix: prefix,
		json:   f.format != "text",
	}
}

var (
	defaultLoggerFactory = &loggerFactory{
		level:           config.INFO,
		format:          "text",
		logRotateConfig: config.DefaultLogRotateConfig(),
	}
	defaultLogger = newDefaultLogger()
)

func newDefaultLogger() *slog.Logger {
	programLevel := new(slog.LevelVar)
	setLoggingLevel(defaultLoggerFactory.level, programLevel)
	return slog.New(defaultLoggerFactory.createJsonOrTextHandler(os.Stderr, programLevel, ""))
}

// SetLogFormat switches the default logger between "text" and JSON output,
// preserving whatever severity and target were already configured.
func SetLogFormat(format string) {
	defaultLoggerFactory.format = format

	programLevel := new(slog.LevelVar)
	setLoggingLevel(defaultLoggerFactory.level, programLevel)
	defaultLogger = slog.New(defaultLoggerFactory.createJsonOrTextHandler(defaultLoggerFactory.target(), programLevel, ""))
}

// SetSeverity changes the minimum severity the default logger emits,
// preserving whatever format and target were already configured.
func SetSeverity(severity string) {
	defaultLoggerFactory.level = severity

	programLevel := new(slog.LevelVar)
	setLoggingLevel(severity, programLevel)
	defaultLogger = slog.New(defaultLoggerFactory.createJsonOrTextHandler(defaultLoggerFactory.target(), programLevel, ""))
}

// InitLogFile points the default logger at an on-disk file, replacing
// whatever target it was previously using. The file is opened once up
// front purely to surface a permission or path error immediately and to
// give defaultLoggerFactory.file a stable Name(); the actual writing goes
// through an AsyncLogger wrapping a lumberjack.Logger configured from
// cfg.LogRotateConfig, so the file rotates instead of growing forever.
func InitLogFile(cfg config.LogConfig) error {
	f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("logger: open %s: %w", cfg.FilePath, err)
	}
	f.Close()

	if defaultLoggerFactory.async != nil {
		defaultLoggerFactory.async.Close()
	}

	async := NewAsyncLogger(&lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxFileSizeMB,
		MaxBackups: cfg.BackupFileCount,
		Compress:   cfg.Compress,
	}, asyncLogBufferSize)

	defaultLoggerFactory = &loggerFactory{
		file:            f,
		async:           async,
		level:           cfg.Severity,
		format:          cfg.Format,
		logRotateConfig: cfg.LogRotateConfig,
	}

	programLevel := new(slog.LevelVar)
	setLoggingLevel(cfg.Severity, programLevel)
	defaultLogger = slog.New(defaultLoggerFactory.createJsonOrTextHandler(async, programLevel, ""))
	return nil
}

// Close flushes and closes the rotating log file, if one is configured.
// It is a no-op when logging to stderr only.
func Close() error {
	if defaultLoggerFactory.async == nil {
		return nil
	}
	return defaultLoggerFactory.async.Close()
}

func logAt(level slog.Level, format string, v ...any) {
	defaultLogger.Log(context.Background(), level, fmt.Sprintf(format, v...))
}

// Tracef logs at the most verbose severity, used for per-operation detail
// that would be too noisy to keep on by default.
func Tracef(format string, v ...any) { logAt(LevelTrace, format, v...) }

// Debugf logs at debug severity.
func Debugf(format string, v ...any) { logAt(LevelDebug, format, v...) }

// Infof logs at info severity.
func Infof(format string, v ...any) { logAt(LevelInfo, format, v...) }

// Warnf logs at warning severity.
func Warnf(format string, v ...any) { logAt(LevelWarn, format, v...) }

// Errorf logs at error severity.
func Errorf(format string, v ...any) { logAt(LevelError, format, v...) }
