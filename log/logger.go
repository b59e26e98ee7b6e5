// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package log implements leveled, structured logging in go-ethereum's own
// idiom: a Logger bound to key-value context, built on top of log/slog (as
// upstream go-ethereum itself migrated to), with ANSI color handled via
// Uncolor (log/color.go) and terminal detection via go-isatty/go-colorable.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes leveled, contextual log lines. The chain's layers (txpool,
// consensus, block processor, chain manager) currently log through the
// package-level wrappers below, which delegate to the root Logger; New
// derives a child logger bound to extra context (block number, validator
// address, tx hash).
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any) // logs at error level, then os.Exit(1)

	// New returns a child Logger with additional key-value context merged
	// into every line it writes.
	New(ctx ...any) Logger
}

type logger struct {
	inner *slog.Logger
}

var root Logger = &logger{inner: slog.New(defaultHandler(os.Stderr))}

// Root returns the package-level root logger.
func Root() Logger { return root }

// SetDefault replaces the root logger, e.g. after parsing CLI flags for
// verbosity or an output file.
func SetDefault(l Logger) { root = l }

// New constructs a standalone Logger writing to w at the given level.
func New(w io.Writer, level slog.Level) Logger {
	return &logger{inner: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))}
}

// NewFileLogger constructs a Logger that rotates its output through
// lumberjack, the way a long-running node's --log.file option would.
func NewFileLogger(path string, maxSizeMB, maxBackups, maxAgeDays int) Logger {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	return &logger{inner: slog.New(slog.NewJSONHandler(w, nil))}
}

func defaultHandler(w io.Writer) slog.Handler {
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd())
	}
	out := w
	if useColor {
		out = colorable.NewColorable(w.(*os.File))
	}
	return slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
}

func (l *logger) log(level slog.Level, msg string, ctx []any) {
	msg = Uncolor(msg)
	l.inner.Log(context.Background(), level, msg, ctx...)
}

func (l *logger) Trace(msg string, ctx ...any) { l.log(slog.LevelDebug-4, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...any) { l.log(slog.LevelDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...any)  { l.log(slog.LevelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...any)  { l.log(slog.LevelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...any) { l.log(slog.LevelError, msg, ctx) }
func (l *logger) Crit(msg string, ctx ...any) {
	l.log(slog.LevelError, msg, ctx)
	os.Exit(1)
}

func (l *logger) New(ctx ...any) Logger {
	return &logger{inner: l.inner.With(ctx...)}
}

// Package-level convenience wrappers delegating to Root(), matching the
// call-site style (log.Info(...)) used throughout the teacher's codebase.
func Trace(msg string, ctx ...any) { root.Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }
func Crit(msg string, ctx ...any)  { root.Crit(msg, ctx...) }
