// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger logs to a rotating file when CMDTREE_LOG_FILE is set, else to
// stderr: human-readable on a terminal, JSON otherwise.
func newLogger(stderr io.Writer, verbose bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		options.Level = slog.LevelDebug
	}
	if path := os.Getenv("CMDTREE_LOG_FILE"); path != "" {
		return slog.New(slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    128,
			MaxBackups: 5,
			MaxAge:     16,
		}, options))
	}
	if isTerminal(stderr) {
		return slog.New(slog.NewTextHandler(stderr, options))
	}
	return slog.New(slog.NewJSONHandler(stderr, options))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
