// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command cmdtree resolves a command line against a command tree declared
// in a manifest and prints what it resolved to.
//
//	cmdtree [--manifest FILE] [--output json|yaml] [--verbose] [--no-color] [--] TOKENS...
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/yeetrun/cmdtree/pkg/command"
)

// Exit codes.
const (
	exitOK         = 0
	exitUsage      = 1
	exitDefinition = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags, tokens, err := parseGlobalFlags(args)
	if err != nil {
		printCLIError(stderr, err)
		return exitUsage
	}
	if flags.NoColor {
		color.NoColor = true
	}
	logger := newLogger(stderr, flags.Verbose)

	root, err := loadTree(flags.Manifest, stdout)
	if err != nil {
		logger.Debug("failed to build command tree", "manifest", flags.Manifest, "error", err)
		printCLIError(stderr, err)
		return exitDefinition
	}
	logger.Debug("resolving", "root", root.Name(), "tokens", tokens)

	res, err := root.Resolve(tokens)
	if err != nil {
		printCLIError(stderr, err)
		if command.IsUsageError(err) {
			fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.Name())
			return exitUsage
		}
		return exitDefinition
	}
	logger.Debug("resolved", "command", res.Command.Path(), "options", len(res.Options), "args", len(res.Args))

	sig, err := res.Run(ctx)
	if err != nil {
		printCLIError(stderr, err)
		return exitUsage
	}
	if sig.Terminated() {
		logger.Debug("terminated by hook", "signal", sig.String())
		return sig.Code()
	}
	if res.Standalone != nil {
		return exitOK
	}
	if err := writeResolution(stdout, flags.Output, res); err != nil {
		logger.Error("failed to write result", slog.Any("error", err))
		return exitUsage
	}
	return exitOK
}

// printCLIError writes err with an error prefix and, for unknown commands
// and options, a suggestion.
func printCLIError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %v\n", color.RedString("Error:"), err)

	var (
		unknownCmd *command.UnknownCommandError
		unknownOpt *command.UnknownOptionError
		suggestion string
	)
	switch {
	case errors.As(err, &unknownCmd):
		suggestion = unknownCmd.Suggestion
	case errors.As(err, &unknownOpt):
		suggestion = unknownOpt.Suggestion
	}
	if suggestion != "" {
		fmt.Fprintf(w, "Did you mean %q?\n", suggestion)
	}
}
