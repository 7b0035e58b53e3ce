// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package help

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/cmdtree/pkg/command"
)

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestAssemble(t *testing.T) {
	c := command.New("app").
		Version("1.0.0").
		Description("Demo app\nMore").
		Option("-f, --force", "Force", command.OptionConfig{Required: true}).
		Option("--port <port:integer>", "Port", command.OptionConfig{Default: int64(80), Conflicts: []string{"socket"}}).
		Option("--socket <path>", "Socket").
		Option("--debug", "Debug", command.OptionConfig{Hidden: true}).
		Env("APP_TOKEN, TOKEN <token:string>", "Token").
		Example("Basic", "app -f").
		AddCommand("deploy, d <service>", command.New("deploy").Description("Deploy a service\nLong text"))

	want := Page{
		Usage:       "app [options] [command]",
		Version:     "1.0.0",
		Description: "Demo app\nMore",
		Sections: []Section{
			{
				Title: OptionsTitle,
				Rows: []Row{
					{Label: "-f, --force", Description: "Force", Hints: []string{"required"}},
					{Label: "--port", Type: "<port:integer>", Description: "Port", Hints: []string{"Default: 80", "conflicts: socket"}},
					{Label: "--socket", Type: "<path:string>", Description: "Socket"},
				},
			},
			{
				Title: CommandsTitle,
				Rows: []Row{
					{Label: "deploy, d", Type: "<service:string>", Description: "Deploy a service"},
				},
			},
			{
				Title: EnvTitle,
				Rows: []Row{
					{Label: "APP_TOKEN, TOKEN", Type: "<string>", Description: "Token"},
				},
			},
		},
		Examples: []command.Example{{Name: "Basic", Description: "app -f"}},
	}
	if diff := cmp.Diff(want, Assemble(c)); diff != "" {
		t.Errorf("Assemble mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleLeaf(t *testing.T) {
	c := command.New("app").AddCommand("ls [dir]", nil)
	sub, err := c.GetCommand("ls")
	if err != nil {
		t.Fatal(err)
	}
	want := Page{Usage: "app ls [dir:string]"}
	if diff := cmp.Diff(want, Assemble(sub)); diff != "" {
		t.Errorf("Assemble mismatch (-want +got):\n%s", diff)
	}
}

func TestRender(t *testing.T) {
	p := Page{
		Usage:       "app [options]",
		Version:     "1.0.0",
		Description: "Does things",
		Sections: []Section{{
			Title: OptionsTitle,
			Rows: []Row{
				{Label: "-f, --force", Description: "Force it", Hints: []string{"required"}},
				{Label: "--name", Type: "<name:string>", Description: "Name", Hints: []string{"Default: x"}},
			},
		}},
		Examples: []command.Example{{Name: "Basic", Description: "app -f"}},
	}
	var buf bytes.Buffer
	if err := (Renderer{Out: &buf}).Render(p); err != nil {
		t.Fatalf("Render error = %v", err)
	}
	want := "Usage: app [options]\n" +
		"Version: 1.0.0\n" +
		"\nDescription:\n\n" +
		"  Does things\n" +
		"\nOptions:\n\n" +
		"  -f, --force  " + strings.Repeat(" ", 15) + "Force it (required)\n" +
		"  --name       " + "<name:string>  " + "Name (Default: x)\n" +
		"\nExamples:\n" +
		"\n  Basic\n" +
		"    app -f\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderColor(t *testing.T) {
	var buf bytes.Buffer
	if err := (Renderer{Out: &buf, Color: true}).Render(Page{Usage: "app"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("output has no escape codes: %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRenderReportsWriteError(t *testing.T) {
	if err := (Renderer{Out: failingWriter{}}).Render(Page{Usage: "app"}); err == nil {
		t.Error("Render succeeded on a failing writer")
	}
}

func newApp(out *bytes.Buffer) *command.Command {
	c := NewDefault("app", out).Version("1.2.3").Description("Demo")
	c.AddCommand("deploy <service:string>", nil)
	return c
}

func run(t *testing.T, c *command.Command, argv ...string) command.Signal {
	t.Helper()
	sig, err := c.Execute(context.Background(), argv)
	if err != nil {
		t.Fatalf("Execute(%q) error = %v", argv, err)
	}
	return sig
}

func TestHelpFlag(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	c := newApp(&buf)

	sig := run(t, c, "-h")
	if !sig.Terminated() || sig.Code() != 0 {
		t.Errorf("Signal = %v, want terminate(0)", sig)
	}
	out := buf.String()
	for _, want := range []string{"Usage: app [options] [command]", "Version: 1.2.3", "-h, --help", "deploy", "help"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	run(t, c, "deploy", "--help")
	if !strings.Contains(buf.String(), "Usage: app deploy [options] <service:string> [command]") {
		t.Errorf("deploy help:\n%s", buf.String())
	}
}

func TestVersionFlag(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	c := newApp(&buf)

	for _, argv := range [][]string{{"-V"}, {"deploy", "--version"}} {
		buf.Reset()
		sig := run(t, c, argv...)
		if !sig.Terminated() || sig.Code() != 0 {
			t.Errorf("Signal = %v, want terminate(0)", sig)
		}
		if got := buf.String(); got != "1.2.3\n" {
			t.Errorf("%q printed %q, want 1.2.3", argv, got)
		}
	}
}

func TestHelpCommand(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	c := newApp(&buf)

	tests := []struct {
		argv []string
		want string
	}{
		{[]string{"help"}, "Usage: app [options] [command]"},
		{[]string{"help", "deploy"}, "Usage: app deploy "},
		{[]string{"deploy", "help"}, "Usage: app deploy "},
	}
	for _, tt := range tests {
		buf.Reset()
		sig := run(t, c, tt.argv...)
		if !sig.Terminated() {
			t.Errorf("%q: Signal = %v, want terminate", tt.argv, sig)
		}
		if !strings.HasPrefix(buf.String(), tt.want) {
			t.Errorf("%q printed:\n%s\nwant prefix %q", tt.argv, buf.String(), tt.want)
		}
	}

	_, err := c.Execute(context.Background(), []string{"help", "nope"})
	var invalid *command.InvalidValueError
	if !errors.As(err, &invalid) {
		t.Errorf("error = %v, want *InvalidValueError", err)
	}
}

func TestInstallClash(t *testing.T) {
	c := command.New("app").Option("-h, --host <host>", "")
	Install(c, &bytes.Buffer{}, Help)
	var dup *command.DuplicateAliasError
	if err := c.Validate(); !errors.As(err, &dup) {
		t.Errorf("Validate error = %v, want *DuplicateAliasError", err)
	}
}

func TestInstallCapabilities(t *testing.T) {
	c := Install(command.New("app"), &bytes.Buffer{}, Version)
	var flags []string
	for _, o := range c.Options() {
		flags = append(flags, o.Flag())
	}
	if diff := cmp.Diff([]string{"--version"}, flags); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
	if c.HasCommands() {
		t.Error("help command installed without HelpCommand")
	}
}
