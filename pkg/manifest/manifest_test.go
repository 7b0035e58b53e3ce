// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/cmdtree/pkg/command"
)

const tomlManifest = `
name = "app"
version = "1.2.0"
description = "Demo"

[[options]]
flags = "-v, --verbose"
description = "Verbose output"
global = true

[[options]]
flags = "-p, --port <port:integer>"
default = 8080

[[env]]
names = "APP_TOKEN <token:string>"
description = "API token"

[[commands]]
name = "deploy"
aliases = ["d"]
arguments = "<service:string> [tags...:string]"

[[commands.options]]
flags = "--force"
conflicts = ["dry-run"]

[[commands.options]]
flags = "--dry-run"

[[commands]]
name = "config"
default = "get"

[[commands.commands]]
name = "get"
arguments = "[key]"
`

const yamlManifest = `
name: app
version: 1.2.0
description: Demo
options:
  - flags: -v, --verbose
    description: Verbose output
    global: true
  - flags: -p, --port <port:integer>
    default: 8080
env:
  - names: APP_TOKEN <token:string>
    description: API token
commands:
  - name: deploy
    aliases: [d]
    arguments: "<service:string> [tags...:string]"
    options:
      - flags: --force
        conflicts: [dry-run]
      - flags: --dry-run
  - name: config
    default: get
    commands:
      - name: get
        arguments: "[key]"
`

const jsoncManifest = `{
  // Same tree as the TOML and YAML manifests.
  "name": "app",
  "version": "1.2.0",
  "description": "Demo",
  "options": [
    {"flags": "-v, --verbose", "description": "Verbose output", "global": true},
    {"flags": "-p, --port <port:integer>", "default": 8080},
  ],
  "env": [{"names": "APP_TOKEN <token:string>", "description": "API token"}],
  "commands": [
    {
      "name": "deploy",
      "aliases": ["d"],
      "arguments": "<service:string> [tags...:string]",
      "options": [
        {"flags": "--force", "conflicts": ["dry-run"]},
        {"flags": "--dry-run"}, /* trailing comma */
      ],
    },
    {
      "name": "config",
      "default": "get",
      "commands": [{"name": "get", "arguments": "[key]"}],
    },
  ],
}`

func wantSpec() Spec {
	return Spec{
		Name:        "app",
		Version:     "1.2.0",
		Description: "Demo",
		Options: []OptionSpec{
			{Flags: "-v, --verbose", Description: "Verbose output", Global: true},
			{Flags: "-p, --port <port:integer>", Default: int64(8080)},
		},
		Env: []EnvSpec{{Names: "APP_TOKEN <token:string>", Description: "API token"}},
		Commands: []Spec{
			{
				Name:      "deploy",
				Aliases:   []string{"d"},
				Arguments: "<service:string> [tags...:string]",
				Options: []OptionSpec{
					{Flags: "--force", Conflicts: []string{"dry-run"}},
					{Flags: "--dry-run"},
				},
			},
			{
				Name:     "config",
				Default:  "get",
				Commands: []Spec{{Name: "get", Arguments: "[key]"}},
			},
		},
	}
}

// normalizeDefaults makes YAML's int, JSON's float64 and TOML's int64
// comparable.
func normalizeDefaults(s *Spec) {
	for i := range s.Options {
		switch v := s.Options[i].Default.(type) {
		case int:
			s.Options[i].Default = int64(v)
		case float64:
			s.Options[i].Default = int64(v)
		}
	}
	for i := range s.Commands {
		normalizeDefaults(&s.Commands[i])
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{TOML, tomlManifest},
		{YAML, yamlManifest},
		{JSON, jsoncManifest},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Decode error = %v", err)
			}
			normalizeDefaults(&got)
			if diff := cmp.Diff(wantSpec(), got); diff != "" {
				t.Errorf("Decode mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"toml unknown key", TOML, "name = \"app\"\ncolour = \"red\"\n"},
		{"yaml unknown key", YAML, "name: app\ncolour: red\n"},
		{"yaml empty", YAML, ""},
		{"json unknown key", JSON, `{"name": "app", "colour": "red"}`},
		{"missing name", TOML, "version = \"1.0.0\"\n"},
		{"bad version", YAML, "name: app\nversion: one\n"},
		{"child without name", YAML, "name: app\ncommands:\n  - description: x\n"},
		{"unknown format", Format("ini"), "name=app"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.input), tt.format); err == nil {
				t.Error("Decode succeeded, want error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"app.toml":  tomlManifest,
		"app.yaml":  yamlManifest,
		"app.yml":   yamlManifest,
		"app.jsonc": jsoncManifest,
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		spec, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s) error = %v", name, err)
		}
		if spec.Name != "app" || len(spec.Commands) != 2 {
			t.Errorf("Load(%s) = %+v", name, spec)
		}
	}

	if _, err := Load(filepath.Join(dir, "app.ini")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load(app.ini) error = %v, want ErrUnknownFormat", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want not exist", err)
	}
}

func TestBuild(t *testing.T) {
	c, err := Build(wantSpec())
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}

	res, err := c.Resolve([]string{"d", "-v", "web", "a", "b"})
	if err != nil {
		t.Fatalf("Resolve error = %v", err)
	}
	if got := res.Command.Path(); got != "app deploy" {
		t.Errorf("command = %q, want app deploy", got)
	}
	if diff := cmp.Diff([]any{"web", []any{"a", "b"}}, res.Args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"verbose": true}, res.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	res, err = c.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve error = %v", err)
	}
	if res.Options["port"] != int64(8080) {
		t.Errorf("port default = %#v, want int64(8080)", res.Options["port"])
	}

	res, err = c.Resolve([]string{"config", "name"})
	if err != nil {
		t.Fatalf("Resolve error = %v", err)
	}
	if got := res.Command.Path(); got != "app config get" {
		t.Errorf("command = %q, want app config get", got)
	}

	_, err = c.Resolve([]string{"deploy", "web", "--force", "--dry-run"})
	var conflict *command.ConflictingOptionsError
	if !errors.As(err, &conflict) {
		t.Errorf("error = %v, want *ConflictingOptionsError", err)
	}

	if got := c.EnvVars(); len(got) != 1 || got[0].Type != "string" {
		t.Errorf("EnvVars = %+v", got)
	}
}

func TestBuildUsesChildFactory(t *testing.T) {
	root := command.New("root").SetChildFactory(func(name string) *command.Command {
		return command.New(name).Option("--extra", "")
	})
	if err := Apply(root, Spec{Name: "ignored", Commands: []Spec{{Name: "sub"}}}); err != nil {
		t.Fatalf("Apply error = %v", err)
	}
	if root.Name() != "root" {
		t.Errorf("Apply renamed the root to %q", root.Name())
	}
	if _, err := root.Resolve([]string{"sub", "--extra"}); err != nil {
		t.Errorf("Resolve error = %v", err)
	}
}

func TestBuildDefinitionErrors(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"malformed arguments", Spec{Name: "app", Arguments: "<broken"}},
		{"duplicate command", Spec{Name: "app", Commands: []Spec{{Name: "a"}, {Name: "a"}}}},
		{"unknown type", Spec{Name: "app", Options: []OptionSpec{{Flags: "--n <n:widget>"}}}},
		{"bad default", Spec{Name: "app", Options: []OptionSpec{{Flags: "--n <n:integer>", Default: "ten"}}}},
		{"missing default command", Spec{Name: "app", Default: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.spec); err == nil {
				t.Error("Build succeeded, want error")
			}
		})
	}
}

func TestCoerceDefault(t *testing.T) {
	tests := []struct {
		flags string
		in    any
		want  any
	}{
		{"--n <n:integer>", "7", int64(7)},
		{"--n <n:number>", 1, float64(1)},
		{"--tags <t:string[]>", "a,b", []any{"a", "b"}},
		{"--ports <p:integer[]>", []any{80, 443}, []any{int64(80), int64(443)}},
		{"--quiet", true, true},
		{"--x <x:custom>", "raw", "raw"},
	}
	for _, tt := range tests {
		got, err := coerceDefault(OptionSpec{Flags: tt.flags, Default: tt.in})
		if err != nil {
			t.Errorf("coerceDefault(%q) error = %v", tt.flags, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("coerceDefault(%q) mismatch (-want +got):\n%s", tt.flags, diff)
		}
	}
}
