// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifest describes command trees in TOML, YAML or JSONC files.
//
// A manifest only declares the shape of a tree: commands, options,
// arguments and help metadata. It never supplies option values.
//
//	name = "app"
//	version = "1.0.0"
//
//	[[options]]
//	flags = "-v, --verbose"
//	global = true
//
//	[[commands]]
//	name = "deploy"
//	aliases = ["d"]
//	arguments = "<service:string>"
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Spec declares one command and, recursively, its children.
type Spec struct {
	Name        string   `toml:"name" yaml:"name" json:"name"`
	Aliases     []string `toml:"aliases,omitempty" yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Description string   `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty"`
	Version     string   `toml:"version,omitempty" yaml:"version,omitempty" json:"version,omitempty"`
	// Arguments is a positional definition such as "<src> [dst...]".
	Arguments string `toml:"arguments,omitempty" yaml:"arguments,omitempty" json:"arguments,omitempty"`
	// Default names the child used when no child matches.
	Default  string        `toml:"default,omitempty" yaml:"default,omitempty" json:"default,omitempty"`
	Hidden   bool          `toml:"hidden,omitempty" yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Options  []OptionSpec  `toml:"options,omitempty" yaml:"options,omitempty" json:"options,omitempty"`
	Commands []Spec        `toml:"commands,omitempty" yaml:"commands,omitempty" json:"commands,omitempty"`
	Env      []EnvSpec     `toml:"env,omitempty" yaml:"env,omitempty" json:"env,omitempty"`
	Examples []ExampleSpec `toml:"examples,omitempty" yaml:"examples,omitempty" json:"examples,omitempty"`
}

// OptionSpec declares an option.
type OptionSpec struct {
	// Flags is the flag definition, e.g. "-p, --port <port:integer>".
	Flags       string `toml:"flags" yaml:"flags" json:"flags"`
	Description string `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool   `toml:"required,omitempty" yaml:"required,omitempty" json:"required,omitempty"`
	// Default is coerced with the option's value type when built.
	Default    any      `toml:"default,omitempty" yaml:"default,omitempty" json:"default,omitempty"`
	Conflicts  []string `toml:"conflicts,omitempty" yaml:"conflicts,omitempty" json:"conflicts,omitempty"`
	Standalone bool     `toml:"standalone,omitempty" yaml:"standalone,omitempty" json:"standalone,omitempty"`
	Global     bool     `toml:"global,omitempty" yaml:"global,omitempty" json:"global,omitempty"`
	Hidden     bool     `toml:"hidden,omitempty" yaml:"hidden,omitempty" json:"hidden,omitempty"`
}

// EnvSpec documents an environment variable.
type EnvSpec struct {
	// Names lists the variable names and an optional value definition,
	// e.g. "APP_TOKEN, TOKEN <token:string>".
	Names       string `toml:"names" yaml:"names" json:"names"`
	Description string `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty"`
}

// ExampleSpec is a usage example.
type ExampleSpec struct {
	Name        string `toml:"name" yaml:"name" json:"name"`
	Description string `toml:"description" yaml:"description" json:"description"`
}

// Format is a manifest encoding.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
	// JSON accepts comments and trailing commas.
	JSON Format = "json"
)

// ErrUnknownFormat is returned for file extensions other than .toml,
// .yaml, .yml, .json and .jsonc.
var ErrUnknownFormat = errors.New("unknown manifest format")

// FormatOf picks the format from the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".json", ".jsonc":
		return JSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Decode reads a manifest from r. Unknown keys are errors.
func Decode(r io.Reader, f Format) (Spec, error) {
	var spec Spec
	switch f {
	case TOML:
		md, err := toml.NewDecoder(r).Decode(&spec)
		if err != nil {
			return Spec{}, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Spec{}, fmt.Errorf("unknown manifest key %q", undecoded[0].String())
		}
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&spec); err != nil {
			if errors.Is(err, io.EOF) {
				return Spec{}, errors.New("empty manifest")
			}
			return Spec{}, err
		}
	case JSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return Spec{}, err
		}
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&spec); err != nil {
			return Spec{}, err
		}
	default:
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err := spec.Check(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// Load reads the manifest at path, choosing the format by extension.
func Load(path string) (Spec, error) {
	f, err := FormatOf(path)
	if err != nil {
		return Spec{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return Spec{}, err
	}
	defer file.Close()
	spec, err := Decode(file, f)
	if err != nil {
		return Spec{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return spec, nil
}

// Check validates what the command builder cannot: names are present and
// versions are semantic versions.
func (s Spec) Check() error {
	return s.check(s.Name)
}

func (s Spec) check(path string) error {
	if s.Name == "" {
		return fmt.Errorf("command %q: missing name", path)
	}
	if s.Version != "" {
		if _, err := semver.NewVersion(s.Version); err != nil {
			return fmt.Errorf("command %q: invalid version %q: %w", path, s.Version, err)
		}
	}
	for _, sub := range s.Commands {
		if err := sub.check(path + " " + sub.Name); err != nil {
			return err
		}
	}
	return nil
}
