// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yeetrun/cmdtree/pkg/command"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// resolution is the printed form of a command.Result.
type resolution struct {
	Command string         `json:"command" yaml:"command"`
	Options map[string]any `json:"options" yaml:"options"`
	Args    []any          `json:"args" yaml:"args"`
	Literal []string       `json:"literal,omitempty" yaml:"literal,omitempty"`
}

func newResolution(res *command.Result) resolution {
	r := resolution{
		Command: res.Command.Path(),
		Options: make(map[string]any, len(res.Options)),
		Args:    make([]any, 0, len(res.Args)),
		Literal: res.Literal,
	}
	for name, v := range res.Options {
		r.Options[name] = displayValue(v)
	}
	for _, v := range res.Args {
		r.Args = append(r.Args, displayValue(v))
	}
	return r
}

// displayValue prints versions, durations and UUIDs in their text form.
func displayValue(v any) any {
	switch v := v.(type) {
	case []any:
		out := make([]any, len(v))
		for i, x := range v {
			out[i] = displayValue(x)
		}
		return out
	case fmt.Stringer:
		return v.String()
	}
	return v
}

func writeResolution(w io.Writer, format string, res *command.Result) error {
	r := newResolution(res)
	switch format {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		j, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", j)
		return err
	}
}
