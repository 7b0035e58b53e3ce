// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package help turns a command tree into help pages and installs the
// standard help and version entry points on a command.
//
// The package only reads the tree. Assemble collects what a command
// exposes into a Page; a Renderer lays the page out for a terminal.
package help

import (
	"fmt"
	"strings"

	"github.com/yeetrun/cmdtree/pkg/command"
)

// Page is the display model of one command's help.
type Page struct {
	Usage       string
	Version     string
	Description string
	Sections    []Section
	Examples    []command.Example
}

// Section is a titled table of rows.
type Section struct {
	Title string
	Rows  []Row
}

// Row is one entry of a section, e.g. an option.
type Row struct {
	// Label holds the names, e.g. "-f, --force".
	Label string
	// Type is the value or argument definition, if any.
	Type        string
	Description string
	// Hints are short remarks such as "required" or "Default: 1".
	Hints []string
}

// Section titles.
const (
	OptionsTitle  = "Options"
	CommandsTitle = "Commands"
	EnvTitle      = "Environment variables"
)

// Assemble builds the help page for c. Empty sections are left out.
func Assemble(c *command.Command) Page {
	p := Page{
		Usage:       usage(c),
		Version:     c.GetVersion(),
		Description: c.GetDescription(),
		Examples:    c.Examples(),
	}
	if c.HasOptions() {
		s := Section{Title: OptionsTitle}
		for _, o := range c.Options() {
			s.Rows = append(s.Rows, Row{
				Label:       strings.Join(o.Names, ", "),
				Type:        o.TypeDefinition(),
				Description: o.Description,
				Hints:       Hints(o),
			})
		}
		p.Sections = append(p.Sections, s)
	}
	if c.HasCommands() {
		s := Section{Title: CommandsTitle}
		for _, m := range c.CommandMaps() {
			s.Rows = append(s.Rows, Row{
				Label:       strings.Join(append([]string{m.Name}, m.Aliases...), ", "),
				Type:        m.Command.ArgsDefinition(),
				Description: firstLine(m.Command.GetDescription()),
			})
		}
		p.Sections = append(p.Sections, s)
	}
	if c.HasEnvVars() {
		s := Section{Title: EnvTitle}
		for _, e := range c.EnvVars() {
			s.Rows = append(s.Rows, Row{
				Label:       strings.Join(e.Names, ", "),
				Type:        "<" + e.Type + ">",
				Description: e.Description,
			})
		}
		p.Sections = append(p.Sections, s)
	}
	return p
}

// Hints derives the display remarks of an option.
func Hints(o *command.Option) []string {
	var hints []string
	if o.Required {
		hints = append(hints, "required")
	}
	if o.Default != nil {
		hints = append(hints, fmt.Sprintf("Default: %v", o.Default))
	}
	if len(o.Conflicts) > 0 {
		hints = append(hints, "conflicts: "+strings.Join(o.Conflicts, ", "))
	}
	return hints
}

func usage(c *command.Command) string {
	parts := []string{c.Path()}
	if c.HasOptions() {
		parts = append(parts, "[options]")
	}
	if def := c.ArgsDefinition(); def != "" {
		parts = append(parts, def)
	}
	if c.HasCommands() {
		parts = append(parts, "[command]")
	}
	return strings.Join(parts, " ")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
