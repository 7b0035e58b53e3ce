// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package help

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// Renderer writes pages as aligned plain text, optionally colorized.
type Renderer struct {
	Out   io.Writer
	Color bool
}

// Render writes p to r.Out.
func (r Renderer) Render(p Page) error {
	var (
		title    = r.style(color.Bold)
		label    = r.style(color.FgBlue)
		hint     = r.style(color.FgYellow)
		required = r.style(color.FgRed)
	)
	w := &errWriter{w: r.Out}

	fmt.Fprintf(w, "%s %s\n", title.Sprint("Usage:"), p.Usage)
	if p.Version != "" {
		fmt.Fprintf(w, "%s %s\n", title.Sprint("Version:"), p.Version)
	}
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n\n", title.Sprint("Description:"))
		for _, line := range strings.Split(p.Description, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	for _, s := range p.Sections {
		fmt.Fprintf(w, "\n%s\n\n", title.Sprint(s.Title+":"))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, row := range s.Rows {
			fmt.Fprintf(tw, "  %s\t%s\t%s%s\n", label.Sprint(row.Label), row.Type, row.Description, r.hints(row.Hints, hint, required))
		}
		_ = tw.Flush()
	}
	if len(p.Examples) > 0 {
		fmt.Fprintf(w, "\n%s\n", title.Sprint("Examples:"))
		for _, ex := range p.Examples {
			fmt.Fprintf(w, "\n  %s\n", label.Sprint(ex.Name))
			for _, line := range strings.Split(ex.Description, "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
	return w.err
}

func (r Renderer) hints(hints []string, hint, required *color.Color) string {
	if len(hints) == 0 {
		return ""
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		if h == "required" {
			parts[i] = required.Sprint(h)
		} else {
			parts[i] = hint.Sprint(h)
		}
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func (r Renderer) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// errWriter keeps the first write error so Render can report it once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
