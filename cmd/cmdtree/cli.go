// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/shayne/yargs"
	"github.com/yeetrun/cmdtree/pkg/command"
	"github.com/yeetrun/cmdtree/pkg/help"
	"github.com/yeetrun/cmdtree/pkg/manifest"
)

//go:embed demo.toml
var demoManifest []byte

// globalFlagsParsed are the binary's own flags. They are reserved: the
// resolved tree never sees them.
type globalFlagsParsed struct {
	Manifest string `flag:"manifest" help:"Command tree manifest, .toml or .yaml (CMDTREE_MANIFEST)"`
	Output   string `flag:"output" help:"Result format: json or yaml"`
	Verbose  bool   `flag:"verbose" help:"Log debug details"`
	NoColor  bool   `flag:"no-color" help:"Disable colored help"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	flags := result.Flags
	if flags.Manifest == "" {
		flags.Manifest = os.Getenv("CMDTREE_MANIFEST")
	}
	switch flags.Output {
	case "":
		flags.Output = outputJSON
	case outputJSON, outputYAML:
	default:
		return globalFlagsParsed{}, nil, fmt.Errorf("invalid --output %q: expected json or yaml", flags.Output)
	}
	rest := result.RemainingArgs
	// A leading "--" only separates the binary's flags from the tokens.
	if len(rest) > 0 && rest[0] == "--" {
		rest = rest[1:]
	}
	return flags, rest, nil
}

// loadTree builds the command tree from the manifest at path, or from the
// built-in demo manifest when path is empty. Help and version write to out.
func loadTree(path string, out io.Writer) (*command.Command, error) {
	var (
		spec manifest.Spec
		err  error
	)
	if path == "" {
		spec, err = manifest.Decode(bytes.NewReader(demoManifest), manifest.TOML)
	} else {
		spec, err = manifest.Load(path)
	}
	if err != nil {
		return nil, err
	}
	root := help.NewDefault(spec.Name, out)
	if err := manifest.Apply(root, spec); err != nil {
		return nil, err
	}
	return root, nil
}
