// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Greet shows the builder API: a root with help installed, a sub-command
// with typed arguments and an action that ends the program with a code.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yeetrun/cmdtree/pkg/command"
	"github.com/yeetrun/cmdtree/pkg/help"
)

func main() {
	root := help.NewDefault("greet", os.Stdout).
		Version("1.0.0").
		Description("Say hello.").
		Option("-l, --loud", "Shout.", command.OptionConfig{Global: true}).
		Default("hello")

	root.AddCommand("hello <name:string> [others...:string]", command.New("hello").
		Description("Greet one or more people.").
		Option("-t, --times <count:integer>", "Repeat the greeting.", command.OptionConfig{Default: int64(1)}).
		Action(hello))

	sig, err := command.Must(root).Execute(context.Background(), os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	os.Exit(sig.Code())
}

func hello(ctx context.Context, res *command.Result) (command.Signal, error) {
	names := []string{res.Args[0].(string)}
	if len(res.Args) > 1 {
		for _, other := range res.Args[1].([]any) {
			names = append(names, other.(string))
		}
	}
	msg := "Hello, " + strings.Join(names, " and ") + "!"
	if loud, _ := res.Option("loud"); loud == true {
		msg = strings.ToUpper(msg)
	}
	for range res.Options["times"].(int64) {
		fmt.Println(msg)
	}
	return command.Terminate(0), nil
}
