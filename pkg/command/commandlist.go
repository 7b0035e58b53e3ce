// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import (
	"fmt"

	"github.com/yeetrun/cmdtree/pkg/types"
)

// CommandListType returns a value type accepting the names and aliases of
// c's children. The coerced value is the child's canonical name. It is
// used by the help command to take a command name as its argument.
func CommandListType(c *Command) types.Handler {
	return commandList{parent: c}
}

type commandList struct {
	parent *Command
}

func (l commandList) Parse(raw string) (any, error) {
	sub := l.parent.findChild(raw)
	if sub == nil {
		return nil, fmt.Errorf("%w: no command %q", types.ErrInvalidValue, raw)
	}
	return sub.name, nil
}

func (l commandList) Validate(raw string) bool {
	return l.parent.findChild(raw) != nil
}
