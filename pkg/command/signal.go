// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import (
	"context"
	"fmt"
)

// Action is a hook attached to a command or option. It runs only after
// resolution succeeded and never touches process state itself; to stop the
// program it returns Terminate and lets the caller decide how to exit.
type Action func(ctx context.Context, res *Result) (Signal, error)

// Signal tells the boundary whether to keep going after a hook.
type Signal struct {
	terminate bool
	code      int
}

// Continue is the zero Signal.
var Continue = Signal{}

// Terminate requests that the program stop with the given exit code.
func Terminate(code int) Signal {
	return Signal{terminate: true, code: code}
}

// Terminated reports whether s asks the program to stop.
func (s Signal) Terminated() bool { return s.terminate }

// Code returns the requested exit code. It is 0 for Continue.
func (s Signal) Code() int { return s.code }

func (s Signal) String() string {
	if !s.terminate {
		return "continue"
	}
	return fmt.Sprintf("terminate(%d)", s.code)
}
