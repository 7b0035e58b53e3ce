// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import "context"

// Execute resolves argv and runs the hooks of the result, one at a time.
//
// When a standalone option matched, only its action runs. Otherwise the
// actions of the supplied options run in the order they appeared, followed
// by the action of the resolved command. The first hook that returns an
// error or a terminating Signal stops the sequence.
func (c *Command) Execute(ctx context.Context, argv []string) (Signal, error) {
	res, err := c.Resolve(argv)
	if err != nil {
		return Continue, err
	}
	return res.Run(ctx)
}

// Run invokes the hooks of an already resolved result. See Execute.
func (r *Result) Run(ctx context.Context) (Signal, error) {
	if r.Standalone != nil {
		if r.Standalone.Action == nil {
			return Continue, nil
		}
		return r.Standalone.Action(ctx, r)
	}
	for _, o := range r.applied {
		if o.Action == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Continue, err
		}
		sig, err := o.Action(ctx, r)
		if err != nil || sig.Terminated() {
			return sig, err
		}
	}
	if r.Command.action == nil {
		return Continue, nil
	}
	if err := ctx.Err(); err != nil {
		return Continue, err
	}
	return r.Command.action(ctx, r)
}
