// Copyright 2026 The linux-trace-error Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/nviennot/linux-trace-error/tools/errtracegen/gen"
)

// Check implements subcommands.Command for the "check" command.
type Check struct {
	config string
}

// Name implements subcommands.Command.Name.
func (*Check) Name() string {
	return "check"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Check) Synopsis() string {
	return "verify that all eligible error values are already wrapped"
}

// Usage implements subcommands.Command.Usage.
func (*Check) Usage() string {
	return `check [flags] [root]

Exits non-zero if a rewrite of the tree under root (default ".") would
change anything. Intended for CI.

`
}

// SetFlags implements subcommands.Command.SetFlags.
func (c *Check) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "path to a TOML config file")
}

// Execute implements subcommands.Command.Execute.
func (c *Check) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	root := "."
	switch f.NArg() {
	case 0:
	case 1:
		root = f.Arg(0)
	default:
		f.Usage()
		return subcommands.ExitUsageError
	}
	rw, err := gen.New(loadConfig(c.config))
	if err != nil {
		Fatalf("%v", err)
	}
	stats, err := rw.Tree(ctx, Log, root, false)
	if err != nil {
		Fatalf("checking %s: %v", root, err)
	}
	if n := stats.Changed.Load(); n > 0 {
		Log.Errorf("%d files need rewriting (%d unwrapped sites); run errtracegen rewrite",
			n, stats.Sites.Load())
		return subcommands.ExitFailure
	}
	Log.Infof("%d files clean", stats.Files.Load())
	return subcommands.ExitSuccess
}
