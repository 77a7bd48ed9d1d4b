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

// Rewrite implements subcommands.Command for the "rewrite" command.
type Rewrite struct {
	config string
	dryRun bool
}

// Name implements subcommands.Command.Name.
func (*Rewrite) Name() string {
	return "rewrite"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Rewrite) Synopsis() string {
	return "wrap error values with provenance recording calls"
}

// Usage implements subcommands.Command.Usage.
func (*Rewrite) Usage() string {
	return `rewrite [flags] [root]

Rewrites every Go file under root (default ".") in place, wrapping error
values from the instrumented packages with recording calls at assignment,
var initializer and return positions. Running it again on already
rewritten code changes nothing.

`
}

// SetFlags implements subcommands.Command.SetFlags.
func (r *Rewrite) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.config, "config", "", "path to a TOML config file")
	f.BoolVar(&r.dryRun, "dry-run", false, "report what would change without writing")
}

// Execute implements subcommands.Command.Execute.
func (r *Rewrite) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	root := "."
	switch f.NArg() {
	case 0:
	case 1:
		root = f.Arg(0)
	default:
		f.Usage()
		return subcommands.ExitUsageError
	}
	rw, err := gen.New(loadConfig(r.config))
	if err != nil {
		Fatalf("%v", err)
	}
	stats, err := rw.Tree(ctx, Log, root, !r.dryRun)
	if err != nil {
		Fatalf("rewriting %s: %v", root, err)
	}
	Log.Infof("%d files scanned, %d changed, %d sites wrapped",
		stats.Files.Load(), stats.Changed.Load(), stats.Sites.Load())
	return subcommands.ExitSuccess
}
