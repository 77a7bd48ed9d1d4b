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

// errtracegen mechanically instruments Go source so that error values
// carry their origin. See tools/errtracegen/cmd for the subcommands and
// tools/errtracegen/gen for the rewrite rules.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/nviennot/linux-trace-error/tools/errtracegen/cmd"
)

var verbose = flag.Bool("verbose", false, "enable debug logging")

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(new(cmd.Rewrite), "")
	subcommands.Register(new(cmd.Check), "")

	// All subcommands must be registered before flag parsing.
	flag.Parse()

	if *verbose {
		cmd.Log.SetLevel(logrus.DebugLevel)
	}
	os.Exit(int(subcommands.Execute(context.Background())))
}
