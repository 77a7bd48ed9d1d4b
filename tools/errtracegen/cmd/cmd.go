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

// Package cmd holds the errtracegen subcommands.
package cmd

import (
	"github.com/sirupsen/logrus"

	"github.com/nviennot/linux-trace-error/tools/errtracegen/gen"
)

// Log is the logger all subcommands write to. Verbosity is set by main.
var Log = logrus.New()

// Fatalf logs at fatal level, which exits the process.
func Fatalf(format string, args ...any) {
	Log.Fatalf(format, args...)
}

// loadConfig returns the config at path, or the default config when path
// is empty.
func loadConfig(path string) *gen.Config {
	if path == "" {
		return gen.Default()
	}
	cfg, err := gen.Load(path)
	if err != nil {
		Fatalf("loading config: %v", err)
	}
	return cfg
}
