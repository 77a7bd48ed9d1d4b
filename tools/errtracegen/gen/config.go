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

package gen

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// WrapRule names a package whose exported error values should be wrapped,
// and the wrapper function to wrap them with.
type WrapRule struct {
	// Package is the import path of the package defining error values.
	Package string `toml:"package"`

	// Func is the name of the wrapper function in the wrapper package.
	Func string `toml:"func"`
}

// Config controls which values get wrapped and with what.
type Config struct {
	// WrapperImport is the import path of the package providing the
	// wrapper functions.
	WrapperImport string `toml:"wrapper_import"`

	// ContextTypes lists parameter types that can serve as the first
	// argument to a wrapper call, e.g. "context.Context" or
	// "*example.com/pkg/kernel.Task". A function without such a
	// parameter is left untouched.
	ContextTypes []string `toml:"context_types"`

	// Exclude lists value names that must never be wrapped. Allocation
	// and fault errors are excluded by default since they are raised on
	// paths where recording them would only add noise.
	Exclude []string `toml:"exclude"`

	// Wrap lists the packages to instrument.
	Wrap []WrapRule `toml:"wrap"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		WrapperImport: "github.com/nviennot/linux-trace-error/pkg/errtrace",
		ContextTypes: []string{
			"context.Context",
			"*github.com/nviennot/linux-trace-error/pkg/sentry/kernel.Task",
		},
		Exclude: []string{"ENOMEM", "EFAULT"},
		Wrap: []WrapRule{
			{
				Package: "github.com/nviennot/linux-trace-error/pkg/errors/linuxerr",
				Func:    "Error",
			},
			{
				Package: "github.com/nviennot/linux-trace-error/pkg/abi/linux/errno",
				Func:    "Code",
			},
		},
	}
}

// Load reads a TOML config file. Fields left unset fall back to their
// Default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undec[0].String())
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.WrapperImport == "" {
		return fmt.Errorf("wrapper_import must be set")
	}
	if len(c.Wrap) == 0 {
		return fmt.Errorf("at least one [[wrap]] rule is required")
	}
	for _, w := range c.Wrap {
		if w.Package == "" || w.Func == "" {
			return fmt.Errorf("[[wrap]] rules need both package and func")
		}
	}
	return nil
}

func (c *Config) excluded(name string) bool {
	for _, e := range c.Exclude {
		if e == name {
			return true
		}
	}
	return false
}
