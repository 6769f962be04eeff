// Copyright 2025 Google LLC
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

// Package cmd wires flags and config into a running mount. The surface is
// deliberately small: a mountpoint, a database connection string, and a
// few logging knobs.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nvanbenschoten/cockroach-fuse/internal/config"
)

// runnerFunc is what NewRootCmd invokes once flags are parsed and bound;
// production code passes runMount, tests pass a stub so cobra's own flag
// and arg handling can be exercised without touching a database.
type runnerFunc func(ctx context.Context, cfg config.Config) error

// NewRootCmd builds the cockroach-fuse root command. run is called with the
// fully resolved configuration once cobra has parsed flags; taking it as a
// parameter lets tests inject a stub instead of dialing a real cluster.
func NewRootCmd(run runnerFunc) (*cobra.Command, error) {
	v := viper.New()
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "cockroach-fuse",
		Short: "Mount a CockroachDB-backed filesystem over FUSE",
		Long: `cockroach-fuse is a FUSE daemon whose durable state lives entirely in
a CockroachDB (or other Postgres wire-compatible) cluster. It translates
ordinary file and directory syscalls into SQL transactions against the
inodes, dir_entries, and blocks tables of the connected database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("unmarshaling config: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("mountpoint", "m", cfg.Mountpoint, "local directory to mount the filesystem on")
	flags.String("db", cfg.DatabaseURL, "Postgres/CockroachDB connection string backing the filesystem")
	flags.String("log-severity", cfg.Log.Severity, "TRACE, DEBUG, INFO, WARNING, ERROR, or OFF")
	flags.String("log-format", cfg.Log.Format, "text or json")
	flags.String("log-file", cfg.Log.FilePath, "path to a log file; empty logs to stderr only")

	for flagName, key := range map[string]string{
		"mountpoint":   "Mountpoint",
		"db":           "DatabaseURL",
		"log-severity": "Log.Severity",
		"log-format":   "Log.Format",
		"log-file":     "Log.FilePath",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flagName)); err != nil {
			return nil, fmt.Errorf("binding --%s: %w", flagName, err)
		}
	}

	return cmd, nil
}

// Execute runs the root command against the real mount path, exiting the
// process with a nonzero status on any mount or connection failure.
func Execute() {
	cmd, err := NewRootCmd(runMount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
