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

// Package config holds the resolved runtime configuration for the daemon:
// where to mount, how to reach the database, and how to log. cmd/ builds
// one of these from flags and viper; everything below cmd/ only ever sees
// the resolved struct, never a flag.
package config

// Log severities, ordered from the most to the least verbose. These are
// plain strings rather than an enum so they can be set directly from a
// flag or a config file value without a parsing step.
const (
	TRACE   = "TRACE"
	DEBUG   = "DEBUG"
	INFO    = "INFO"
	WARNING = "WARNING"
	ERROR   = "ERROR"
	OFF     = "OFF"
)

// LogRotateConfig controls lumberjack's rotation of the on-disk log file.
type LogRotateConfig struct {
	MaxFileSizeMB   int
	BackupFileCount int
	Compress        bool
}

// DefaultLogRotateConfig returns the rotation settings used when the user
// hasn't overridden them: 512MB files, keep 10 backups, compress rotated
// files.
func DefaultLogRotateConfig() LogRotateConfig {
	return LogRotateConfig{
		MaxFileSizeMB:   512,
		BackupFileCount: 10,
		Compress:        true,
	}
}

// LogConfig is everything the logger needs to know about where and how
// severely to log.
type LogConfig struct {
	// FilePath is where to write logs. An empty path means log to stderr
	// only.
	FilePath string
	Format   string
	Severity string
	LogRotateConfig
}

// Config is the fully resolved set of settings the daemon runs with.
type Config struct {
	// Mountpoint is the local directory the filesystem is mounted on.
	Mountpoint string

	// DatabaseURL is a Postgres/CockroachDB connection string.
	DatabaseURL string

	Log LogConfig
}

// Default returns the configuration used when no flags are given.
func Default() Config {
	return Config{
		Mountpoint:  "./mountpoint",
		DatabaseURL: "postgres://root@localhost:26257/cockroachfs?sslmode=disable",
		Log: LogConfig{
			Format:          "text",
			Severity:        INFO,
			LogRotateConfig: DefaultLogRotateConfig(),
		},
	}
}
