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

package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvanbenschoten/cockroach-fuse/internal/config"
)

func TestCobraArgsRejectsPositionalArgs(t *testing.T) {
	cmd, err := NewRootCmd(func(context.Context, config.Config) error { return nil })
	require.NoError(t, err)
	cmd.SetArgs([]string{"unexpected"})

	assert.Error(t, cmd.Execute())
}

func TestRootCmdDefaults(t *testing.T) {
	var seen config.Config
	cmd, err := NewRootCmd(func(_ context.Context, c config.Config) error {
		seen = c
		return nil
	})
	require.NoError(t, err)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())

	want := config.Default()
	assert.Equal(t, want.Mountpoint, seen.Mountpoint)
	assert.Equal(t, want.DatabaseURL, seen.DatabaseURL)
	assert.Equal(t, want.Log.Severity, seen.Log.Severity)
	assert.Equal(t, want.Log.Format, seen.Log.Format)
}

func TestRootCmdFlagParsing(t *testing.T) {
	var seen config.Config
	cmd, err := NewRootCmd(func(_ context.Context, c config.Config) error {
		seen = c
		return nil
	})
	require.NoError(t, err)
	cmd.SetArgs([]string{
		"-m", "/mnt/cockroachfs",
		"--db", "postgres://root@db:26257/cockroachfs?sslmode=disable",
		"--log-severity", "DEBUG",
		"--log-format", "json",
	})

	require.NoError(t, cmd.Execute())

	assert.Equal(t, "/mnt/cockroachfs", seen.Mountpoint)
	assert.Equal(t, "postgres://root@db:26257/cockroachfs?sslmode=disable", seen.DatabaseURL)
	assert.Equal(t, "DEBUG", seen.Log.Severity)
	assert.Equal(t, "json", seen.Log.Format)
}

func TestRootCmdPropagatesRunnerError(t *testing.T) {
	cmd, err := NewRootCmd(func(context.Context, config.Config) error {
		return assert.AnError
	})
	require.NoError(t, err)
	cmd.SetArgs(nil)

	assert.ErrorIs(t, cmd.Execute(), assert.AnError)
}
