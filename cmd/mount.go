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
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/jacobsa/fuse"

	"github.com/nvanbenschoten/cockroach-fuse/clock"
	"github.com/nvanbenschoten/cockroach-fuse/internal/config"
	"github.com/nvanbenschoten/cockroach-fuse/internal/fsops"
	"github.com/nvanbenschoten/cockroach-fuse/internal/logger"
	"github.com/nvanbenschoten/cockroach-fuse/internal/sqlstore"
)

// runID stamps the startup banner with a per-process identifier so log
// lines can be correlated across a fleet of mounts sharing one cluster.
var runID = uuid.New().String()

// runMount connects to the database, bootstraps the schema, and mounts the
// filesystem at cfg.Mountpoint, blocking until it is unmounted. Any failure
// here is surfaced to Execute as a nonzero exit status.
func runMount(ctx context.Context, cfg config.Config) error {
	if cfg.Log.FilePath != "" {
		if err := logger.InitLogFile(cfg.Log); err != nil {
			return fmt.Errorf("cockroach-fuse: %w", err)
		}
		defer logger.Close()
	} else {
		logger.SetLogFormat(cfg.Log.Format)
		logger.SetSeverity(cfg.Log.Severity)
	}
	logger.Infof("cockroach-fuse %s starting; mounting %q against %q", runID, cfg.Mountpoint, cfg.DatabaseURL)

	store, err := sqlstore.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer store.Close()

	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("bootstrapping schema: %w", err)
	}

	fs := fsops.New(store, clock.RealClock{})
	server := fsops.NewServer(fs)
	mountCfg := getFuseMountConfig()

	if err := os.MkdirAll(cfg.Mountpoint, 0755); err != nil {
		return fmt.Errorf("creating mountpoint %q: %w", cfg.Mountpoint, err)
	}

	mfs, err := fuse.Mount(cfg.Mountpoint, server, mountCfg)
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}

	registerSIGINTHandler(mfs.Dir())

	logger.Infof("mounted %q; waiting for unmount", mfs.Dir())
	if err := mfs.Join(ctx); err != nil {
		return fmt.Errorf("MountedFileSystem.Join: %w", err)
	}
	return nil
}

// getFuseMountConfig builds the fuse.MountConfig used by every mount. It is
// split out from runMount, which also opens a real database connection, so
// its fields can be asserted on without anything resembling a live cluster.
func getFuseMountConfig() *fuse.MountConfig {
	return &fuse.MountConfig{
		FSName:      "cockroachfs",
		VolumeName:  "cockroachfs",
		ErrorLogger: log.New(os.Stderr, "fuse: ", log.LstdFlags),
	}
}

// registerSIGINTHandler lets a user Ctrl-C out of the foreground process
// and have the mount cleanly unmounted instead of left dangling.
func registerSIGINTHandler(mountPoint string) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)

	go func() {
		for range signalChan {
			logger.Infof("received SIGINT, attempting to unmount %q...", mountPoint)
			if err := fuse.Unmount(mountPoint); err != nil {
				logger.Errorf("failed to unmount in response to SIGINT: %v", err)
				continue
			}
			logger.Infof("successfully unmounted %q", mountPoint)
			return
		}
	}()
}
