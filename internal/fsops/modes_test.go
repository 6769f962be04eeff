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

package fsops

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nvanbenschoten/cockroach-fuse/internal/sqlstore"
)

func TestDecodeModeRegularFile(t *testing.T) {
	assert.Equal(t, sqlstore.FileTypeRegularFile, decodeMode(0o644))
	assert.EqualValues(t, 0o644, permBits(0o644))
}

func TestDecodeModeDirectory(t *testing.T) {
	assert.Equal(t, sqlstore.FileTypeDirectory, decodeMode(os.ModeDir|0o755))
}

func TestDecodeModeCharAndBlockDevice(t *testing.T) {
	assert.Equal(t, sqlstore.FileTypeCharDevice, decodeMode(os.ModeDevice|os.ModeCharDevice|0o600))
	assert.Equal(t, sqlstore.FileTypeBlockDevice, decodeMode(os.ModeDevice|0o600))
}

func TestEncodeModeRoundTrip(t *testing.T) {
	for _, kind := range []sqlstore.FileType{
		sqlstore.FileTypeNamedPipe,
		sqlstore.FileTypeCharDevice,
		sqlstore.FileTypeBlockDevice,
		sqlstore.FileTypeDirectory,
		sqlstore.FileTypeRegularFile,
		sqlstore.FileTypeSymlink,
		sqlstore.FileTypeSocket,
	} {
		mode := encodeMode(kind, 0o640)
		assert.Equal(t, kind, decodeMode(mode))
		assert.EqualValues(t, 0o640, permBits(mode))
	}
}
