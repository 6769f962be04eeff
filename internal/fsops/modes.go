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

	"github.com/nvanbenschoten/cockroach-fuse/internal/sqlstore"
)

// decodeMode maps the type bits of a kernel-supplied mode to the FileType
// the table schema stores; permBits extracts the perm column. Go's
// os.FileMode already separates the type bits from the permission bits,
// unlike the raw mode_t the original mknod(2) call receives, so this is a
// much smaller job here than masking with 0o170000 in C.
func decodeMode(mode os.FileMode) sqlstore.FileType {
	switch {
	case mode&os.ModeNamedPipe != 0:
		return sqlstore.FileTypeNamedPipe
	case mode&os.ModeSocket != 0:
		return sqlstore.FileTypeSocket
	case mode&os.ModeDevice != 0:
		if mode&os.ModeCharDevice != 0 {
			return sqlstore.FileTypeCharDevice
		}
		return sqlstore.FileTypeBlockDevice
	case mode&os.ModeSymlink != 0:
		return sqlstore.FileTypeSymlink
	case mode&os.ModeDir != 0:
		return sqlstore.FileTypeDirectory
	default:
		return sqlstore.FileTypeRegularFile
	}
}

// permBits extracts the low permission bits of mode, the ones that land in
// the perm column unchanged.
func permBits(mode os.FileMode) uint16 {
	return uint16(mode.Perm())
}

// encodeMode reconstructs an os.FileMode from a stored kind and permission
// bits, the inverse of decodeMode/permBits, for attribute responses.
func encodeMode(kind sqlstore.FileType, perm uint16) os.FileMode {
	m := os.FileMode(perm) & os.ModePerm
	switch kind {
	case sqlstore.FileTypeNamedPipe:
		m |= os.ModeNamedPipe
	case sqlstore.FileTypeSocket:
		m |= os.ModeSocket
	case sqlstore.FileTypeCharDevice:
		m |= os.ModeDevice | os.ModeCharDevice
	case sqlstore.FileTypeBlockDevice:
		m |= os.ModeDevice
	case sqlstore.FileTypeSymlink:
		m |= os.ModeSymlink
	case sqlstore.FileTypeDirectory:
		m |= os.ModeDir
	}
	return m
}
