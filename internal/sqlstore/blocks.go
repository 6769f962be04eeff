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

package sqlstore

import (
	"bytes"
	"context"
)

// ReadData reads size bytes starting at offset from the file ino. It
// returns ErrNotFound if ino does not exist or if the read range extends
// past the inode's recorded size — short reads are the caller's job to
// handle by asking for less.
//
// The slice returned may include up to BlockSize-1 bytes of leading
// padding when offset does not fall on a block boundary; trimming that
// padding is the VFS handler's responsibility, not this routine's.
func ReadData(ctx context.Context, q Querier, ino uint64, offset int64, size int) ([]byte, error) {
	tx, err := q.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var curSize int64
	if err := tx.QueryRow(ctx, `SELECT size FROM inodes WHERE ino = $1`, int64(ino)).Scan(&curSize); err != nil {
		return nil, ErrNotFound
	}
	if curSize < offset+int64(size) {
		return nil, ErrNotFound
	}

	startBlock := offset / BlockSize
	endBlock := (offset + int64(size)) / BlockSize

	rows, err := tx.Query(ctx,
		`SELECT bytes FROM blocks WHERE file_ino = $1 AND block_idx BETWEEN $2 AND $3 ORDER BY block_idx`,
		int64(ino), startBlock, endBlock)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	data := make([]byte, 0, size)
	for rows.Next() {
		var chunk []byte
		if err := rows.Scan(&chunk); err != nil {
			return nil, err
		}
		data = append(data, chunk...)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(data) > size {
		data = data[:size]
	}

	return data, tx.Commit(ctx)
}

// WriteData writes data at offset into the file ino, creating any blocks
// that don't exist yet (padding with zero blocks as needed to reach the
// write's starting block) and splicing data into existing blocks in
// place. It returns the number of bytes written, always len(data) on
// success, and ErrNotFound if ino does not exist.
//
// Splicing an existing block is done by reading it, mutating the byte
// slice client-side, and writing the whole block back. A SQL-side
// convert_from/substr splice would be one round trip cheaper but goes
// through a text cast, and BYTES payloads are not guaranteed valid UTF-8.
func WriteData(ctx context.Context, q Querier, ino uint64, offset int64, data []byte) (int, error) {
	tx, err := q.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var curSize, curBlocks int64
	if err := tx.QueryRow(ctx,
		`SELECT size, blocks FROM inodes WHERE ino = $1`, int64(ino),
	).Scan(&curSize, &curBlocks); err != nil {
		return 0, ErrNotFound
	}

	zeroBlock := make([]byte, BlockSize)

	// Pad out to the block the write begins in.
	before := offset / BlockSize
	var createdBlocks int64
	for i := curBlocks; i < before; i++ {
		if _, err := tx.Exec(ctx,
			`INSERT INTO blocks (file_ino, block_idx, bytes) VALUES ($1, $2, $3)`,
			int64(ino), i, zeroBlock); err != nil {
			return 0, err
		}
		createdBlocks++
	}

	curBlock := before
	curOffset := offset % BlockSize
	remaining := data

	for len(remaining) > 0 {
		avail := BlockSize - curOffset
		chunkSize := int64(len(remaining))
		if chunkSize > avail {
			chunkSize = avail
		}
		chunk := remaining[:chunkSize]

		if curBlocks <= curBlock {
			block := make([]byte, BlockSize)
			copy(block[curOffset:], chunk)
			if _, err := tx.Exec(ctx,
				`INSERT INTO blocks (file_ino, block_idx, bytes) VALUES ($1, $2, $3)`,
				int64(ino), curBlock, block); err != nil {
				return 0, err
			}
			createdBlocks++
		} else {
			var existing []byte
			if err := tx.QueryRow(ctx,
				`SELECT bytes FROM blocks WHERE file_ino = $1 AND block_idx = $2`,
				int64(ino), curBlock).Scan(&existing); err != nil {
				return 0, err
			}
			spliced := spliceBlock(existing, curOffset, chunk)
			if _, err := tx.Exec(ctx,
				`UPDATE blocks SET bytes = $1 WHERE file_ino = $2 AND block_idx = $3`,
				spliced, int64(ino), curBlock); err != nil {
				return 0, err
			}
		}

		curBlock++
		curOffset = 0
		remaining = remaining[chunkSize:]
	}

	touchedSize := offset + int64(len(data))
	newSize := curSize
	if touchedSize > newSize {
		newSize = touchedSize
	}
	newBlocks := curBlocks + createdBlocks

	tag, err := tx.Exec(ctx,
		`UPDATE inodes SET size = $1, blocks = $2 WHERE ino = $3`,
		newSize, newBlocks, int64(ino))
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() != 1 {
		return 0, ErrNotFound
	}

	return len(data), tx.Commit(ctx)
}

// spliceBlock returns a copy of block with chunk written starting at
// offset, leaving every other byte of block untouched.
func spliceBlock(block []byte, offset int64, chunk []byte) []byte {
	out := bytes.Clone(block)
	copy(out[offset:], chunk)
	return out
}
