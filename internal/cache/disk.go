package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Sumatoshi-tech/couplint/internal/syntax"
	"github.com/Sumatoshi-tech/couplint/pkg/persist"
)

// astSubdir is the directory under the cache root holding persisted trees.
const astSubdir = "ast"

// DiskStore persists parsed units under <dir>/ast/<hash>.gob.lz4.
// Writes go through the atomic write-then-rename persister, so a crash
// mid-write never leaves a half-written entry visible to the next run.
type DiskStore struct {
	dir   string
	codec persist.Codec
}

// NewDiskStore creates a disk store rooted at dir.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{
		dir:   dir,
		codec: persist.NewLZ4Codec(persist.NewGobCodec()),
	}
}

// Store persists a parsed unit keyed by its content hash.
func (s *DiskStore) Store(unit *syntax.Unit) error {
	err := persist.SaveState(s.astDir(), basename(unit.Hash), s.codec, unit)
	if err != nil {
		return fmt.Errorf("store ast %s: %w", unit.Path, err)
	}

	return nil
}

// Load reads the persisted unit for a content hash.
// Missing entries yield [persist.ErrStateNotFound]; undecodable entries
// yield [persist.ErrCorruptState].
func (s *DiskStore) Load(ctx context.Context, hash uint64) (*syntax.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var unit syntax.Unit

	err := persist.LoadState(s.astDir(), basename(hash), s.codec, &unit)
	if err != nil {
		return nil, err
	}

	return &unit, nil
}

// Remove deletes the persisted entry for a content hash, if present.
func (s *DiskStore) Remove(hash uint64) {
	_ = persist.RemoveState(s.astDir(), basename(hash), s.codec)
}

func (s *DiskStore) astDir() string {
	return s.dir + "/" + astSubdir
}

func basename(hash uint64) string {
	return strconv.FormatUint(hash, 16)
}
