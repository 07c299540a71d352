package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File and directory permissions for persisted state.
const (
	dirPerm  = 0o750
	filePerm = 0o600

	// tmpExtension marks in-flight writes awaiting rename.
	tmpExtension = ".tmp"
)

// ErrStateNotFound is returned when no state file exists for the basename.
var ErrStateNotFound = errors.New("persist: state file not found")

// ErrCorruptState is returned when a state file exists but cannot be decoded.
// Callers should treat this as recoverable: drop the entry and recompute.
var ErrCorruptState = errors.New("persist: corrupt state file")

// Persister handles I/O for a specific state type using a Codec.
type Persister[T any] struct {
	basename string
	codec    Codec
}

// NewPersister creates a persister with the given basename and codec.
func NewPersister[T any](basename string, codec Codec) *Persister[T] {
	return &Persister[T]{
		basename: basename,
		codec:    codec,
	}
}

// Save writes state to the given directory using the provided build function.
func (p *Persister[T]) Save(dir string, buildState func() *T) error {
	state := buildState()

	return SaveState(dir, p.basename, p.codec, state)
}

// Load restores state from the given directory using the provided restore function.
func (p *Persister[T]) Load(dir string, restoreState func(*T)) error {
	var state T

	err := LoadState(dir, p.basename, p.codec, &state)
	if err != nil {
		return err
	}

	restoreState(&state)

	return nil
}

// Path returns the file path this persister reads and writes under dir.
func (p *Persister[T]) Path(dir string) string {
	return filepath.Join(dir, p.basename+p.codec.Extension())
}

// SaveState atomically saves state to dir/<basename><ext>. The state is
// encoded into a sibling .tmp file first and renamed into place, so readers
// never observe a partially written file.
func SaveState(dir, basename string, codec Codec, state any) error {
	mkErr := os.MkdirAll(dir, dirPerm)
	if mkErr != nil {
		return fmt.Errorf("create state dir: %w", mkErr)
	}

	path := filepath.Join(dir, basename+codec.Extension())
	tmpPath := path + tmpExtension

	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("create state file: %w", err)
	}

	encodeErr := codec.Encode(file, state)
	if encodeErr != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)

		return fmt.Errorf("encode state: %w", encodeErr)
	}

	syncErr := file.Sync()
	if syncErr != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)

		return fmt.Errorf("sync state file: %w", syncErr)
	}

	closeErr := file.Close()
	if closeErr != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("close state file: %w", closeErr)
	}

	renameErr := os.Rename(tmpPath, path)
	if renameErr != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("finalize state file: %w", renameErr)
	}

	return nil
}

// LoadState loads state from dir/<basename><ext> into the given pointer.
// A missing file yields [ErrStateNotFound]; a file that exists but fails to
// decode yields [ErrCorruptState] so callers can drop and recompute.
func LoadState(dir, basename string, codec Codec, state any) error {
	path := filepath.Join(dir, basename+codec.Extension())

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrStateNotFound, path)
		}

		return fmt.Errorf("open state file: %w", err)
	}
	defer file.Close()

	decodeErr := codec.Decode(file, state)
	if decodeErr != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptState, path, decodeErr)
	}

	return nil
}

// RemoveState deletes the state file for basename under dir, if present.
func RemoveState(dir, basename string, codec Codec) error {
	path := filepath.Join(dir, basename+codec.Extension())

	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove state file: %w", err)
	}

	return nil
}
