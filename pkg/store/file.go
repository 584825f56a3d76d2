package store

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/tilecascade/pkg/errors"
)

// tileExt is appended to every file written by FileBackend.
const tileExt = ".tct"

// FileBackend stores each key as a file below a root directory. Slashes in
// keys become directories, so the default keyer lays tiles out as
// <root>/tile/<depth>/<x>/<y>.tct.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a file backend rooted at dir.
// The directory will be created if it doesn't exist.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := errors.ValidateDirectory(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreOpen, err, "create tile directory %s", dir)
	}
	return &FileBackend{dir: dir}, nil
}

// Name returns "file".
func (b *FileBackend) Name() string { return "file" }

// Dir returns the root directory.
func (b *FileBackend) Dir() string { return b.dir }

// Get reads the file for key.
func (b *FileBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path, err := b.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set writes the file for key. The data is written to a temporary file and
// renamed into place so readers never observe a partial tile.
func (b *FileBackend) Set(ctx context.Context, key string, data []byte) error {
	path, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes the file for key.
func (b *FileBackend) Delete(ctx context.Context, key string) error {
	path, err := b.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Keys walks the directory and returns the keys under prefix.
func (b *FileBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	// Only walk the deepest directory fully contained in prefix.
	start := b.dir
	if i := strings.LastIndex(prefix, "/"); i >= 0 {
		start = filepath.Join(b.dir, filepath.FromSlash(prefix[:i]))
	}

	var keys []string
	err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, tileExt) {
			return nil
		}
		rel, err := filepath.Rel(b.dir, path)
		if err != nil {
			return err
		}
		key := strings.TrimSuffix(filepath.ToSlash(rel), tileExt)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Close does nothing for the file backend.
func (b *FileBackend) Close() error {
	return nil
}

// path converts a key to a file path, rejecting keys that would escape the
// root directory.
func (b *FileBackend) path(key string) (string, error) {
	rel := filepath.FromSlash(key) + tileExt
	if key == "" || !filepath.IsLocal(rel) {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid key %q", key)
	}
	return filepath.Join(b.dir, rel), nil
}

// Ensure FileBackend implements Backend.
var _ Backend = (*FileBackend)(nil)
