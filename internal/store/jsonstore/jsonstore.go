package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/idilsaglam/todo/internal/store"
)

// JSON-backed storage. One file per collection, human-readable, portable.
// No locking; fine for a local single-user CLI.

const fileExt = ".json"

// Backend stores each collection as <Dir>/<name>.json.
type Backend struct {
	Dir string

	mu      sync.Mutex
	written map[string][]byte // last bytes this Backend put, by file name
}

var (
	_ store.Backend = (*Backend)(nil)
	_ store.Lister  = (*Backend)(nil)
)

func New(dir string) *Backend {
	return &Backend{Dir: dir, written: map[string][]byte{}}
}

// Path is the file holding the collection called name.
func (b *Backend) Path(name string) string {
	return filepath.Join(b.Dir, fileName(name))
}

// Get returns the collection as standard JSON. Hand-edited files with
// comments or trailing commas are accepted.
func (b *Backend) Get(name string) ([]byte, error) {
	raw, err := os.ReadFile(b.Path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	std, err := hujson.Standardize(raw)
	if err != nil {
		// Let the store see the raw bytes and treat them as corrupt.
		return raw, nil
	}
	return std, nil
}

// Put replaces the file atomically: readers see the old or the new
// collection, never a partial write.
func (b *Backend) Put(name string, data []byte) error {
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		buf.Reset()
		buf.Write(data)
	}
	buf.WriteByte('\n')

	// Recorded before the rename so a watcher never sees the new file
	// without it.
	file := fileName(name)
	b.mu.Lock()
	prev, hadPrev := b.written[file]
	b.written[file] = bytes.Clone(buf.Bytes())
	b.mu.Unlock()

	if err := atomic.WriteFile(b.Path(name), &buf); err != nil {
		b.mu.Lock()
		if hadPrev {
			b.written[file] = prev
		} else {
			delete(b.written, file)
		}
		b.mu.Unlock()
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// ownWrite reports whether the file holds exactly what this Backend last
// put there.
func (b *Backend) ownWrite(file string) bool {
	b.mu.Lock()
	last, ok := b.written[file]
	b.mu.Unlock()
	if !ok {
		return false
	}
	cur, err := os.ReadFile(filepath.Join(b.Dir, file))
	return err == nil && bytes.Equal(cur, last)
}

// Names lists the collections in Dir, sorted. Escaped names are listed as
// they appear on disk.
func (b *Backend) Names() ([]string, error) {
	entries, err := os.ReadDir(b.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileExt))
	}
	slices.Sort(names)
	return names, nil
}

func (b *Backend) Close() error { return nil }

// fileName keeps collection names from escaping Dir.
func fileName(name string) string {
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	if name == "." || name == ".." {
		name = "_"
	}
	return name + fileExt
}
