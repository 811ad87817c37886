// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package modelstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Backend stores encoded artifact envelopes by name.
type Backend interface {
	// Get returns the latest envelope for name, or ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)

	// Put stores a new envelope for name.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes every stored version of name.
	Delete(ctx context.Context, name string) error

	// Names lists stored artifact names in sorted order.
	Names(ctx context.Context) ([]string, error)

	Close() error
}

const artifactExt = ".gob.gz"

// FileBackend stores envelopes as {name}_v{version}.gob.gz under a directory.
type FileBackend struct {
	baseDir      string
	keepVersions int

	mu       sync.RWMutex
	versions map[string][]int // ascending
}

// NewFileBackend opens (creating if needed) a model directory.
// keepVersions below 1 is treated as 1.
func NewFileBackend(baseDir string, keepVersions int) (*FileBackend, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create model directory: %w", err)
	}
	if keepVersions < 1 {
		keepVersions = 1
	}

	b := &FileBackend{
		baseDir:      baseDir,
		keepVersions: keepVersions,
		versions:     make(map[string][]int),
	}
	if err := b.scan(); err != nil {
		return nil, fmt.Errorf("scan model directory: %w", err)
	}
	return b, nil
}

func (b *FileBackend) scan() error {
	entries, err := os.ReadDir(b.baseDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), artifactExt) {
			continue
		}
		name, version := parseArtifactFilename(strings.TrimSuffix(entry.Name(), artifactExt))
		if name == "" {
			continue
		}
		b.versions[name] = append(b.versions[name], version)
	}
	for name := range b.versions {
		slices.Sort(b.versions[name])
	}
	return nil
}

// parseArtifactFilename splits "weather_humidity_v3" into ("weather_humidity", 3).
func parseArtifactFilename(base string) (string, int) {
	idx := strings.LastIndex(base, "_v")
	if idx <= 0 {
		return "", 0
	}
	version, err := strconv.Atoi(base[idx+2:])
	if err != nil || version < 1 {
		return "", 0
	}
	return base[:idx], version
}

func (b *FileBackend) path(name string, version int) string {
	return filepath.Join(b.baseDir, fmt.Sprintf("%s_v%d%s", name, version, artifactExt))
}

// Get implements Backend.
func (b *FileBackend) Get(_ context.Context, name string) ([]byte, error) {
	b.mu.RLock()
	versions := b.versions[name]
	b.mu.RUnlock()

	if len(versions) == 0 {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(b.path(name, versions[len(versions)-1]))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact file: %w", err)
	}
	return data, nil
}

// Put writes the next version atomically and prunes old versions.
func (b *FileBackend) Put(_ context.Context, name string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := 1
	if vs := b.versions[name]; len(vs) > 0 {
		next = vs[len(vs)-1] + 1
	}

	tmp, err := os.CreateTemp(b.baseDir, name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()        //nolint:errcheck // already failing
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("write artifact file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("close artifact file: %w", err)
	}
	if err := os.Rename(tmpName, b.path(name, next)); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("rename artifact file: %w", err)
	}

	b.versions[name] = append(b.versions[name], next)
	b.pruneLocked(name)
	return nil
}

// pruneLocked removes versions beyond keepVersions. Caller holds mu.
func (b *FileBackend) pruneLocked(name string) {
	vs := b.versions[name]
	if len(vs) <= b.keepVersions {
		return
	}
	drop := vs[:len(vs)-b.keepVersions]
	for _, v := range drop {
		_ = os.Remove(b.path(name, v)) //nolint:errcheck // best-effort cleanup of old versions
	}
	b.versions[name] = slices.Clone(vs[len(vs)-b.keepVersions:])
}

// Versions returns the stored versions of name in ascending order.
func (b *FileBackend) Versions(name string) []int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.versions[name])
}

// Delete implements Backend.
func (b *FileBackend) Delete(_ context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, v := range b.versions[name] {
		if err := os.Remove(b.path(name, v)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete artifact: %w", err)
		}
	}
	delete(b.versions, name)
	return nil
}

// Names implements Backend.
func (b *FileBackend) Names(_ context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.versions))
	for name, vs := range b.versions {
		if len(vs) > 0 {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Close implements Backend.
func (b *FileBackend) Close() error {
	return nil
}
