// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/gogpu/naga"
	"github.com/golang/snappy"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// Cache errors.
var (
	ErrInvalidSPIRV = errors.New("shader: invalid SPIR-V")
	ErrInvalidLabel = errors.New("shader: invalid label")
)

var labelPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Compiler turns WGSL source into SPIR-V bytes.
type Compiler func(wgsl string) ([]byte, error)

// Cache compiles WGSL to SPIR-V once per source text and keeps the result
// in memory and, snappy compressed, in a directory.
//
// Files are named <label>-<xxhash of the source>.spv.sz so that edited
// shaders never hit a stale entry.
type Cache struct {
	dir     string
	compile Compiler

	mu     sync.Mutex
	mem    map[uint64][]uint32
	hits   int
	misses int
}

// NewCache creates dir if needed. A nil compile uses naga.
func NewCache(dir string, compile Compiler) (*Cache, error) {
	if compile == nil {
		compile = naga.Compile
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("shader: create cache dir: %w", err)
	}
	return &Cache{
		dir:     dir,
		compile: compile,
		mem:     make(map[uint64][]uint32),
	}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Stats returns the number of lookups served from memory or disk and the
// number that needed a compile.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Path returns the file that caches wgsl under label.
func (c *Cache) Path(label, wgsl string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s-%016x.spv.sz", label, xxhash.Sum64String(wgsl)))
}

// SPIRV returns the SPIR-V words for wgsl, compiling it on a miss.
func (c *Cache) SPIRV(label, wgsl string) ([]uint32, error) {
	if !labelPattern.MatchString(label) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	key := xxhash.Sum64String(wgsl)

	c.mu.Lock()
	defer c.mu.Unlock()

	if words, ok := c.mem[key]; ok {
		c.hits++
		return words, nil
	}

	path := c.Path(label, wgsl)
	if words, err := readCached(path); err == nil {
		c.mem[key] = words
		c.hits++
		return words, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		Logger().Warn("shader: dropping unreadable cache entry", "path", path, "err", err)
		_ = os.Remove(path)
	}

	c.misses++
	spirv, err := c.compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("shader: compile %s: %w", label, err)
	}
	words, err := toWords(spirv)
	if err != nil {
		return nil, fmt.Errorf("shader: compile %s: %w", label, err)
	}
	if err := writeCached(path, spirv); err != nil {
		Logger().Warn("shader: cache write failed", "path", path, "err", err)
	}
	c.mem[key] = words
	return words, nil
}

func readCached(path string) ([]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	spirv, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSPIRV, err)
	}
	return toWords(spirv)
}

func writeCached(path string, spirv []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".spv-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(snappy.Encode(nil, spirv)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// toWords converts little-endian SPIR-V bytes to words and checks the magic.
func toWords(spirv []byte) ([]uint32, error) {
	if len(spirv) < 4 || len(spirv)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSPIRV, len(spirv))
	}
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = uint32(spirv[i*4]) |
			uint32(spirv[i*4+1])<<8 |
			uint32(spirv[i*4+2])<<16 |
			uint32(spirv[i*4+3])<<24
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("%w: magic 0x%08X", ErrInvalidSPIRV, words[0])
	}
	return words, nil
}
