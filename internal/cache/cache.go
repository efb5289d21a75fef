// Package cache persists device images as compressed gob files so a
// session can be resumed with the same allocations.
package cache

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samuli/blockdive/internal/simfs"
)

// Cache handles saving and loading device images
type Cache struct {
	dir string
}

// New creates a new cache in the given directory
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// DefaultDir returns the default cache directory
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".blockdive"
	}
	return filepath.Join(home, ".blockdive", "snapshots")
}

// Save saves a device image under the given name
func (c *Cache) Save(name string, img simfs.Image) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.gob.gz",
		name,
		time.Now().Format("2006-01-02_150405"))

	path := filepath.Join(c.dir, filename)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	defer gzWriter.Close()

	encoder := gob.NewEncoder(gzWriter)
	if err := encoder.Encode(img); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	return nil
}

// LoadLatest loads the most recent image saved under a name
func (c *Cache) LoadLatest(name string) (simfs.Image, error) {
	pattern := filepath.Join(c.dir, fmt.Sprintf("%s_*.gob.gz", name))
	files, err := filepath.Glob(pattern)
	if err != nil {
		return simfs.Image{}, fmt.Errorf("glob: %w", err)
	}

	if len(files) == 0 {
		return simfs.Image{}, fmt.Errorf("no snapshot found for %s", name)
	}

	// Sort to get latest (filenames include timestamp)
	sort.Strings(files)
	latest := files[len(files)-1]

	return Load(latest)
}

// Load loads an image from an explicit path
func Load(path string) (simfs.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return simfs.Image{}, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return simfs.Image{}, fmt.Errorf("gzip reader: %w", err)
	}
	defer gzReader.Close()

	var img simfs.Image
	decoder := gob.NewDecoder(gzReader)
	if err := decoder.Decode(&img); err != nil {
		return simfs.Image{}, fmt.Errorf("decode: %w", err)
	}

	return img, nil
}

// Timestamp returns the timestamp of the latest snapshot for a name
func (c *Cache) Timestamp(name string) (time.Time, error) {
	pattern := filepath.Join(c.dir, fmt.Sprintf("%s_*.gob.gz", name))
	files, err := filepath.Glob(pattern)
	if err != nil {
		return time.Time{}, fmt.Errorf("glob error: %w", err)
	}
	if len(files) == 0 {
		return time.Time{}, fmt.Errorf("no snapshot")
	}

	sort.Strings(files)
	latest := files[len(files)-1]

	// Extract timestamp from filename
	base := filepath.Base(latest)
	base = strings.TrimSuffix(base, ".gob.gz")
	parts := strings.SplitN(base, "_", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid filename")
	}

	return time.Parse("2006-01-02_150405", parts[1])
}
