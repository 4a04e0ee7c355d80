package audio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// Positions of the sounds in the catalog. The catalog is sorted by file
// name, so the files are expected to be named to match, e.g.
// 00_on.wav, 01_idle.wav, ...
const (
	SoundPowerOn     = 0
	SoundIdle        = 1
	SoundPowerOff    = 2
	ClashFirst       = 3
	ClashLast        = 10
	SwingFirst       = 11
	SwingLast        = 18
	SoundColorSelect = 19

	CatalogMinSize = 20
)

// Catalog is the ordered list of WAV files of a sound directory.
type Catalog struct {
	dir   string
	files []string
}

// LoadCatalog collects all *.wav files of dir, ignoring hidden files,
// sorted by name.
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sound directory %s: %w", dir, err)
	}
	c := &Catalog{dir: dir}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(strings.ToLower(name), ".wav") {
			continue
		}
		c.files = append(c.files, name)
	}
	sort.Strings(c.files)

	slog.Info("Loaded sound files", "dir", dir, "count", len(c.files))
	for i, name := range c.files {
		slog.Debug("Sound file", "index", i, "file", name)
	}
	if len(c.files) < CatalogMinSize {
		slog.Warn("Not enough sound files, some effects will be silent", "count", len(c.files), "expected", CatalogMinSize)
	}
	return c, nil
}

// Len returns the number of sounds.
func (c *Catalog) Len() int {
	return len(c.files)
}

// Name returns the file name of sound index.
func (c *Catalog) Name(index int) string {
	if index < 0 || index >= len(c.files) {
		return ""
	}
	return c.files[index]
}

// Open decodes sound index. The caller must close the returned stream.
func (c *Catalog) Open(index int) (beep.StreamSeekCloser, beep.Format, error) {
	if index < 0 || index >= len(c.files) {
		return nil, beep.Format{}, fmt.Errorf("sound index %d out of range [0,%d)", index, len(c.files))
	}
	path := filepath.Join(c.dir, c.files[index])
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("failed to open sound %s: %w", path, err)
	}
	stream, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("failed to decode sound %s: %w", path, err)
	}
	return stream, format, nil
}
