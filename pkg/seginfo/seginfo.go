// Package seginfo locates and names log segment files on disk. Segments are
// named "<generation>.log", where generation is a monotonically increasing
// uint64 assigned by the storage engine; this package is the single place
// that understands that naming scheme so the rest of the engine never has
// to construct or parse a segment filename itself.
package seginfo

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ignitedb/ignite/pkg/errors"
)

// Extension is the fixed suffix every segment file carries.
const Extension = ".log"

// FileName returns the on-disk filename for the given generation.
func FileName(gen uint64) string {
	return strconv.FormatUint(gen, 10) + Extension
}

// Path joins dir and the segment filename for gen.
func Path(dir string, gen uint64) string {
	return filepath.Join(dir, FileName(gen))
}

// ParseGen extracts the generation number from a segment filename. It
// returns false for anything that isn't a "<uint64>.log" name, including the
// "engine" sentinel file and any stray ".lock" artifacts a directory might
// contain.
func ParseGen(name string) (uint64, bool) {
	if !strings.HasSuffix(name, Extension) {
		return 0, false
	}
	gen, err := strconv.ParseUint(strings.TrimSuffix(name, Extension), 10, 64)
	if err != nil {
		return 0, false
	}
	return gen, true
}

// List returns every segment generation present in dir, sorted ascending.
// Entries with no ".log" suffix are ignored rather than treated as
// corruption: the on-disk layout only requires that *.log files be
// segments, not that the directory contain nothing else. An entry that
// does carry the suffix but doesn't parse as a generation number is
// logged and skipped, since it indicates a tampered or foreign file
// rather than something this engine ever wrote.
func List(dir string, log *zap.SugaredLogger) ([]uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to list segment directory").WithPath(dir)
	}

	gens := make([]uint64, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if gen, ok := ParseGen(name); ok {
			gens = append(gens, gen)
			continue
		}
		if strings.HasSuffix(name, Extension) {
			log.Warnw("skipping unparseable segment file", "error", errors.NewGenerationParseError(name, nil))
		}
	}

	sort.Slice(gens, func(i, j int) bool { return gens[i] < gens[j] })
	return gens, nil
}
