package assets

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// ScanCatalog lists the selectable entries in a definition directory:
// one entry per *.json file, named by its base name with the extension
// stripped, sorted. A scan failure or a missing directory yields an
// empty catalog, never an error.
func ScanCatalog(dir string) []string {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("[Assets] catalog scan failed")
		return nil
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		base := filepath.Base(f)
		names = append(names, strings.TrimSuffix(base, filepath.Ext(base)))
	}
	sort.Strings(names)
	return names
}
