package assets

import (
	"os"

	"github.com/rs/zerolog/log"
)

// EnsureAssetDirs creates the expected asset directory tree so the
// cropper has somewhere to save and the catalog scans are well formed.
func EnsureAssetDirs() error {
	dirs := []string{ButtonsDir, IconsDir, UIDir, UmaMusumeDir, SupportCardDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// CheckRequiredButtons verifies that every template in Required exists
// on disk. Each missing path is reported through report (the global
// log when report is nil); the return value is true only when nothing
// is missing. The check only reads the filesystem and is safe to call
// repeatedly and concurrently.
func CheckRequiredButtons(report func(format string, args ...interface{})) bool {
	if report == nil {
		report = func(format string, args ...interface{}) {
			log.Warn().Msgf(format, args...)
		}
	}
	ok := true
	for _, path := range Required() {
		if _, err := os.Stat(path); err != nil {
			report("[Assets] missing template: %s", path)
			ok = false
		}
	}
	return ok
}
