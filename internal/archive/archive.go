package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// sidecars are the SQLite journal files that travel with the database
var sidecars = []string{"-wal", "-shm", "-journal"}

// ArchiveHistory moves the history database next to itself into an archive
// directory with a timestamp, so the next run starts with an empty log
func ArchiveHistory(dbPath string) (string, error) {
	info, err := os.Stat(dbPath)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("history database does not exist: %s", dbPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat history database: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("history path is a directory: %s", dbPath)
	}

	archiveDir := filepath.Join(filepath.Dir(dbPath), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := filepath.Base(dbPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	archivePath := filepath.Join(archiveDir,
		fmt.Sprintf("%s-%s%s", stem, time.Now().Format("20060102-150405"), ext))
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir,
			fmt.Sprintf("%s-%s%s", stem, time.Now().Format("20060102-150405.000000"), ext))
	}

	if err := os.Rename(dbPath, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive history database: %w", err)
	}

	for _, suffix := range sidecars {
		if _, err := os.Stat(dbPath + suffix); err != nil {
			continue
		}
		if err := os.Rename(dbPath+suffix, archivePath+suffix); err != nil {
			return archivePath, fmt.Errorf("failed to archive %s file: %w", suffix, err)
		}
	}

	return archivePath, nil
}
