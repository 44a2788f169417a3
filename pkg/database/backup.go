package database

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Backup byte-copies the database file into dir, named
// backup_hospital_<timestamp>.db, and returns the destination path.
// Callers treat a failure as non-fatal: it is logged and the
// application continues.
func Backup(dbPath, dir string) (string, error) {
	src, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("opening database file: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("backup_hospital_%s.db", time.Now().Format("20060102_150405"))
	dest := filepath.Join(dir, name)

	dst, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("creating backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("copying database file: %w", err)
	}

	if err := dst.Sync(); err != nil {
		return "", fmt.Errorf("flushing backup file: %w", err)
	}

	return dest, nil
}
