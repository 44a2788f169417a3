// Package repository holds the gorm-backed implementations of the
// domain repository interfaces. Each operation runs on the calling
// goroutine; multi-step writes use one transaction so an interrupted
// operation leaves no partial state behind.
package repository

import (
	"strings"
)

// isUniqueViolation detects a unique-constraint rejection from SQLite.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
