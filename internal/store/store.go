// Package store keeps save blobs by slot key.
package store

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var ErrNotFound = errors.New("save not found")

var cleanKeyRe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SlotInfo describes one stored save.
type SlotInfo struct {
	Key     string    `db:"key" json:"key"`
	Bytes   int       `db:"bytes" json:"bytes"`
	SavedAt time.Time `db:"saved_at" json:"saved_at"`
}

// CleanKey strips anything that is not safe in a slot name. An empty result
// falls back to "autosave".
func CleanKey(key string) string {
	clean := cleanKeyRe.ReplaceAllString(strings.TrimSpace(key), "")
	if clean == "" {
		return "autosave"
	}
	return clean
}
