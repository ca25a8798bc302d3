// Package filemeta derives note display names and timestamps from filesystem metadata.
package filemeta

import (
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/djherbis/times"
)

// Untitled is the display name used when a file name cannot be decoded.
const Untitled = "Untitled"

// FileTimes returns the modification and creation times of path in milliseconds
// since the Unix epoch. It never fails: an unreadable or pre-epoch modification
// time is 0, and creation time falls back to the modification time on
// filesystems that do not record a birth time.
func FileTimes(path string) (modifiedAt, createdAt uint64) {
	ts, err := times.Stat(path)
	if err != nil {
		return 0, 0
	}
	modifiedAt = Millis(ts.ModTime())
	createdAt = modifiedAt
	if ts.HasBirthTime() {
		if born := Millis(ts.BirthTime()); born != 0 {
			createdAt = born
		}
	}
	return modifiedAt, createdAt
}

// Millis converts t to milliseconds since the epoch, clamping earlier times to 0.
func Millis(t time.Time) uint64 {
	ms := t.UnixMilli()
	if ms < 0 {
		return 0
	}
	return uint64(ms)
}

// NoteName returns the file name of path without its extension.
func NoteName(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) || !utf8.ValidString(stem) {
		return Untitled
	}
	return stem
}
