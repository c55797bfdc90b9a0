package storage

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const fallbackFilename = "document.pdf"

// ObjectKey builds "{companyID}/{unix millis}-{documentID}-{filename}". The
// document ID keeps keys unique when sanitized names and timestamps collide.
// The filename is reduced to its base name and to characters safe in URLs.
func ObjectKey(companyID, documentID, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%d-%s-%s", companyID, now.UnixMilli(), documentID, SanitizeFilename(filename))
}

// SanitizeFilename strips directories and replaces characters outside
// [A-Za-z0-9._-] with underscores.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return fallbackFilename
	}
	return out
}

// joinURL appends an object key to a base URL, escaping each path segment.
func joinURL(base, key string) string {
	segs := strings.Split(key, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segs, "/")
}
