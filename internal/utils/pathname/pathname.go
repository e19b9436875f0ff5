// Package pathname turns titles and URLs into safe output path segments.
package pathname

import (
	"net/url"
	"path"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLength is the longest segment, in bytes, written to disk
const MaxLength = 250

const (
	fallbackTitle    = "untitled"
	fallbackDocument = "document"
)

var unsafeChars = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	"\x00", "",
)

// Title converts a page title into a file stem: whitespace runs and path
// separators become underscores and the result is capped at MaxLength.
func Title(title string) string {
	s := strings.Join(strings.FieldsFunc(title, unicode.IsSpace), "_")
	s = clean(s)
	if s == "" {
		return fallbackTitle
	}
	return s
}

// Filename derives a document name from the final path segment of rawURL
func Filename(rawURL string) string {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		name = path.Base(u.Path)
	}
	if name == "/" || name == "." {
		name = ""
	}
	name = strings.Join(strings.FieldsFunc(name, unicode.IsSpace), "_")
	name = clean(name)
	if name == "" {
		return fallbackDocument
	}
	return name
}

// Segment makes a display name usable as a directory while keeping its spaces
func Segment(name string) string {
	s := clean(strings.TrimSpace(name))
	if s == "" {
		return "_"
	}
	return s
}

func clean(s string) string {
	s = unsafeChars.Replace(s)
	s = strings.Trim(s, ". ")
	s = strings.ReplaceAll(s, "..", "_")
	s = strings.Trim(s, ". ")
	return truncate(s, MaxLength)
}

// truncate cuts s to at most max bytes without splitting a rune
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// WithSuffix inserts "_n" before the extension of name, shortening the stem so
// the result still fits MaxLength
func WithSuffix(name string, n int) string {
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	suffix := "_" + strconv.Itoa(n)

	budget := MaxLength - len(suffix) - len(ext)
	if budget < 1 {
		return truncate(stem, MaxLength-len(suffix)) + suffix
	}
	return truncate(stem, budget) + suffix + ext
}
