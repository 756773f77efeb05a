package sanitizer

import (
	"path/filepath"
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reUnsafeFileChars = regexp.MustCompile(`[^0-9A-Za-z._-]+`)
	reMultiUnderscore = regexp.MustCompile(`_+`)
)

func trimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func collapseUnderscores(s string) string {
	s = reMultiUnderscore.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// NormalizeEmail lowercases and trims an email address for storage and
// lookups.
func NormalizeEmail(email string) string {
	return trimAndLower(email)
}

// NormalizeCourseCode uppercases a course code (codes are compared
// case-insensitively, stored canonical).
func NormalizeCourseCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// SanitizeFileName strips any path components from an uploaded file name
// and replaces characters unsafe for disk storage.
func SanitizeFileName(name string) string {
	p := Pipeline{
		filepath.Base,
		strings.TrimSpace,
		func(s string) string { return reUnsafeFileChars.ReplaceAllString(s, "_") },
		collapseUnderscores,
	}
	return p.Apply(name)
}

// SanitizeSlice applies a strategy to every element, dropping empties
// and duplicates while preserving order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
