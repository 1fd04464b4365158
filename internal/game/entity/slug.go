package entity

import "strings"

// Slugify derives a URL-safe identifier from a display name: the name
// is lower-cased, runs of non-alphanumeric characters collapse to a
// single hyphen, and leading/trailing hyphens are trimmed.
//
// Postcondition: the result contains only [a-z0-9-]; Slugify is
// idempotent (Slugify(Slugify(s)) == Slugify(s)).
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
