package service

import "strings"

const maxSlugLen = 50

// ToSlug normalizes a display name into a URL slug: lowercase, runs of
// non-alphanumerics collapsed to a single hyphen, no leading or trailing
// hyphens, at most 50 chars, "event" when nothing survives.
func ToSlug(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	s := b.String()
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	if s == "" {
		return "event"
	}
	return s
}
