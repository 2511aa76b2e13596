// Package slug derives URL-safe identifiers from titles.
package slug

import "strings"

// Make lowercases title, collapses every run of characters outside [a-z0-9]
// into a single hyphen and trims hyphens from both ends. A title with no
// alphanumerics yields "".
func Make(title string) string {
	lower := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lower))
	pendingHyphen := false
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteByte(c)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
