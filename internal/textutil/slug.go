package textutil

import (
	"strings"
	"unicode"
)

// maxSlugLength caps episode slugs so artifact paths stay manageable.
const maxSlugLength = 50

// Slugify converts an episode title into a filesystem-safe slug: letters and
// digits are kept (any script, so Arabic titles survive), runs of whitespace
// and hyphens collapse to a single underscore, everything else is dropped.
// The result is capped at 50 runes. Returns "episode" for input that slugs
// to nothing.
func Slugify(title string) string {
	title = strings.TrimSpace(title)
	var b strings.Builder
	pendingSep := false
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			pendingSep = true
		}
	}
	slug := b.String()
	if runes := []rune(slug); len(runes) > maxSlugLength {
		slug = string(runes[:maxSlugLength])
	}
	slug = strings.Trim(slug, "_")
	if slug == "" {
		return "episode"
	}
	return slug
}

// WordCount returns the number of whitespace-delimited words in text.
// This is the measure the attribution engine uses for the host guess.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
