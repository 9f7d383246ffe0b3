package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from a service title.
//
// Examples:
//   - "Web Development" → "web-development"
//   - "Logo & Brand  Design!" → "logo-brand-design"
func Generate(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))

	// Common accented characters seen in freelancer listings.
	replacer := strings.NewReplacer(
		"á", "a", "à", "a", "â", "a", "ä", "a",
		"é", "e", "è", "e", "ê", "e", "ë", "e",
		"í", "i", "ì", "i", "î", "i", "ï", "i",
		"ó", "o", "ò", "o", "ô", "o", "ö", "o",
		"ú", "u", "ù", "u", "û", "u", "ü", "u",
		"ç", "c", "ñ", "n",
	)
	s = replacer.Replace(s)

	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}

	return s
}
