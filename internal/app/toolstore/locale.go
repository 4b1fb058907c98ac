package toolstore

import (
	"strings"

	"golang.org/x/text/language"
)

// matchLocale maps requested onto one of supported: an exact match first,
// then the closest language match, then fallback.
func matchLocale(requested string, supported []string, fallback string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" || len(supported) == 0 {
		return fallback
	}
	for _, locale := range supported {
		if strings.EqualFold(locale, requested) {
			return locale
		}
	}
	want, err := language.Parse(requested)
	if err != nil {
		return fallback
	}

	tags := make([]language.Tag, 0, len(supported))
	names := make([]string, 0, len(supported))
	for _, locale := range supported {
		if tag, err := language.Parse(locale); err == nil {
			tags = append(tags, tag)
			names = append(names, locale)
		}
	}
	if len(tags) == 0 {
		return fallback
	}
	if _, idx, conf := language.NewMatcher(tags).Match(want); conf != language.No {
		return names[idx]
	}
	return fallback
}
