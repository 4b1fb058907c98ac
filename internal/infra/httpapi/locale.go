package httpapi

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// negotiateLocale picks the best supported locale for r: an explicit ?lang=
// wins over Accept-Language. supported[0] is the fallback.
func negotiateLocale(r *http.Request, supported []string) string {
	if len(supported) == 0 {
		return ""
	}

	tags := make([]language.Tag, 0, len(supported))
	names := make([]string, 0, len(supported))
	for _, locale := range supported {
		tag, err := language.Parse(locale)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		names = append(names, locale)
	}
	if len(tags) == 0 {
		return supported[0]
	}
	matcher := language.NewMatcher(tags)

	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		for _, locale := range supported {
			if strings.EqualFold(locale, lang) {
				return locale
			}
		}
		if tag, err := language.Parse(lang); err == nil {
			if _, idx, conf := matcher.Match(tag); conf != language.No {
				return names[idx]
			}
		}
	}

	if header := r.Header.Get("Accept-Language"); header != "" {
		desired, _, err := language.ParseAcceptLanguage(header)
		if err == nil && len(desired) > 0 {
			if _, idx, conf := matcher.Match(desired...); conf != language.No {
				return names[idx]
			}
		}
	}
	return supported[0]
}
