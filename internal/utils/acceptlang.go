package utils

import (
	"sort"
	"strconv"
	"strings"
)

// Quiz records carry full-word language tags; HTTP speaks BCP 47. This maps
// the base language codes we support to their record tags.
var languageTags = map[string]string{
	"en": "english",
	"hi": "hindi",
}

// DetermineLanguage resolves the preferred quiz language from an explicit
// query value or an Accept-Language header. The query value wins. It returns
// a record tag ("english", "hindi"), or "" when neither source names a
// supported language.
func DetermineLanguage(queryLang, acceptLang string) string {
	if tag, ok := matchLanguage(queryLang); ok {
		return tag
	}

	// Accept-Language with q-values, e.g. "en-US,en;q=0.9,hi;q=0.8".
	type cand struct {
		tag string
		q   float64
	}
	var cands []cand
	for _, part := range strings.Split(acceptLang, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		lang := p
		q := 1.0
		if semi := strings.Index(p, ";"); semi >= 0 {
			lang = strings.TrimSpace(p[:semi])
			if i := strings.Index(p[semi:], "q="); i >= 0 {
				if v, err := strconv.ParseFloat(strings.TrimSpace(p[semi+i+2:]), 64); err == nil {
					q = v
				}
			}
		}
		if tag, ok := matchLanguage(lang); ok {
			cands = append(cands, cand{tag: tag, q: q})
		}
	}
	if len(cands) == 0 {
		return ""
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].q > cands[j].q })
	return cands[0].tag
}

// matchLanguage accepts either a record tag ("english") or a BCP 47 form
// reduced to its base language ("en-US" -> "en").
func matchLanguage(lang string) (string, bool) {
	l := strings.ToLower(strings.TrimSpace(lang))
	if l == "" {
		return "", false
	}
	for _, tag := range languageTags {
		if l == tag {
			return tag, true
		}
	}
	if i := strings.Index(l, "-"); i > 0 {
		l = l[:i]
	}
	if tag, ok := languageTags[l]; ok {
		return tag, true
	}
	return "", false
}
