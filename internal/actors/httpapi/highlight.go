package httpapi

import (
	"regexp"
	"strings"
)

// HighlightKeywords bolds every whole-word occurrence of the keywords in the
// text, case-insensitively, producing markdown. With no keywords the text is
// returned untouched.
func HighlightKeywords(text string, keywords []string) string {
	if len(keywords) == 0 || text == "" {
		return text
	}

	escaped := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		escaped = append(escaped, regexp.QuoteMeta(keyword))
	}
	if len(escaped) == 0 {
		return text
	}

	pattern, err := regexp.Compile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`)
	if err != nil {
		return text
	}
	return pattern.ReplaceAllString(text, "**$1**")
}
