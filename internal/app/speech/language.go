package speech

import "strings"

// PrimaryLanguage reduces a locale tag such as "en-US" to its primary subtag.
// An empty tag yields AutoDetectLanguage.
func PrimaryLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return AutoDetectLanguage
	}
	primary, _, _ := strings.Cut(tag, "-")
	return primary
}
