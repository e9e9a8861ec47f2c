package extract

import "strings"

const fence = "```"

// StripCodeFence removes a leading ``` line (with optional language tag) and a
// trailing ``` from model output. Unfenced content is returned trimmed.
func StripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, fence) {
		return s
	}

	s = strings.TrimPrefix(s, fence)
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && isLanguageTag(s[:nl]) {
		s = s[nl+1:]
	} else if nl < 0 && isLanguageTag(s) {
		// Only a fence line, nothing inside.
		return ""
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}

func isLanguageTag(s string) bool {
	s = strings.TrimSpace(s)
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return false
		}
	}
	return true
}
