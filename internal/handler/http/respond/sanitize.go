package respond

import (
	"regexp"
)

// Patterns are applied in order, most specific first.
var secretPatterns = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`), "sk-ant-****"},
	{regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`), "sk-****"},
	{regexp.MustCompile(`AIza[0-9A-Za-z\-_]{20,}`), "AIza****"},
	// DeepL keys are UUIDs, free-tier keys end in ":fx"
	{regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}(:fx)?`), "****"},
	{regexp.MustCompile(`(?i)(DeepL-Auth-Key|Bearer) [^\s"]+`), "$1 ****"},
	{regexp.MustCompile(`://([^:/]+):([^@]+)@`), "://$1:****@"},
}

// SanitizeError returns err's message with API keys and DSN passwords masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, p := range secretPatterns {
		msg = p.pattern.ReplaceAllString(msg, p.replacement)
	}
	return msg
}
