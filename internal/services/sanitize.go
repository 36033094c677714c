package services

import (
	"regexp"
	"strings"
)

var (
	scriptTagPattern = regexp.MustCompile(`(?is)<script.*?>.*?</script>`)
	htmlTagPattern   = regexp.MustCompile(`<.*?>`)
)

// sanitizeText strips HTML from free-text input before it is stored or
// forwarded upstream. SQL is handled by parameterized queries, so no
// keyword filtering happens here.
func sanitizeText(s string) string {
	s = scriptTagPattern.ReplaceAllString(s, "")
	s = htmlTagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
