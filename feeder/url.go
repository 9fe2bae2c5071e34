package feeder

import "strings"

// NormalizeBlogURL canonicalizes a user-supplied blog address: trims
// whitespace, strips trailing slashes and prefixes https:// when no HTTP
// scheme is present. Pure and idempotent; the normalized form is also the
// duplicate-detection key.
func NormalizeBlogURL(input string) string {
	s := strings.TrimSpace(input)
	for strings.HasSuffix(s, "/") {
		s = strings.TrimSuffix(s, "/")
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		s = "https://" + s
	}
	return s
}
