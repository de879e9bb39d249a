package url

import "strings"

// CompleteInput adds a scheme to URL-like command line input so it can be
// normalized. "example.com" becomes "https://example.com", "localhost:8080"
// becomes "http://localhost:8080". Input that already carries a scheme or does
// not look like a URL is returned trimmed but otherwise unchanged.
func CompleteInput(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	if hasKnownScheme(input) {
		return input
	}

	if isLocalhost(input) {
		return "http://" + input
	}

	if LooksLikeURL(input) {
		return "https://" + input
	}

	return input
}

// LooksLikeURL checks if the input appears to be a URL (not free text).
// Returns true for strings like "github.com", "google.com/search", etc.
func LooksLikeURL(input string) bool {
	if input == "" {
		return false
	}

	if hasKnownScheme(input) || isLocalhost(input) {
		return true
	}

	// Contains a dot and no spaces = likely a URL
	return strings.Contains(input, ".") && !strings.Contains(input, " ")
}

func hasKnownScheme(input string) bool {
	lower := strings.ToLower(input)
	for _, prefix := range []string{"http://", "https://", "file://"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func isLocalhost(input string) bool {
	host := input
	if i := strings.IndexAny(host, ":/"); i >= 0 {
		host = host[:i]
	}
	return strings.EqualFold(host, "localhost")
}
