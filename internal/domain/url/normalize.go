// Package url validates page hrefs and reduces them to the canonical keys
// used for history lookups and visit caching.
package url

import (
	"errors"
	"fmt"
	neturl "net/url"
	"regexp"
	"strings"
)

// MaxURLLength is the longest serialized URL accepted for a lookup.
const MaxURLLength = 2000

// ErrRejected matches every *RejectionError.
var ErrRejected = errors.New("url rejected")

// Reason explains why an href was rejected.
type Reason string

const (
	ReasonEmpty              Reason = "empty or placeholder href"
	ReasonScript             Reason = "script pseudo-url"
	ReasonUnparseable        Reason = "unparseable url"
	ReasonDeniedProtocol     Reason = "denied protocol"
	ReasonProtocolNotAllowed Reason = "protocol not in allow-list"
	ReasonInvalidHost        Reason = "invalid hostname"
	ReasonTooLong            Reason = "url too long"
	ReasonSuspicious         Reason = "suspicious characters"
)

// RejectionError reports an href that cannot be used as a lookup key.
// It is a classification outcome, not a failure.
type RejectionError struct {
	Reason Reason
	Href   string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("url rejected: %s", e.Reason)
}

// Is makes errors.Is(err, ErrRejected) hold for any rejection.
func (e *RejectionError) Is(target error) bool {
	return target == ErrRejected
}

func reject(reason Reason, href string) error {
	return &RejectionError{Reason: reason, Href: href}
}

// DefaultProtocols is the allow-list used when none is configured.
var DefaultProtocols = []string{"http", "https", "file"}

// deniedSchemes are refused before the allow-list is consulted.
var deniedSchemes = map[string]struct{}{
	"mailto": {},
	"tel":    {},
	"ftp":    {},
	"data":   {},
	"blob":   {},
	"about":  {},
}

// suspiciousPatterns may never appear in the serialized URL.
var suspiciousPatterns = []string{"<", ">", `"`, "'", "(", ")", "{", "}", `\u`}

var (
	hostnameRE = regexp.MustCompile(`^[a-zA-Z0-9.-]+$`)
	slashRunRE = regexp.MustCompile(`/+`)
)

// Validator checks hrefs against a protocol allow-list and the fixed safety rules.
// It holds no mutable state and is safe for concurrent use.
type Validator struct {
	allowed map[string]struct{}
}

// NewValidator builds a Validator for the given protocols. Entries may be
// written with or without the trailing colon ("https" or "https:").
func NewValidator(protocols []string) *Validator {
	if len(protocols) == 0 {
		protocols = DefaultProtocols
	}
	allowed := make(map[string]struct{}, len(protocols))
	for _, p := range protocols {
		p = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(p)), ":")
		if p != "" {
			allowed[p] = struct{}{}
		}
	}
	return &Validator{allowed: allowed}
}

// Allows reports whether scheme is on the allow-list.
func (v *Validator) Allows(scheme string) bool {
	_, ok := v.allowed[strings.ToLower(scheme)]
	return ok
}

// Resolve resolves rawHref against baseURL and applies every check.
func (v *Validator) Resolve(rawHref, baseURL string) (*neturl.URL, error) {
	href := strings.TrimSpace(rawHref)
	if href == "" || href == "#" || href == "void(0)" {
		return nil, reject(ReasonEmpty, rawHref)
	}
	if strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return nil, reject(ReasonScript, rawHref)
	}

	ref, err := neturl.Parse(href)
	if err != nil {
		return nil, reject(ReasonUnparseable, rawHref)
	}

	u := ref
	if baseURL != "" {
		base, baseErr := neturl.Parse(baseURL)
		if baseErr != nil {
			return nil, reject(ReasonUnparseable, rawHref)
		}
		u = base.ResolveReference(ref)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		return nil, reject(ReasonUnparseable, rawHref)
	}
	if _, denied := deniedSchemes[scheme]; denied {
		return nil, reject(ReasonDeniedProtocol, rawHref)
	}
	if err := checkSafe(u, scheme); err != nil {
		return nil, err
	}
	if !v.Allows(scheme) {
		return nil, reject(ReasonProtocolNotAllowed, rawHref)
	}

	return u, nil
}

// Normalize returns the canonical lookup key for rawHref, or a *RejectionError.
func (v *Validator) Normalize(rawHref, baseURL string) (string, error) {
	u, err := v.Resolve(rawHref, baseURL)
	if err != nil {
		return "", err
	}
	return Canonical(u), nil
}

// checkSafe applies the scheme-independent rules to the resolved URL.
func checkSafe(u *neturl.URL, scheme string) error {
	serialized := href(u)

	for _, pattern := range suspiciousPatterns {
		if strings.Contains(serialized, pattern) {
			return reject(ReasonSuspicious, serialized)
		}
	}

	if len(serialized) > MaxURLLength {
		return reject(ReasonTooLong, serialized)
	}

	host := u.Hostname()
	if host == "" && scheme == "file" {
		return nil
	}
	if !hostnameRE.MatchString(host) {
		return reject(ReasonInvalidHost, serialized)
	}

	return nil
}

// Canonical renders u as scheme://host/path?query with the scheme and host
// lowercased, slash runs collapsed, the trailing slash removed and the
// fragment and port dropped.
func Canonical(u *neturl.URL) string {
	path := slashRunRE.ReplaceAllString(u.EscapedPath(), "/")
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		path = "/"
	}

	var b strings.Builder
	b.Grow(len(u.Scheme) + len(u.Host) + len(path) + len(u.RawQuery) + 4)
	b.WriteString(strings.ToLower(u.Scheme))
	b.WriteString("://")
	b.WriteString(strings.ToLower(u.Hostname()))
	b.WriteString(path)
	if u.RawQuery != "" {
		b.WriteByte('?')
		b.WriteString(hrefQuery(u.RawQuery, u.Scheme))
	}
	return b.String()
}

// href serializes u the way a browser reports an anchor's href. url.URL
// keeps a raw query verbatim, so the query is re-escaped first.
func href(u *neturl.URL) string {
	if u.RawQuery == "" {
		return u.String()
	}
	c := *u
	c.RawQuery = hrefQuery(u.RawQuery, u.Scheme)
	return c.String()
}

// specialSchemes also percent-encode an apostrophe in the query.
var specialSchemes = map[string]struct{}{
	"http": {}, "https": {}, "file": {}, "ws": {}, "wss": {}, "ftp": {},
}

// hrefQuery percent-encodes the query bytes a browser escapes: controls,
// space, double quote, '#', angle brackets, non-ASCII and, for special
// schemes, the apostrophe.
func hrefQuery(raw, scheme string) string {
	_, special := specialSchemes[strings.ToLower(scheme)]
	escape := func(c byte) bool {
		switch {
		case c <= ' ', c >= 0x7f:
			return true
		case c == '"', c == '#', c == '<', c == '>':
			return true
		case c == '\'':
			return special
		}
		return false
	}

	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if escape(c) {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
