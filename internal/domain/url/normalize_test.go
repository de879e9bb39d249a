package url

import (
	"errors"
	"strings"
	"testing"
)

const page = "https://news.example.org/articles/today"

func TestNormalize(t *testing.T) {
	v := NewValidator(nil)

	tests := []struct {
		name string
		href string
		want string
	}{
		{
			name: "absolute url unchanged",
			href: "https://example.com/a/b",
			want: "https://example.com/a/b",
		},
		{
			name: "host and scheme lowercased",
			href: "HTTPS://EXAMPLE.com/Path",
			want: "https://example.com/Path",
		},
		{
			name: "slash runs collapsed and trailing slash removed",
			href: "https://EXAMPLE.com/a//b/",
			want: "https://example.com/a/b",
		},
		{
			name: "bare host gets root path",
			href: "https://example.com",
			want: "https://example.com/",
		},
		{
			name: "fragment dropped",
			href: "https://example.com/doc#section-2",
			want: "https://example.com/doc",
		},
		{
			name: "query kept",
			href: "https://example.com/search?q=go&page=2#top",
			want: "https://example.com/search?q=go&page=2",
		},
		{
			name: "port dropped",
			href: "http://localhost:8080/admin/",
			want: "http://localhost/admin",
		},
		{
			name: "relative path resolved against page",
			href: "../sports/",
			want: "https://news.example.org/sports",
		},
		{
			name: "root relative path",
			href: "/about",
			want: "https://news.example.org/about",
		},
		{
			name: "protocol relative",
			href: "//cdn.example.net/lib.js",
			want: "https://cdn.example.net/lib.js",
		},
		{
			name: "file url without host",
			href: "file:///home/user/notes.html",
			want: "file:///home/user/notes.html",
		},
		{
			name: "query escaped like a browser href",
			href: `https://example.com/search?q=<b>"x"&n='1'`,
			want: "https://example.com/search?q=%3Cb%3E%22x%22&n=%271%27",
		},
		{
			name: "surrounding whitespace ignored",
			href: "  https://example.com/x  ",
			want: "https://example.com/x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Normalize(tt.href, page)
			if err != nil {
				t.Fatalf("Normalize(%q) unexpected error: %v", tt.href, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	v := NewValidator(nil)

	inputs := []string{
		"https://EXAMPLE.com/a//b/",
		"https://example.com/a%20b/c?x=1&y=%2F",
		"http://sub.domain.example.com:443//deep///path/",
		"file:///tmp//report.html",
	}

	for _, in := range inputs {
		first, err := v.Normalize(in, "")
		if err != nil {
			t.Fatalf("Normalize(%q) unexpected error: %v", in, err)
		}
		second, err := v.Normalize(first, "")
		if err != nil {
			t.Fatalf("Normalize(%q) unexpected error: %v", first, err)
		}
		if first != second {
			t.Errorf("Normalize not idempotent: %q -> %q -> %q", in, first, second)
		}
	}
}

func TestNormalize_EquivalentForms(t *testing.T) {
	v := NewValidator(nil)

	a, errA := v.Normalize("https://EXAMPLE.com/a//b/", "")
	b, errB := v.Normalize("https://example.com/a/b", "")
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors: %v, %v", errA, errB)
	}
	if a != b {
		t.Errorf("expected %q and %q to match", a, b)
	}

	withQuery, err := v.Normalize("https://example.com/a/b?x=1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withQuery == a {
		t.Errorf("query string must keep %q distinct from %q", withQuery, a)
	}
}

func TestNormalize_Rejections(t *testing.T) {
	v := NewValidator(nil)

	long := "https://example.com/" + strings.Repeat("a", MaxURLLength+1-len("https://example.com/"))
	if len(long) != MaxURLLength+1 {
		t.Fatalf("test setup: length %d", len(long))
	}

	tests := []struct {
		name   string
		href   string
		reason Reason
	}{
		{"empty", "", ReasonEmpty},
		{"hash only", "#", ReasonEmpty},
		{"void placeholder", "void(0)", ReasonEmpty},
		{"javascript", "javascript:alert(1)", ReasonScript},
		{"javascript mixed case", "JavaScript:void(0)", ReasonScript},
		{"mailto", "mailto:a@b.com", ReasonDeniedProtocol},
		{"tel", "tel:+15551234", ReasonDeniedProtocol},
		{"ftp", "ftp://files.example.com/pub", ReasonDeniedProtocol},
		{"data", "data:text/plain;base64,SGk=", ReasonDeniedProtocol},
		{"about", "about:blank", ReasonDeniedProtocol},
		{"unknown scheme", "gopher://example.com/1", ReasonProtocolNotAllowed},
		{"too long", long, ReasonTooLong},
		{"brace in query", "https://example.com/?q={x}", ReasonSuspicious},
		{"apostrophe in path", "https://example.com/it's", ReasonSuspicious},
		{"parenthesis in path", "https://example.com/wiki/Go_(language)", ReasonSuspicious},
		{"unicode escape", `https://example.com/?q=\u003c`, ReasonSuspicious},
		{"underscore host", "https://bad_host.example.com/", ReasonInvalidHost},
		{"http without host", "http:///nohost", ReasonInvalidHost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Normalize(tt.href, page)
			if err == nil {
				t.Fatalf("Normalize(%q) = %q, want rejection", tt.href, got)
			}
			if !errors.Is(err, ErrRejected) {
				t.Fatalf("Normalize(%q) error %v does not match ErrRejected", tt.href, err)
			}
			var rej *RejectionError
			if !errors.As(err, &rej) {
				t.Fatalf("Normalize(%q) error %T is not *RejectionError", tt.href, err)
			}
			if rej.Reason != tt.reason {
				t.Errorf("Normalize(%q) reason = %q, want %q", tt.href, rej.Reason, tt.reason)
			}
		})
	}
}

func TestNormalize_ScriptInHostname(t *testing.T) {
	v := NewValidator(nil)

	_, err := v.Normalize("https://exa<script>mple.com/", "")
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
}

func TestNewValidator_Protocols(t *testing.T) {
	v := NewValidator([]string{"HTTPS:", " http "})

	if !v.Allows("https") || !v.Allows("HTTP") {
		t.Errorf("expected http and https to be allowed")
	}
	if v.Allows("file") {
		t.Errorf("file must not be allowed when not listed")
	}

	_, err := v.Normalize("file:///etc/hosts", "")
	var rej *RejectionError
	if !errors.As(err, &rej) || rej.Reason != ReasonProtocolNotAllowed {
		t.Errorf("expected protocol rejection, got %v", err)
	}
}

func TestCompleteInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"  https://example.com  ", "https://example.com"},
		{"FILE:///tmp/x.html", "FILE:///tmp/x.html"},
		{"example.com", "https://example.com"},
		{"example.com/path", "https://example.com/path"},
		{"localhost:8080", "http://localhost:8080"},
		{"localhost", "http://localhost"},
		{"hello world", "hello world"},
		{"notes", "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CompleteInput(tt.input); got != tt.want {
				t.Errorf("CompleteInput(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLooksLikeURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"github.com", true},
		{"https://x", true},
		{"localhost:3000", true},
		{"two words.com", false},
		{"plain", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := LooksLikeURL(tt.input); got != tt.want {
			t.Errorf("LooksLikeURL(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
