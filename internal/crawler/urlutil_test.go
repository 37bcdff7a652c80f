package crawler

import (
	"net/url"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"simple", "http://example.com/page", "http://example.com/page", false},
		{"adds root path", "http://example.com", "http://example.com/", false},
		{"strips fragment", "http://example.com/page#section", "http://example.com/page", false},
		{"strips trailing slash", "http://example.com/page/", "http://example.com/page", false},
		{"keeps root slash", "http://example.com/", "http://example.com/", false},
		{"lowercases host", "http://EXAMPLE.com/Page", "http://example.com/Page", false},
		{"drops default http port", "http://example.com:80/page", "http://example.com/page", false},
		{"drops default https port", "https://example.com:443/page", "https://example.com/page", false},
		{"keeps custom port", "http://example.com:8080/page", "http://example.com:8080/page", false},
		{"keeps query", "http://example.com/page?a=1", "http://example.com/page?a=1", false},
		{"rejects ftp", "ftp://example.com/file", "", true},
		{"rejects missing host", "http:///page", "", true},
		{"rejects javascript", "javascript:void(0)", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Canonicalize(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Canonicalize(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	urls := []string{
		"http://example.com",
		"http://Example.COM:80/a/b/?x=1#frag",
		"https://example.com/deep/path/",
	}
	for _, raw := range urls {
		once, err := Canonicalize(raw)
		if err != nil {
			t.Fatalf("first pass %q: %v", raw, err)
		}
		twice, err := Canonicalize(once)
		if err != nil {
			t.Fatalf("second pass %q: %v", once, err)
		}
		if once != twice {
			t.Errorf("not idempotent: %q -> %q -> %q", raw, once, twice)
		}
	}
}

func TestResolveLink(t *testing.T) {
	base, _ := url.Parse("http://example.com/blog/post")

	tests := []struct {
		name    string
		href    string
		want    string
		wantErr bool
	}{
		{"absolute", "http://other.com/x", "http://other.com/x", false},
		{"relative", "next", "http://example.com/blog/next", false},
		{"root relative", "/about", "http://example.com/about", false},
		{"protocol relative", "//cdn.example.com/lib.js", "http://cdn.example.com/lib.js", false},
		{"fragment only", "#top", "", true},
		{"empty", "", "", true},
		{"mailto", "mailto:x@example.com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveLink(base, tt.href)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ResolveLink(%q) = %q, want error", tt.href, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveLink(%q) error: %v", tt.href, err)
			}
			if got != tt.want {
				t.Errorf("ResolveLink(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

func TestSameSite(t *testing.T) {
	parse := func(s string) *url.URL {
		u, err := url.Parse(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		return u
	}

	tests := []struct {
		name       string
		base       string
		candidate  string
		subdomains bool
		want       bool
	}{
		{"exact match", "http://example.com", "http://example.com/page", false, true},
		{"different host", "http://example.com", "http://other.com", false, false},
		{"www equivalence", "http://www.example.com", "http://example.com", false, true},
		{"subdomain off", "http://example.com", "http://blog.example.com", false, false},
		{"subdomain on", "http://example.com", "http://blog.example.com", true, true},
		{"subdomain on www base", "http://www.example.com", "http://shop.example.com", true, true},
		{"suffix trap", "http://example.com", "http://notexample.com", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SameSite(parse(tt.base), parse(tt.candidate), tt.subdomains)
			if got != tt.want {
				t.Errorf("SameSite(%s, %s, %v) = %v, want %v",
					tt.base, tt.candidate, tt.subdomains, got, tt.want)
			}
		})
	}
}
