package crawler

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// Canonicalize normalizes a URL into the form used for dedup and sitemap
// keys: lowercase scheme and host, default ports dropped, fragment stripped,
// trailing slash removed (except for the root path).
func Canonicalize(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", types.ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", types.ErrInvalidURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	// Drop default ports.
	if (u.Scheme == "http" && strings.HasSuffix(u.Host, ":80")) ||
		(u.Scheme == "https" && strings.HasSuffix(u.Host, ":443")) {
		u.Host = u.Host[:strings.LastIndex(u.Host, ":")]
	}

	if u.Path == "" {
		u.Path = "/"
	} else if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimRight(u.Path, "/")
	}

	return u.String(), nil
}

// ResolveLink resolves a possibly relative href against a base page URL and
// canonicalizes the result. Non-HTTP schemes (mailto:, javascript:, tel:)
// return an error.
func ResolveLink(base *url.URL, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", types.ErrInvalidURL
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrInvalidURL, err)
	}
	resolved := base.ResolveReference(ref)
	return Canonicalize(resolved.String())
}

// SameSite reports whether candidate belongs to the crawl scope rooted at
// base. With includeSubdomains, www.example.com and blog.example.com both
// match example.com.
func SameSite(base, candidate *url.URL, includeSubdomains bool) bool {
	baseHost := strings.ToLower(base.Hostname())
	candHost := strings.ToLower(candidate.Hostname())

	if baseHost == candHost {
		return true
	}
	if !includeSubdomains {
		// www is treated as the same site even without subdomain crawling.
		return strings.TrimPrefix(baseHost, "www.") == strings.TrimPrefix(candHost, "www.")
	}

	root := registrableRoot(baseHost)
	return candHost == root || strings.HasSuffix(candHost, "."+root)
}

// registrableRoot strips a leading "www." label. Full public-suffix handling
// is out of scope; the crawl base is assumed to be a registrable domain.
func registrableRoot(host string) string {
	return strings.TrimPrefix(host, "www.")
}
