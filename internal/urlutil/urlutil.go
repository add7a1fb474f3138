package urlutil

import (
	"net/url"
	"strings"
)

// NormalizeDomain lowercases a hostname and strips a leading "www.".
func NormalizeDomain(hostname string) string {
	lower := strings.ToLower(hostname)
	return strings.TrimPrefix(lower, "www.")
}

// ExtractDomain returns the normalized domain of a URL, or "" if the URL
// cannot be parsed or has no hostname.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return NormalizeDomain(u.Hostname())
}

// IsTrackable reports whether a URL represents ordinary web browsing.
// Internal browser/extension pages and anything that is not http(s)
// are not trackable.
func IsTrackable(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Hostname() != ""
}

// IsBlocked reports whether the URL's hostname equals or is a subdomain
// of any entry in blockedSites. Malformed URLs are never blocked.
func IsBlocked(rawURL string, blockedSites []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	hostname := strings.ToLower(u.Hostname())
	if hostname == "" {
		return false
	}
	for _, site := range blockedSites {
		site = strings.ToLower(site)
		if hostname == site || strings.HasSuffix(hostname, "."+site) {
			return true
		}
	}
	return false
}
