// Package fetcher fetches the readable text of article pages for content
// enrichment.
package fetcher

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

var (
	// ErrInvalidURL is returned for unparseable URLs and non-http(s) schemes.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")
	// ErrPrivateIP is returned when the host resolves to a private, loopback
	// or link-local address.
	ErrPrivateIP        = errors.New("private IP access denied")
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrBodyTooLarge     = errors.New("response body too large")
	ErrTimeout          = errors.New("request timeout")
	// ErrReadabilityFailed is returned when no readable text could be extracted.
	ErrReadabilityFailed = errors.New("content extraction failed")
)

// lookupIP is replaced in tests.
var lookupIP = net.LookupIP

// validateURL rejects non-http(s) URLs and, when denyPrivateIPs is set,
// hosts resolving to internal addresses (SSRF).
func validateURL(urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: parse error: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme '%s' not allowed", ErrInvalidURL, u.Scheme)
	}
	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("%w: empty hostname", ErrInvalidURL)
	}
	if !denyPrivateIPs {
		return nil
	}

	ips, err := lookupIP(hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", ErrInvalidURL, hostname, err)
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: %s resolves to %s", ErrPrivateIP, hostname, ip)
		}
	}
	return nil
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}
