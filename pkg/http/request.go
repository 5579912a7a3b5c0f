package http

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// UnknownClient identifies a request whose origin address cannot be determined
const UnknownClient = "unknown"

// IPConfig decides which hops may vouch for the client address via
// X-Forwarded-For / X-Real-IP.
type IPConfig struct {
	trusted []netip.Prefix
}

// NewIPConfig parses the trusted proxy CIDR ranges. "0.0.0.0/0" and "::/0"
// trust every hop, which is only appropriate behind a platform edge proxy.
func NewIPConfig(trustedProxies []string) (*IPConfig, error) {
	cfg := &IPConfig{}
	for _, cidr := range trustedProxies {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy range %q: %w", cidr, err)
		}
		cfg.trusted = append(cfg.trusted, prefix.Masked())
	}
	return cfg, nil
}

// Trusts reports whether addr belongs to a trusted proxy range
func (c *IPConfig) Trusts(addr string) bool {
	if c == nil || len(c.trusted) == 0 {
		return false
	}
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return false
	}
	ip = ip.Unmap()
	for _, prefix := range c.trusted {
		if prefix.Contains(ip) {
			return true
		}
	}
	return false
}

// ExtractClientIP derives the client identifier for a request.
//
// Order: first address in X-Forwarded-For, then X-Real-IP, then the
// connection address, then UnknownClient. The forwarded headers are only
// consulted when the connection itself comes from a trusted proxy, so a
// direct client cannot pick its own rate-limit bucket.
func ExtractClientIP(r *http.Request, config *IPConfig) string {
	remoteIP := remoteAddr(r)

	if remoteIP != "" && config.Trusts(remoteIP) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
			return xri
		}
	}

	if remoteIP == "" {
		return UnknownClient
	}
	return remoteIP
}

// remoteAddr strips the port from RemoteAddr
func remoteAddr(r *http.Request) string {
	if r.RemoteAddr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
