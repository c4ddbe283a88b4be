package clientip

import (
	"net"
	"net/http"
	"strings"
)

// DefaultHeaders lists the proxy headers Resolve consults, highest priority
// first. X-Forwarded-For may hold a comma-separated chain; its first valid
// address wins.
var DefaultHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// Resolve returns the originating client address of r. The given headers
// are checked in order, DefaultHeaders when none are given, and the TCP
// peer address is the fallback. Invalid addresses are skipped; the result
// is "" only when nothing parses.
func Resolve(r *http.Request, headers ...string) string {
	if len(headers) == 0 {
		headers = DefaultHeaders
	}

	for _, h := range headers {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		for candidate := range strings.SplitSeq(v, ",") {
			if ip := parseIP(candidate); ip != "" {
				return ip
			}
		}
	}

	return Peer(r)
}

// Peer returns the normalised address of the TCP peer, ignoring headers.
func Peer(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
