package server

import (
	"net"
	"net/http"
	"strings"
)

// RealIP returns the client address of r, honoring Forwarded,
// X-Forwarded-For and X-Real-IP in that order.
func RealIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if ip := forwardedFor(r.Header.Get("Forwarded")); ip != "" {
		return ip
	}
	if ip := firstAddr(r.Header.Get("X-Forwarded-For")); ip != "" {
		return ip
	}
	if ip := cleanIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}

func forwardedFor(header string) string {
	for _, element := range strings.Split(header, ",") {
		for _, pair := range strings.Split(element, ";") {
			pair = strings.TrimSpace(pair)
			if len(pair) < 4 || !strings.EqualFold(pair[:4], "for=") {
				continue
			}
			if ip := cleanIP(pair[4:]); ip != "" {
				return ip
			}
		}
	}
	return ""
}

func firstAddr(header string) string {
	for _, part := range strings.Split(header, ",") {
		if ip := cleanIP(part); ip != "" {
			return ip
		}
	}
	return ""
}

// cleanIP strips quotes, brackets and ports. Non-IP identifiers are returned
// as given, except "unknown" which yields "".
func cleanIP(value string) string {
	value = strings.Trim(strings.TrimSpace(value), "\"")
	if value == "" || strings.EqualFold(value, "unknown") {
		return ""
	}
	if host, _, err := net.SplitHostPort(value); err == nil && host != "" {
		value = host
	}
	value = strings.TrimSuffix(strings.TrimPrefix(value, "["), "]")
	if ip := net.ParseIP(value); ip != nil {
		return ip.String()
	}
	return value
}
