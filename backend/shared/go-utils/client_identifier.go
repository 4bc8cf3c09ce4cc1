package utils

import (
	"net"
	"net/http"
	"strings"
)

// ClientIdentifier holds a typed value that can either be an IP address or a device ID.
type ClientIdentifier struct {
	Type  ClientIDType
	Value string
}

// Key renders the identifier as a single map key, e.g. "ip:10.0.0.1".
func (c ClientIdentifier) Key() string {
	return string(c.Type) + ":" + c.Value
}

// GetClientIdentifier prefers an explicit X-Device-ID (kiosk tablets in the
// lobby send one) and otherwise falls back to the caller's IP.
func GetClientIdentifier(r *http.Request) ClientIdentifier {
	if deviceID := strings.TrimSpace(r.Header.Get("X-Device-ID")); deviceID != "" {
		return ClientIdentifier{Type: ClientIDTypeDeviceID, Value: deviceID}
	}
	return ClientIdentifier{Type: ClientIDTypeIP, Value: detectIP(r)}
}

// detectIP extracts the best IP address from typical headers or RemoteAddr.
func detectIP(r *http.Request) string {
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		for _, ip := range strings.Split(forwardedFor, ",") {
			if cleanIP := strings.TrimSpace(ip); isValidIP(cleanIP) {
				return cleanIP
			}
		}
	}

	for _, header := range []string{"CF-Connecting-IP", "X-Real-IP"} {
		if ip := strings.TrimSpace(r.Header.Get(header)); isValidIP(ip) {
			return ip
		}
	}

	if forwarded := r.Header.Get("Forwarded"); forwarded != "" {
		for _, part := range strings.Split(forwarded, ";") {
			part = strings.TrimSpace(part)
			if strings.HasPrefix(part, "for=") {
				maybeIP := strings.Trim(strings.TrimPrefix(part, "for="), "\"")
				if isValidIP(maybeIP) {
					return maybeIP
				}
			}
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && isValidIP(ip) {
		return ip
	}
	return ""
}

func isValidIP(ip string) bool {
	return net.ParseIP(ip) != nil
}
