package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetClientIdentifier(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.10:5555"
	require.Equal(t, ClientIdentifier{Type: ClientIDTypeIP, Value: "192.0.2.10"}, GetClientIdentifier(r))

	r.Header.Set("X-Forwarded-For", "not-an-ip, 203.0.113.7")
	require.Equal(t, "203.0.113.7", GetClientIdentifier(r).Value)

	r.Header.Set("X-Device-ID", "lobby-tablet-1")
	id := GetClientIdentifier(r)
	require.Equal(t, ClientIDTypeDeviceID, id.Type)
	require.Equal(t, "device_id:lobby-tablet-1", id.Key())
}

func TestDetectIPForwardedHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "bad"
	r.Header.Set("Forwarded", `proto=https; for="198.51.100.4"`)
	require.Equal(t, "198.51.100.4", detectIP(r))
}
