package utils

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
)

// SetSessionCookie writes the __Host- session cookie plus the security
// headers every token-bearing response carries. With sameSiteHighSecurity
// off (local dev across origins) the cookie is SameSite=None; Partitioned.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, sameSiteHighSecurity bool) {
	if token == "" {
		return
	}
	maxAge := int(ttl.Seconds())
	expires := time.Now().Add(ttl).UTC().Format(http.TimeFormat)
	sameSite, partitioned := sameSitePolicy(sameSiteHighSecurity)

	utils.Logger.Debugf("[cookies] SetSessionCookie: sameSite=%s partitioned=%t maxAge=%d", sameSite, partitioned, maxAge)
	w.Header().Add("Set-Cookie",
		fmt.Sprintf("%s=%s; Path=/; Max-Age=%d; Expires=%s; SameSite=%s; Secure; HttpOnly; Priority=High%s",
			utils.SessionCookieName, token, maxAge, expires, sameSite, partitionAttr(partitioned)))

	addSecurityHeaders(w)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, sameSiteHighSecurity bool) {
	expired := time.Now().Add(-1 * time.Hour).UTC().Format(http.TimeFormat)
	sameSite, partitioned := sameSitePolicy(sameSiteHighSecurity)

	w.Header().Add("Set-Cookie",
		fmt.Sprintf("%s=; Path=/; Expires=%s; Max-Age=0; SameSite=%s; Secure; HttpOnly; Priority=High%s",
			utils.SessionCookieName, expired, sameSite, partitionAttr(partitioned)))

	addSecurityHeaders(w)
}

func sameSitePolicy(high bool) (string, bool) {
	if high {
		return "Lax", false
	}
	return "None", true
}

func partitionAttr(on bool) string {
	if on {
		return "; Partitioned"
	}
	return ""
}

func addSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
}
