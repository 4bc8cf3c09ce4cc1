package utils

const (
	OrganizationName                      = "Coins Control"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"

	// SessionCookieName is host-only; the __Host- prefix forbids a Domain attribute.
	SessionCookieName = "__Host-sessionToken"

	DefaultPasscodeLength     = 6
	DefaultCountryCallingCode = "57"
)
