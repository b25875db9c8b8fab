// Package handoff implements the redirect URL contract between the login
// agent and the surface receiving the authorization token. Field order, the
// pipe delimiter between token and origin flag, and the parameter names are
// fixed; receiving surfaces parse exactly this shape, so the URL is assembled
// and taken apart byte for byte.
package handoff

import (
	"fmt"
	"strings"
)

// Handoff is the decoded payload of a redirect URL.
type Handoff struct {
	AccessToken  string
	RefreshToken string
	// Biometric marks a session that originated from a biometric replay
	// rather than freshly typed credentials.
	Biometric bool
}

// BuildURL renders {base}?token={access}|{flag}&refresh_token={refresh}.
// No URL escaping is applied: the pipe must survive verbatim.
func BuildURL(base, accessToken, refreshToken string, biometric bool) string {
	flag := "0"
	if biometric {
		flag = "1"
	}

	return fmt.Sprintf("%s?token=%s|%s&refresh_token=%s", base, accessToken, flag, refreshToken)
}

// Parse decodes a redirect URL produced by BuildURL. It is the counterpart
// used by receiving surfaces.
func Parse(raw string) (Handoff, error) {
	_, query, ok := strings.Cut(raw, "?")
	if !ok {
		return Handoff{}, fmt.Errorf("handoff url has no query: %q", raw)
	}

	tokenPart, refreshPart, ok := strings.Cut(query, "&refresh_token=")
	if !ok {
		return Handoff{}, fmt.Errorf("handoff url has no refresh_token: %q", raw)
	}

	tokenValue, ok := strings.CutPrefix(tokenPart, "token=")
	if !ok {
		return Handoff{}, fmt.Errorf("handoff url has no token: %q", raw)
	}

	accessToken, flag, ok := strings.Cut(tokenValue, "|")
	if !ok {
		return Handoff{}, fmt.Errorf("handoff token has no origin flag: %q", raw)
	}

	var biometric bool
	switch flag {
	case "0":
	case "1":
		biometric = true
	default:
		return Handoff{}, fmt.Errorf("unknown origin flag %q", flag)
	}

	return Handoff{
		AccessToken:  accessToken,
		RefreshToken: refreshPart,
		Biometric:    biometric,
	}, nil
}
