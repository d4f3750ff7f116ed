package sync

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildHandoffURL composes the web app URL opened in the user's browser to
// drive the sync flow. The page reads the token to authenticate the session
// and calls back to 127.0.0.1:port with the selected task context.
//
// The token is treated as an opaque string; no local validation is performed.
func BuildHandoffURL(appBaseURL, token string, port int) string {
	base := strings.TrimRight(appBaseURL, "/")

	return fmt.Sprintf("%s/home/ide?token=%s&callback_port=%d",
		base, url.QueryEscape(token), port)
}

// SignInURL returns the web app sign-in page, surfaced as the remediation
// when token acquisition fails.
func SignInURL(appBaseURL string) string {
	return strings.TrimRight(appBaseURL, "/") + "/auth/sign-in"
}
