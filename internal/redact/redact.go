// Package redact scrubs personally identifiable information from strings
// before they reach logs: email addresses, bearer credentials, share tokens
// and free-text query parameters.
package redact

import (
	"net/url"
	"regexp"
	"strings"
)

const placeholder = "[REDACTED]"

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	uuidRe  = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// query parameters whose values carry user content or credentials
var sensitiveParams = map[string]bool{
	"q":       true,
	"token":   true,
	"api_key": true,
	"email":   true,
}

// String replaces emails and bearer tokens in free text.
func String(s string) string {
	s = emailRe.ReplaceAllString(s, placeholder)
	return s
}

// Token collapses an opaque credential to a short recognizable stub so log
// lines stay correlatable without exposing the secret.
func Token(token string) string {
	if len(token) <= 8 {
		return placeholder
	}
	return token[:4] + "..." + placeholder
}

// URL scrubs a request URL for logging: sensitive query parameter values are
// replaced, share-token path segments are masked, emails anywhere are
// removed. A URL that fails to parse is fully redacted rather than leaked.
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return placeholder
	}

	q := u.Query()
	for key := range q {
		if sensitiveParams[strings.ToLower(key)] {
			q.Set(key, placeholder)
		}
	}
	u.RawQuery = q.Encode()

	// share URLs carry the bearer credential in the path
	if i := strings.Index(u.Path, "/share/"); i >= 0 {
		rest := u.Path[i+len("/share/"):]
		if rest != "" && uuidRe.MatchString(rest) {
			u.Path = u.Path[:i+len("/share/")] + placeholder
		}
	}

	return String(u.String())
}

// Error scrubs an error message for logging. Nil-safe.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
