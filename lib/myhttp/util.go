package myhttp

import (
	"fmt"
	"net/http"
)

// HostnameWithScheme reconstructs the public origin of the service, also behind a TLS terminating proxy
func HostnameWithScheme(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") != "https" {
		scheme = "http"
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// ClientAddress identifies the caller for rate-limiting purposes
func ClientAddress(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
