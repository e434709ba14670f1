package cachestore

import (
	"fmt"
	"net/http"
	"strings"
)

// Key builds the cache identity for a request: method plus host-relative URL
// including the query string. Fragments never reach the server; everything
// else that distinguishes a response is part of the key.
func Key(r *http.Request) string {
	return KeyFor(r.Method, r.URL.RequestURI())
}

// KeyFor builds a cache key from raw parts. The path is normalized to be
// host-relative so precached entries and intercepted requests agree.
func KeyFor(method, path string) string {
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("%s %s", method, path)
}
