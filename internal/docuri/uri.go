// Package docuri implements the rustdoc:// URI scheme used to reference
// generated documentation files. URIs carry the backing file path verbatim,
// so they are only meaningful on the machine that produced them.
package docuri

import (
	"fmt"
	"strings"
)

// Scheme is the URI prefix for generated documentation files.
const Scheme = "rustdoc://"

// Create builds a doc URI from a file path.
func Create(path string) string {
	return Scheme + path
}

// Parse extracts the file path from a doc URI.
// Returns an error if the URI does not carry the rustdoc:// prefix.
func Parse(uri string) (string, error) {
	if !strings.HasPrefix(uri, Scheme) {
		return "", fmt.Errorf("invalid doc URI %q: expected %q prefix", uri, Scheme)
	}

	path := strings.TrimPrefix(uri, Scheme)
	if path == "" {
		return "", fmt.Errorf("invalid doc URI %q: empty path", uri)
	}

	return path, nil
}
