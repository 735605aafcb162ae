package utils

import "strings"

// Strips a single pair of wrapping single quotes ('like this'). The
// string is returned unchanged if it is not wrapped.
func TrimSingleQuotes(in string) string {
	if len(in) >= 2 && strings.HasPrefix(in, "'") && strings.HasSuffix(in, "'") {
		return in[1 : len(in)-1]
	}
	return in
}
