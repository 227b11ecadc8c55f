package ollamagate

import "strings"

// ModelAllowList is an ordered set of accepted model identifier prefixes,
// fixed for the process lifetime and consulted read-only per request.
type ModelAllowList []string

// Allowed reports whether model starts with one of the allow-listed
// prefixes. Matching is case-sensitive with no wildcard expansion. Empty
// prefixes never match.
func (l ModelAllowList) Allowed(model string) bool {
	for _, prefix := range l {
		if prefix != "" && strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
