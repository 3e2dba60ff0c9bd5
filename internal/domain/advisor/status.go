package advisor

import "strings"

// ParseStatus extracts the suitability classification from generated
// advisory text. The prompt asks for the classification on the final line,
// so the last keyword occurrence wins; matching is case-insensitive and
// only on whole words, so prose like "suboptimal" never counts. The second
// return is false when no keyword appears, in which case the caller keeps
// its own status.
func ParseStatus(text string) (Status, bool) {
	words := strings.FieldsFunc(strings.ToUpper(text), func(r rune) bool {
		return r < 'A' || r > 'Z'
	})
	var found Status
	ok := false
	for _, word := range words {
		switch Status(word) {
		case StatusOptimal, StatusAcceptable, StatusPoor:
			found = Status(word)
			ok = true
		}
	}
	return found, ok
}
