package prospect

import "strings"

// Position is a positional bucket. The empty Position matches every prospect in filters.
type Position string

const (
	Guard Position = "Guard"
	Wing  Position = "Wing"
	Big   Position = "Big"
)

// Positions lists the closed set in display order.
var Positions = []Position{Guard, Wing, Big}

// ParsePosition maps user input onto the closed set. Unknown input reports false.
func ParsePosition(s string) (Position, bool) {
	s = strings.TrimSpace(s)
	for _, p := range Positions {
		if strings.EqualFold(s, string(p)) {
			return p, true
		}
	}
	return "", false
}
