package pipeline

import (
	"fmt"
	"strings"
)

// Placeholders are wrapped in STX/ETX so they cannot collide with document
// text that survives the markdown parse.
const (
	stashPrefix = "\x02wzxhzdk:"
	stashSuffix = "\x03"
)

// HTMLStash maps opaque placeholder tokens to pre-rendered HTML fragments.
// Passes store fragments during a run; the pipeline resolves the tokens back
// to HTML after serialization. A stash belongs to a single document run.
type HTMLStash struct {
	rawHTML []string
}

// Store saves html and returns the placeholder token standing in for it.
func (s *HTMLStash) Store(html string) string {
	s.rawHTML = append(s.rawHTML, html)
	return placeholder(len(s.rawHTML) - 1)
}

// Len returns the number of stored fragments.
func (s *HTMLStash) Len() int {
	return len(s.rawHTML)
}

// Resolve substitutes every stored fragment for its placeholder in out.
// A placeholder that ended up as the sole content of a paragraph drops the
// wrapping <p> tags, so block-level fragments are not nested inside one.
func (s *HTMLStash) Resolve(out string) string {
	for i, html := range s.rawHTML {
		token := placeholder(i)
		out = strings.ReplaceAll(out, "<p>"+token+"</p>", html)
		out = strings.ReplaceAll(out, token, html)
	}
	return out
}

func placeholder(index int) string {
	return fmt.Sprintf("%s%d%s", stashPrefix, index, stashSuffix)
}
