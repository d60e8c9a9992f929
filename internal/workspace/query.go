package workspace

import (
	"strings"

	"github.com/kuromaru/simplynote/internal/note"
)

// queryFilter is a parsed search query. Tokens starting with '#' select
// notes carrying that tag; every tag token must match. The remaining
// tokens form a free-text needle matched case-insensitively against the
// title and content.
type queryFilter struct {
	tags []string
	text string
}

func parseQuery(query string) queryFilter {
	var filter queryFilter
	var words []string
	for _, token := range strings.Fields(query) {
		if tag, ok := strings.CutPrefix(token, "#"); ok {
			if tag != "" {
				filter.tags = append(filter.tags, tag)
			}
			continue
		}
		words = append(words, token)
	}
	filter.text = strings.ToLower(strings.Join(words, " "))
	return filter
}

func (f queryFilter) matches(n note.Note) bool {
	for _, want := range f.tags {
		if !hasTagFold(n, want) {
			return false
		}
	}
	if f.text == "" {
		return true
	}
	return strings.Contains(strings.ToLower(n.Title), f.text) ||
		strings.Contains(strings.ToLower(n.Content), f.text)
}

func hasTagFold(n note.Note, name string) bool {
	for _, tag := range n.Tags {
		if strings.EqualFold(tag, name) {
			return true
		}
	}
	return false
}
