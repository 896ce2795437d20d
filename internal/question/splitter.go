package question

import (
	"iter"
	"regexp"
)

// identifierMarker delimits questions: a literal prefix and a lowercase hex id
var identifierMarker = regexp.MustCompile(`Question ID [a-f0-9]+`)

// Split lazily yields the candidate blocks of a document in order.
// Text before the first marker is front matter and never yielded; the markers
// themselves are dropped. A document without markers yields nothing.
// Each step scans only up to the marker that ends the current block.
func Split(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		loc := identifierMarker.FindStringIndex(text)
		for loc != nil {
			start := loc[1]
			end := len(text)
			next := identifierMarker.FindStringIndex(text[start:])
			if next != nil {
				next[0] += start
				next[1] += start
				end = next[0]
			}
			if !yield(text[start:end]) {
				return
			}
			loc = next
		}
	}
}
