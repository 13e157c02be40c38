package chunker

import "strings"

// WordCount counts whitespace-separated fields.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
