package publish

import (
	"strings"
	"unicode/utf8"
)

// SplitMessage breaks text into chunks of at most limit characters, cutting on
// line boundaries. A single line longer than limit is cut on rune boundaries.
// Chunks that would only carry whitespace are dropped, so joining the result
// with newlines gives back the original text up to whitespace at the cuts.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		chunks  []string
		current strings.Builder
		size    int
		started bool
	)
	flush := func() {
		if started && strings.TrimSpace(current.String()) != "" {
			chunks = append(chunks, current.String())
		}
		current.Reset()
		size = 0
		started = false
	}

	for _, line := range strings.Split(text, "\n") {
		for _, piece := range hardSplit(line, limit) {
			n := utf8.RuneCountInString(piece)
			if started && size+1+n > limit {
				flush()
			}
			if started {
				current.WriteByte('\n')
				size++
			}
			current.WriteString(piece)
			size += n
			started = true
		}
	}
	flush()

	return chunks
}

func hardSplit(line string, limit int) []string {
	if utf8.RuneCountInString(line) <= limit {
		return []string{line}
	}
	runes := []rune(line)
	pieces := make([]string, 0, len(runes)/limit+1)
	for len(runes) > limit {
		pieces = append(pieces, string(runes[:limit]))
		runes = runes[limit:]
	}
	if len(runes) > 0 {
		pieces = append(pieces, string(runes))
	}
	return pieces
}

// truncate shortens s to at most limit runes, ending in "..." when cut.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}
