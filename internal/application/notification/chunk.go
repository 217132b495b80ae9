package notification

import (
	"strings"
	"unicode/utf8"
)

// splitMessage divide text en trozos de a lo sumo limit caracteres, cortando en saltos de línea.
// Una línea más larga que limit se corta por caracteres. limit <= 0 desactiva la división.
func splitMessage(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
		has    bool
	)
	flush := func() {
		if has {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
			has = false
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for utf8.RuneCountInString(line) > limit {
			flush()
			r := []rune(line)
			chunks = append(chunks, string(r[:limit]))
			line = string(r[limit:])
		}
		n := utf8.RuneCountInString(line)
		if has && curLen+1+n > limit {
			flush()
		}
		if has {
			cur.WriteByte('\n')
			curLen++
		}
		cur.WriteString(line)
		curLen += n
		has = true
	}
	flush()
	return chunks
}
