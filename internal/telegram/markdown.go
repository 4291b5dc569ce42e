package telegram

import (
	"strings"
	"unicode/utf8"
)

const fence = "```"

// SplitMessage cuts text into parts of at most maxLen runes, preferring a
// newline in the second half of each window as the cut point.
func SplitMessage(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > maxLen {
		cut := maxLen
		if nl := strings.LastIndex(string(runes[:maxLen]), "\n"); nl >= 0 {
			if at := utf8.RuneCountInString(string(runes[:maxLen])[:nl]); at > maxLen/2 {
				cut = at + 1
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

// FixMarkdown closes an unterminated code fence and unbalanced inline code,
// the two mistakes that make Telegram reject model output.
func FixMarkdown(text string) string {
	if strings.Count(text, fence)%2 != 0 {
		text += "\n" + fence
	}

	var b strings.Builder
	inBlock, inInline := false, false
	for i := 0; i < len(text); {
		if strings.HasPrefix(text[i:], fence) {
			if inInline {
				b.WriteByte('`')
				inInline = false
			}
			inBlock = !inBlock
			b.WriteString(fence)
			i += len(fence)
			continue
		}
		if !inBlock && text[i] == '`' {
			inInline = !inInline
		}
		b.WriteByte(text[i])
		i++
	}
	if inInline {
		b.WriteByte('`')
	}
	return b.String()
}
