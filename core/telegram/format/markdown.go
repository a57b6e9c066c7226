// Package format builds Telegram MarkdownV2 fragments.
package format

import "strings"

// specials are the characters MarkdownV2 requires to be escaped outside entities.
const specials = "_*[]()~`>#+-=|{}.!\\"

// V2 escapes text for MarkdownV2.
func V2(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(specials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Bold wraps escaped text in MarkdownV2 bold markers.
func Bold(text string) string {
	return "*" + V2(text) + "*"
}
