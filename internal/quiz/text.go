package quiz

import (
	"html"
	"regexp"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// PlainText strips the Telegram HTML markup from question text.
func PlainText(s string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(s, ""))
}
