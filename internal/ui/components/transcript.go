package components

import (
	"html"
	"regexp"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/slovo/internal/ui/theme"
)

// Speaker says who wrote a transcript line.
type Speaker int

const (
	SpeakerBot Speaker = iota
	SpeakerUser
	SpeakerError
)

// Entry is one message in the transcript.
type Entry struct {
	Speaker Speaker
	Text    string
	// HTML marks Text as containing <b>, <i> or <u> markup.
	HTML bool
}

// Transcript is the scrolling chat log. Offset counts lines scrolled up
// from the bottom.
type Transcript struct {
	Entries []Entry
	Offset  int
}

// Add appends an entry and scrolls back to the bottom.
func (t *Transcript) Add(e Entry) {
	t.Entries = append(t.Entries, e)
	t.Offset = 0
}

// Scroll moves the view by delta lines; positive scrolls up.
func (t *Transcript) Scroll(delta int) {
	t.Offset = max(t.Offset+delta, 0)
}

// View renders the newest lines that fit in height.
func (t *Transcript) View(width, height int) string {
	if height <= 0 {
		return ""
	}
	var lines []string
	for _, e := range t.Entries {
		lines = append(lines, strings.Split(renderEntry(e, width), "\n")...)
		lines = append(lines, "")
	}

	t.Offset = min(t.Offset, max(len(lines)-height, 0))
	end := len(lines) - t.Offset
	start := max(end-height, 0)
	return strings.Join(lines[start:end], "\n")
}

func renderEntry(e Entry, width int) string {
	var who string
	body := theme.Body
	switch e.Speaker {
	case SpeakerBot:
		who = theme.BotName.Render("Слово")
	case SpeakerUser:
		who = theme.UserName.Render("Ти")
	case SpeakerError:
		who = theme.Incorrect.Render("!")
		body = lipgloss.NewStyle().Foreground(theme.Error)
	}

	text := e.Text
	if e.HTML {
		text = RenderMarkup(text)
	}
	return who + "\n" + body.Width(max(width-2, 10)).PaddingLeft(2).Render(text)
}

var markupTag = regexp.MustCompile(`</?[biu]>`)

// RenderMarkup styles the <b>, <i> and <u> spans of s and unescapes the
// rest. Other tags are left as text.
func RenderMarkup(s string) string {
	var b strings.Builder
	depth := 0
	last := 0
	emit := func(chunk string) {
		chunk = html.UnescapeString(chunk)
		if depth > 0 {
			chunk = theme.Emphasis.Render(chunk)
		}
		b.WriteString(chunk)
	}
	for _, loc := range markupTag.FindAllStringIndex(s, -1) {
		emit(s[last:loc[0]])
		if s[loc[0]+1] == '/' {
			depth = max(depth-1, 0)
		} else {
			depth++
		}
		last = loc[1]
	}
	emit(s[last:])
	return b.String()
}
