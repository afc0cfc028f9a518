package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/abhisek/slovo/internal/partsofspeech"
)

const (
	conlluColumns = 10
	colID         = 0
	colForm       = 1
	colUPOS       = 3
)

// LoadSentences parses a CoNLL-U treebank. Multiword token ranges ("1-2")
// and empty nodes ("1.1") are skipped. A sentence needs a "# text = "
// comment and at least one askable token, otherwise it is rejected.
func LoadSentences(r io.Reader) ([]partsofspeech.Sentence, Report, error) {
	rep := Report{Name: "treebank"}
	var out []partsofspeech.Sentence

	var (
		cur     partsofspeech.Sentence
		sentID  string
		started bool
		lineNo  int
	)
	flush := func() {
		if !started {
			return
		}
		name := sentID
		if name == "" {
			name = fmt.Sprintf("sentence ending at line %d", lineNo)
		}
		switch {
		case cur.Text == "":
			rep.reject(name, "missing text metadata")
		case len(cur.Targets()) == 0:
			rep.reject(name, "no askable tokens")
		default:
			rep.Loaded++
			out = append(out, cur)
		}
		cur = partsofspeech.Sentence{}
		sentID = ""
		started = false
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")

		switch {
		case strings.TrimSpace(line) == "":
			flush()

		case strings.HasPrefix(line, "#"):
			started = true
			key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "#")), "=")
			if !ok {
				continue
			}
			switch strings.TrimSpace(key) {
			case "text":
				cur.Text = norm.NFC.String(strings.TrimSpace(value))
			case "sent_id":
				sentID = strings.TrimSpace(value)
			}

		default:
			started = true
			cols := strings.Split(line, "\t")
			if len(cols) != conlluColumns {
				return nil, rep, fmt.Errorf("line %d: want %d tab-separated columns, got %d", lineNo, conlluColumns, len(cols))
			}
			id := cols[colID]
			if strings.ContainsAny(id, "-.") {
				continue
			}
			cur.Tokens = append(cur.Tokens, partsofspeech.Token{
				Form: norm.NFC.String(cols[colForm]),
				Tag:  partsofspeech.ParseTag(cols[colUPOS]),
			})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, rep, fmt.Errorf("read treebank: %w", err)
	}
	flush()
	return out, rep, nil
}
