package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/abhisek/slovo/internal/stress"
)

// LoadStressWords reads one stress-marked word per line. Blank lines are
// skipped. Every other line is kept, but entries that can never produce a
// question are counted as rejected in the report.
func LoadStressWords(r io.Reader) ([]stress.Word, Report, error) {
	rep := Report{Name: "stress"}
	var words []stress.Word

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(norm.NFC.String(sc.Text()))
		if line == "" {
			continue
		}
		w := stress.NewWord(line)
		if reason := w.Ineligibility(); reason != "" {
			rep.reject(line, reason)
		} else {
			rep.Loaded++
		}
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, rep, fmt.Errorf("read stress words: %w", err)
	}
	return words, rep, nil
}
