package declension

import "fmt"

// Case is a Ukrainian grammatical case.
type Case int

const (
	Nominative Case = iota
	Genitive
	Dative
	Accusative
	Instrumental
	Locative
	Vocative
)

// Askable lists the cases a question may target.
var Askable = []Case{Genitive, Dative, Accusative, Instrumental, Locative, Vocative}

var caseInfo = [...]struct {
	code  string
	label string
	hint  string
}{
	Nominative:   {"nom", "називний", "Хто? Що?"},
	Genitive:     {"gen", "родовий", "Кого? Чого?"},
	Dative:       {"dat", "давальний", "Кому? Чому?"},
	Accusative:   {"acc", "знахідний", "Кого? Що?"},
	Instrumental: {"ins", "орудний", "Ким? Чим?"},
	Locative:     {"loc", "місцевий", "На кому? На чому?"},
	Vocative:     {"voc", "кличний", "Звертання до когось або чогось"},
}

func (c Case) valid() bool { return c >= Nominative && c <= Vocative }

// Code returns the short corpus code, e.g. "gen".
func (c Case) Code() string {
	if !c.valid() {
		return fmt.Sprintf("case(%d)", int(c))
	}
	return caseInfo[c].code
}

// Label returns the Ukrainian name of the case, e.g. "родовий".
func (c Case) Label() string {
	if !c.valid() {
		return ""
	}
	return caseInfo[c].label
}

// Hint returns the helper question for the case, e.g. "Кого? Чого?".
func (c Case) Hint() string {
	if !c.valid() {
		return ""
	}
	return caseInfo[c].hint
}

func (c Case) String() string { return c.Code() }

// ParseCase maps a corpus code to a Case.
func ParseCase(code string) (Case, bool) {
	for c, info := range caseInfo {
		if info.code == code {
			return Case(c), true
		}
	}
	return 0, false
}
