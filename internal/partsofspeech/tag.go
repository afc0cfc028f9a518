package partsofspeech

// Tag is a Universal Dependencies part-of-speech tag.
type Tag string

// TagNone marks a token the corpus left untagged.
const TagNone Tag = ""

const (
	ADJ   Tag = "ADJ"
	ADP   Tag = "ADP"
	ADV   Tag = "ADV"
	AUX   Tag = "AUX"
	CCONJ Tag = "CCONJ"
	DET   Tag = "DET"
	INTJ  Tag = "INTJ"
	NOUN  Tag = "NOUN"
	NUM   Tag = "NUM"
	PART  Tag = "PART"
	PRON  Tag = "PRON"
	PROPN Tag = "PROPN"
	PUNCT Tag = "PUNCT"
	SCONJ Tag = "SCONJ"
	SYM   Tag = "SYM"
	VERB  Tag = "VERB"
	X     Tag = "X"
)

const labelOther = "інше"

var labels = map[Tag]string{
	ADJ:   "прикметник",
	ADV:   "прислівник",
	INTJ:  "вигук",
	NOUN:  "іменник",
	PROPN: "власний іменник",
	VERB:  "дієслово",
	PRON:  "займенник",
	ADP:   "прийменник",
	CCONJ: "сполучник",
	SCONJ: "підрядний сполучник",
	AUX:   "допоміжне дієслово",
	DET:   "детермінатив",
	NUM:   "числівник",
	PART:  "частка",
	X:     labelOther,
	SYM:   "символ",
	PUNCT: "пунктуація",
}

// AnswerLabels are the labels that may appear as answer options. Labels
// for X, SYM and PUNCT are left out since such tokens are never asked about
// and offering them would give the answer away.
var AnswerLabels = []string{
	"прикметник",
	"прислівник",
	"вигук",
	"іменник",
	"власний іменник",
	"дієслово",
	"займенник",
	"прийменник",
	"сполучник",
	"підрядний сполучник",
	"допоміжне дієслово",
	"детермінатив",
	"числівник",
	"частка",
}

// Label returns the Ukrainian name of the part of speech. Unknown and
// missing tags map to "інше".
func (t Tag) Label() string {
	if l, ok := labels[t]; ok {
		return l
	}
	return labelOther
}

// Askable reports whether a token with this tag can be a question target.
func (t Tag) Askable() bool {
	switch t {
	case TagNone, X, SYM, PUNCT:
		return false
	}
	_, known := labels[t]
	return known
}

// ParseTag maps a UPOS column value to a Tag. "_" yields TagNone.
func ParseTag(s string) Tag {
	if s == "_" {
		return TagNone
	}
	return Tag(s)
}
