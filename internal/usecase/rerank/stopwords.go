package rerank

// Stop words excluded from the question keyword set, per language. The lists
// are short on purpose: keyword overlap is a cheap heuristic, not an IR
// engine.
var stopWords = map[string]bool{
	// fr
	"le": true, "la": true, "les": true, "un": true, "une": true, "des": true,
	"de": true, "du": true, "d": true, "l": true, "et": true, "ou": true,
	"que": true, "qui": true, "quoi": true, "quel": true, "quelle": true,
	"quels": true, "quelles": true, "est": true, "sont": true, "dans": true,
	"pour": true, "par": true, "sur": true, "avec": true, "sans": true,
	"ce": true, "cette": true, "ces": true, "il": true, "elle": true,
	"je": true, "on": true, "ne": true, "pas": true, "plus": true,
	"au": true, "aux": true, "se": true, "sa": true, "son": true, "ses": true,
	"qu": true, "en": true, "mon": true, "ma": true, "mes": true,

	// de
	"der": true, "die": true, "das": true, "ein": true, "eine": true,
	"einen": true, "einem": true, "einer": true, "und": true, "oder": true,
	"ist": true, "sind": true, "was": true, "wie": true, "wer": true,
	"wann": true, "wo": true, "ich": true, "mit": true, "ohne": true,
	"für": true, "von": true, "vom": true, "zu": true, "zur": true,
	"zum": true, "bei": true, "nicht": true, "kann": true, "muss": true,
	"mein": true, "meine": true, "dem": true, "den": true,

	// en
	"the": true, "a": true, "an": true, "and": true, "or": true, "of": true,
	"to": true, "in": true, "for": true, "with": true,
	"without": true, "is": true, "are": true, "be": true, "been": true,
	"what": true, "which": true, "who": true, "when": true, "where": true,
	"how": true, "do": true, "does": true, "can": true, "could": true,
	"i": true, "my": true, "it": true, "its": true, "this": true,
	"that": true, "not": true, "no": true,
}
