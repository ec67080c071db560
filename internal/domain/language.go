package domain

// Language is an ISO 639-1 code for one of the supported answer languages.
type Language string

// Supported languages. French is the corpus' primary language.
const (
	LangFR Language = "fr"
	LangDE Language = "de"
	LangEN Language = "en"
)

// DefaultLanguage is used when a request carries no language.
const DefaultLanguage = LangFR

// NormalizeLanguage maps an arbitrary language code to a supported one,
// falling back to the default.
func NormalizeLanguage(code string) Language {
	switch Language(code) {
	case LangFR, LangDE, LangEN:
		return Language(code)
	default:
		return DefaultLanguage
	}
}
