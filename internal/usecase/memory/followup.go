package memory

import (
	"regexp"

	"github.com/pandect-io/pandect/internal/domain"
)

// Fixed per-language discourse-marker patterns. A question matching any of
// them is treated as context-dependent, pulling recent history into the
// prompt. This is a heuristic, not a classifier.
var followUpPatterns = map[domain.Language][]*regexp.Regexp{
	domain.LangFR: {
		regexp.MustCompile(`(?i)^\s*(et|aussi|également|donc|alors|ensuite|puis|mais)\b`),
		regexp.MustCompile(`(?i)\b(dans ce cas|à ce sujet|qu'en est[- ]il|le même|la même|celui[- ]ci|celle[- ]ci|cette (situation|procédure|sanction|règle))\b`),
	},
	domain.LangDE: {
		regexp.MustCompile(`(?i)^\s*(und|auch|also|dann|außerdem|aber)\b`),
		regexp.MustCompile(`(?i)\b(in diesem fall|dazu|was ist mit|dasselbe|derselbe|diese (situation|regel|frist))\b`),
	},
	domain.LangEN: {
		regexp.MustCompile(`(?i)^\s*(and|also|then|so|but|what about)\b`),
		regexp.MustCompile(`(?i)\b(in (that|this) case|about that|the same|this (situation|rule|procedure))\b`),
	},
}

// IsFollowUp reports whether the question depends on prior turns, based on
// the discourse markers for its language.
func (m *Memory) IsFollowUp(question string, lang domain.Language) bool {
	patterns, ok := followUpPatterns[lang]
	if !ok {
		patterns = followUpPatterns[domain.DefaultLanguage]
	}
	for _, p := range patterns {
		if p.MatchString(question) {
			return true
		}
	}
	return false
}
