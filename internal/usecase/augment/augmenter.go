package augment

import (
	"fmt"
	"strings"

	"github.com/pandect-io/pandect/internal/domain"
)

// maxSourceContentLen bounds the content rendered per source block, in runes.
const maxSourceContentLen = 1500

// Augmenter renders retrieved sources into a language-specific prompt. It is
// pure and deterministic: cache fingerprints and test stability depend on the
// output being bit-reproducible for a given input.
type Augmenter struct {
	templates map[domain.Language]string
}

// New creates an augmenter. overrides maps languages to template overrides;
// empty entries fall back to the built-in template.
func New(overrides map[domain.Language]string) *Augmenter {
	templates := make(map[domain.Language]string, len(defaultTemplates))
	for lang, tpl := range defaultTemplates {
		templates[lang] = tpl
	}
	for lang, tpl := range overrides {
		if tpl != "" {
			templates[lang] = tpl
		}
	}
	return &Augmenter{templates: templates}
}

// BuildPrompt substitutes the question and rendered source blocks into the
// template for the target language.
func (a *Augmenter) BuildPrompt(question string, sources []domain.Candidate, lang domain.Language) string {
	tpl, ok := a.templates[lang]
	if !ok {
		tpl = a.templates[domain.DefaultLanguage]
	}

	blocks := make([]string, 0, len(sources))
	for i, src := range sources {
		blocks = append(blocks, renderSource(i+1, src, lang))
	}

	return strings.NewReplacer(
		"{{sources}}", strings.Join(blocks, "\n\n"),
		"{{question}}", question,
	).Replace(tpl)
}

// renderSource produces one fixed-format source block:
//
//	[1] (Loi) Code du travail — L.124-5 — 2006-05-31
//	<content>
func renderSource(position int, src domain.Candidate, lang domain.Language) string {
	labels, ok := typeLabels[lang]
	if !ok {
		labels = typeLabels[domain.DefaultLanguage]
	}
	label := labels[src.Type]
	if label == "" {
		label = string(src.Type)
	}

	header := fmt.Sprintf("[%d] (%s) %s", position, label, src.Title(lang))
	if src.Identifier != "" {
		header += " — " + src.Identifier
	}
	if !src.Date.IsZero() {
		header += " — " + src.Date.Format("2006-01-02")
	}

	content := src.Content
	if runes := []rune(content); len(runes) > maxSourceContentLen {
		content = string(runes[:maxSourceContentLen]) + "…"
	}

	return header + "\n" + content
}
