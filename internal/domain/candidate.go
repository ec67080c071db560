package domain

import "time"

// DocType identifies the kind of legal document a candidate comes from.
type DocType string

// Document types present in the corpus.
const (
	DocStatute DocType = "statute"
	DocDecree  DocType = "decree"
	DocCaselaw DocType = "caselaw"
)

// Candidate is a retrieved passage competing for a place in the answer
// context. ID is stable across fusion and rerank passes; Score is recomputed
// at each stage.
type Candidate struct {
	ID         string    `json:"id"`
	Type       DocType   `json:"type"`
	TitleFR    string    `json:"title_fr"`
	TitleDE    string    `json:"title_de,omitempty"`
	TitleEN    string    `json:"title_en,omitempty"`
	Identifier string    `json:"identifier"`
	Date       time.Time `json:"date"`
	Domain     string    `json:"domain,omitempty"`
	Content    string    `json:"content"`
	URL        string    `json:"url,omitempty"`
	Score      float64   `json:"score"`
}

// Title returns the candidate title in the requested language, falling back
// fr -> de -> en to the first non-empty one.
func (c Candidate) Title(lang Language) string {
	titles := map[Language]string{
		LangFR: c.TitleFR,
		LangDE: c.TitleDE,
		LangEN: c.TitleEN,
	}
	if t := titles[lang]; t != "" {
		return t
	}
	for _, l := range []Language{LangFR, LangDE, LangEN} {
		if titles[l] != "" {
			return titles[l]
		}
	}
	return ""
}

// maxPassageLen bounds the passage text exposed to API clients.
const maxPassageLen = 500

// SourceRef is the client-facing projection of a candidate cited by an answer.
type SourceRef struct {
	ID              string    `json:"id"`
	Type            DocType   `json:"type"`
	Title           string    `json:"title"`
	Identifier      string    `json:"identifier"`
	Date            time.Time `json:"date"`
	RelevantPassage string    `json:"relevant_passage"`
	URL             string    `json:"url,omitempty"`
}

// SourceRefFrom projects a candidate into a SourceRef for the given language.
func SourceRefFrom(c Candidate, lang Language) SourceRef {
	passage := c.Content
	if runes := []rune(passage); len(runes) > maxPassageLen {
		passage = string(runes[:maxPassageLen])
	}
	return SourceRef{
		ID:              c.ID,
		Type:            c.Type,
		Title:           c.Title(lang),
		Identifier:      c.Identifier,
		Date:            c.Date,
		RelevantPassage: passage,
		URL:             c.URL,
	}
}
