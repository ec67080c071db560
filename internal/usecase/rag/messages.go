package rag

import "github.com/pandect-io/pandect/internal/domain"

// noResultsMessages are returned when both retrieval branches come back
// empty. This outcome is an answer, not an error.
var noResultsMessages = map[domain.Language]string{
	domain.LangFR: "Je n'ai trouvé aucune source juridique pertinente pour répondre à votre question. Essayez de la reformuler ou de préciser le domaine concerné.",
	domain.LangDE: "Ich habe keine einschlägigen Rechtsquellen zu Ihrer Frage gefunden. Versuchen Sie, die Frage umzuformulieren oder das Rechtsgebiet zu präzisieren.",
	domain.LangEN: "I could not find any relevant legal sources to answer your question. Try rephrasing it or specifying the area of law.",
}

// fallbackMessages are returned when generation fails after sources were
// found. The sources stay visible; the confidence drops to zero.
var fallbackMessages = map[domain.Language]string{
	domain.LangFR: "Une erreur est survenue lors de la génération de la réponse. Les sources trouvées restent consultables ci-dessous.",
	domain.LangDE: "Bei der Erstellung der Antwort ist ein Fehler aufgetreten. Die gefundenen Quellen sind unten weiterhin einsehbar.",
	domain.LangEN: "An error occurred while generating the answer. The sources found remain available below.",
}

func noResultsMessage(lang domain.Language) string {
	if msg, ok := noResultsMessages[lang]; ok {
		return msg
	}
	return noResultsMessages[domain.DefaultLanguage]
}

func fallbackMessage(lang domain.Language) string {
	if msg, ok := fallbackMessages[lang]; ok {
		return msg
	}
	return fallbackMessages[domain.DefaultLanguage]
}
