package rag

import (
	"fmt"
	"strings"

	"github.com/pandect-io/pandect/internal/domain"
)

// baseSystemPrompts anchor the assistant's role and answer language.
var baseSystemPrompts = map[domain.Language]string{
	domain.LangFR: "Tu es un assistant juridique. Réponds en français, de manière précise et accessible, en citant les sources fournies. Si les sources ne permettent pas de répondre, dis-le clairement. Tes réponses sont informatives et ne constituent pas un conseil juridique.",
	domain.LangDE: "Du bist ein juristischer Assistent. Antworte auf Deutsch, präzise und verständlich, und zitiere die bereitgestellten Quellen. Wenn die Quellen keine Antwort erlauben, sage das deutlich. Deine Antworten sind informativ und stellen keine Rechtsberatung dar.",
	domain.LangEN: "You are a legal assistant. Answer in English, precisely and accessibly, citing the sources provided. If the sources do not allow an answer, say so clearly. Your answers are informational and do not constitute legal advice.",
}

// intentInstructions refine the answer shape per detected intent.
var intentInstructions = map[string]map[domain.Language]string{
	"definition": {
		domain.LangFR: "Donne une définition claire du terme, puis son fondement légal.",
		domain.LangDE: "Gib eine klare Definition des Begriffs und seine gesetzliche Grundlage an.",
		domain.LangEN: "Give a clear definition of the term, then its legal basis.",
	},
	"procedure": {
		domain.LangFR: "Décris les étapes de la procédure dans l'ordre, avec les délais applicables.",
		domain.LangDE: "Beschreibe die Verfahrensschritte der Reihe nach, mit den geltenden Fristen.",
		domain.LangEN: "Describe the procedural steps in order, with the applicable deadlines.",
	},
	"delai": {
		domain.LangFR: "Indique précisément les délais applicables et leur point de départ.",
		domain.LangDE: "Nenne die geltenden Fristen genau, einschließlich ihres Beginns.",
		domain.LangEN: "State the applicable deadlines precisely, including when they start running.",
	},
	"sanction": {
		domain.LangFR: "Précise les sanctions encourues et leur base légale.",
		domain.LangDE: "Nenne die drohenden Sanktionen und ihre Rechtsgrundlage.",
		domain.LangEN: "Specify the sanctions incurred and their legal basis.",
	},
	"montant": {
		domain.LangFR: "Indique les montants ou modes de calcul prévus par les textes.",
		domain.LangDE: "Nenne die in den Texten vorgesehenen Beträge oder Berechnungsweisen.",
		domain.LangEN: "State the amounts or calculation methods provided by the texts.",
	},
	"droits": {
		domain.LangFR: "Énumère les droits applicables et leurs conditions d'exercice.",
		domain.LangDE: "Zähle die anwendbaren Rechte und ihre Ausübungsvoraussetzungen auf.",
		domain.LangEN: "List the applicable rights and the conditions for exercising them.",
	},
	"obligation": {
		domain.LangFR: "Énumère les obligations applicables et les conséquences de leur non-respect.",
		domain.LangDE: "Zähle die geltenden Pflichten und die Folgen ihrer Nichteinhaltung auf.",
		domain.LangEN: "List the applicable obligations and the consequences of non-compliance.",
	},
	"validite": {
		domain.LangFR: "Analyse la validité au regard des conditions posées par les textes.",
		domain.LangDE: "Prüfe die Gültigkeit anhand der in den Texten genannten Voraussetzungen.",
		domain.LangEN: "Assess validity against the conditions set by the texts.",
	},
	"recours": {
		domain.LangFR: "Présente les voies de recours disponibles, leurs délais et juridictions compétentes.",
		domain.LangDE: "Stelle die verfügbaren Rechtsbehelfe, ihre Fristen und zuständigen Gerichte dar.",
		domain.LangEN: "Present the available remedies, their deadlines and competent courts.",
	},
	"comparaison": {
		domain.LangFR: "Compare les notions point par point avant de conclure.",
		domain.LangDE: "Vergleiche die Begriffe Punkt für Punkt, bevor du ein Fazit ziehst.",
		domain.LangEN: "Compare the notions point by point before concluding.",
	},
}

// domainContextFormats announce the detected legal domain.
var domainContextFormats = map[domain.Language]string{
	domain.LangFR: "Domaine juridique détecté : %s.",
	domain.LangDE: "Erkanntes Rechtsgebiet: %s.",
	domain.LangEN: "Detected legal domain: %s.",
}

// historyHeaders introduce the conversation excerpt in the system prompt.
var historyHeaders = map[domain.Language]string{
	domain.LangFR: "Extrait de la conversation en cours :",
	domain.LangDE: "Auszug aus dem laufenden Gespräch:",
	domain.LangEN: "Excerpt from the ongoing conversation:",
}

var roleLabels = map[domain.Language]map[domain.Role]string{
	domain.LangFR: {domain.RoleUser: "Utilisateur", domain.RoleAssistant: "Assistant"},
	domain.LangDE: {domain.RoleUser: "Nutzer", domain.RoleAssistant: "Assistent"},
	domain.LangEN: {domain.RoleUser: "User", domain.RoleAssistant: "Assistant"},
}

// buildSystemPrompt assembles base prompt, intent instructions,
// classification context, and recent conversation history.
func buildSystemPrompt(
	lang domain.Language, cls domain.Classification, history []domain.Message,
) string {
	parts := []string{baseSystemPrompts[lang]}

	if instr, ok := intentInstructions[cls.Intent]; ok {
		if line := instr[lang]; line != "" {
			parts = append(parts, line)
		}
	}

	if cls.Domain != domain.DomainGeneral {
		parts = append(parts, fmt.Sprintf(domainContextFormats[lang], cls.Domain))
	}

	if len(history) > 0 {
		var b strings.Builder
		b.WriteString(historyHeaders[lang])
		for _, msg := range history {
			b.WriteString("\n")
			b.WriteString(roleLabels[lang][msg.Role])
			b.WriteString(" : ")
			b.WriteString(msg.Content)
		}
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n\n")
}
