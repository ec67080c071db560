package augment

import "github.com/pandect-io/pandect/internal/domain"

// Built-in prompt templates. {{sources}} and {{question}} are substituted by
// the augmenter; configuration may override a template per language.
var defaultTemplates = map[domain.Language]string{
	domain.LangFR: `Tu es un assistant juridique spécialisé dans le droit national. Réponds à la question en te fondant exclusivement sur les extraits de sources ci-dessous. Cite les textes utilisés (loi, règlement ou décision) et précise lorsque les sources ne suffisent pas à répondre.

Sources :
{{sources}}

Question : {{question}}

Réponse :`,

	domain.LangDE: `Du bist ein juristischer Assistent für das nationale Recht. Beantworte die Frage ausschließlich anhand der unten stehenden Quellenauszüge. Nenne die verwendeten Texte (Gesetz, Verordnung oder Entscheidung) und weise darauf hin, wenn die Quellen für eine Antwort nicht ausreichen.

Quellen:
{{sources}}

Frage: {{question}}

Antwort:`,

	domain.LangEN: `You are a legal assistant specialised in national law. Answer the question relying exclusively on the source excerpts below. Cite the texts you use (statute, regulation or decision) and state when the sources are insufficient to answer.

Sources:
{{sources}}

Question: {{question}}

Answer:`,
}

// Localized labels for document types, used in rendered source blocks.
var typeLabels = map[domain.Language]map[domain.DocType]string{
	domain.LangFR: {
		domain.DocStatute: "Loi",
		domain.DocDecree:  "Règlement",
		domain.DocCaselaw: "Jurisprudence",
	},
	domain.LangDE: {
		domain.DocStatute: "Gesetz",
		domain.DocDecree:  "Verordnung",
		domain.DocCaselaw: "Rechtsprechung",
	},
	domain.LangEN: {
		domain.DocStatute: "Statute",
		domain.DocDecree:  "Regulation",
		domain.DocCaselaw: "Case law",
	},
}
