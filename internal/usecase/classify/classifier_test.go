package classify

import (
	"reflect"
	"testing"

	"github.com/pandect-io/pandect/internal/domain"
)

func TestClassify_Domains(t *testing.T) {
	cases := []struct {
		name     string
		question string
		want     string
	}{
		{"work fr", "Quel est le délai de préavis en cas de licenciement ?", "travail"},
		{"work de", "Wie lange ist die Kündigungsfrist im Arbeitsvertrag?", "travail"},
		{"work en", "What is the notice period after a dismissal?", "travail"},
		{"tax fr", "Comment déclarer la TVA ?", "fiscal"},
		{"housing fr", "Mon bailleur peut-il augmenter le loyer ?", "immobilier"},
		{"family de", "Wie funktioniert der Unterhalt nach der Scheidung?", "famille"},
		{"criminal en", "What is the punishment for theft?", "penal"},
		{"consumer fr", "Quel est le délai de rétractation pour une vente à distance ?", "consommation"},
		{"no match", "Bonjour, pouvez-vous m'aider ?", domain.DomainGeneral},
	}

	c := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(tc.question)
			if got.Domain != tc.want {
				t.Errorf("domain = %q, want %q", got.Domain, tc.want)
			}
		})
	}
}

func TestClassify_DomainTieKeepsEarlierBucket(t *testing.T) {
	// One pattern hit in "travail" and one in "fiscal": the earlier
	// bucket must win.
	got := New().Classify("Les salaires sont-ils soumis aux impôts ?")
	if got.Domain != "travail" {
		t.Errorf("domain = %q, want %q", got.Domain, "travail")
	}
}

func TestClassify_Intents(t *testing.T) {
	cases := []struct {
		name     string
		question string
		want     string
	}{
		{"definition fr", "Qu'est-ce que la période d'essai ?", "definition"},
		{"procedure en", "How do I register a company?", "procedure"},
		{"delai de", "Wie lange ist die Frist für den Einspruch?", "delai"},
		{"sanction fr", "Que risque un employeur en cas de travail dissimulé ?", "sanction"},
		{"montant de", "Wie viel Arbeitslosengeld bekomme ich?", "montant"},
		{"droits fr", "Ai-je le droit de refuser des heures supplémentaires ?", "droits"},
		{"obligation en", "Am I required to file a tax return?", "obligation"},
		{"validite fr", "Ce contrat est-il valable sans signature ?", "validite"},
		{"recours de", "Kann ich gegen den Bescheid Einspruch erheben?", "recours"},
		{"comparaison de", "Gibt es einen Unterschied zwischen Gesetz und Verordnung?", "comparaison"},
		{"fallback", "Informations sur la législation nationale.", domain.IntentInformation},
	}

	c := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(tc.question)
			if got.Intent != tc.want {
				t.Errorf("intent = %q, want %q", got.Intent, tc.want)
			}
		})
	}
}

func TestClassify_IntentOrderFirstMatchWins(t *testing.T) {
	// "Qu'est-ce que" (definition) and "comment" (procedure) both match;
	// definition is evaluated first.
	got := New().Classify("Qu'est-ce que la médiation et comment y recourir ?")
	if got.Intent != "definition" {
		t.Errorf("intent = %q, want %q", got.Intent, "definition")
	}
}

func TestClassify_Entities(t *testing.T) {
	got := New().Classify(
		"Selon l'article L.124-5 du code du travail, un salarié licencié le 15/03/2024 " +
			"a-t-il droit à une indemnité de 5 000 € après 10 ans d'ancienneté ?",
	)

	if vals := got.Entities[domain.EntityArticle]; len(vals) != 1 || vals[0] != "L.124-5" {
		t.Errorf("article entities = %v, want [L.124-5]", vals)
	}
	if vals := got.Entities[domain.EntityLawRef]; len(vals) != 1 {
		t.Errorf("law_ref entities = %v, want one match", vals)
	}
	if vals := got.Entities[domain.EntityDate]; len(vals) != 1 || vals[0] != "15/03/2024" {
		t.Errorf("date entities = %v, want [15/03/2024]", vals)
	}
	if vals := got.Entities[domain.EntityAmount]; len(vals) != 1 {
		t.Errorf("amount entities = %v, want one match", vals)
	}
	if vals := got.Entities[domain.EntityDuration]; len(vals) != 1 || vals[0] != "10 ans" {
		t.Errorf("duration entities = %v, want [10 ans]", vals)
	}
	if vals := got.Entities[domain.EntityActor]; len(vals) != 1 || vals[0] != "salarié" {
		t.Errorf("actor entities = %v, want [salarié]", vals)
	}
}

func TestClassify_EntityDeduplication(t *testing.T) {
	got := New().Classify("L'employeur doit-il prévenir l'Employeur ?")
	if vals := got.Entities[domain.EntityActor]; len(vals) != 1 {
		t.Errorf("actor entities = %v, want a single case-insensitive match", vals)
	}
}

func TestClassify_NoEntitiesIsNil(t *testing.T) {
	got := New().Classify("Bonjour")
	if got.Entities != nil {
		t.Errorf("entities = %v, want nil", got.Entities)
	}
}

func TestClassify_Confidence(t *testing.T) {
	c := New()

	t.Run("nothing matched", func(t *testing.T) {
		got := c.Classify("Bonjour, pouvez-vous m'aider ?")
		if got.Confidence != confidenceBase {
			t.Errorf("confidence = %g, want %g", got.Confidence, confidenceBase)
		}
	})

	t.Run("domain and intent", func(t *testing.T) {
		got := c.Classify("Quelle procédure pour contester un licenciement ?")
		want := confidenceBase + confidenceDomain + confidenceIntent
		if got.Confidence != want {
			t.Errorf("confidence = %g, want %g", got.Confidence, want)
		}
	})

	t.Run("entity bonus capped", func(t *testing.T) {
		// Four entities would be 0.4 uncapped; the cap holds it at 0.2.
		got := c.Classify(
			"Puis-je, en tant que salarié, réclamer 1 500 € après 6 mois selon l'article L.121-4 ?",
		)
		if got.Confidence > 1 {
			t.Fatalf("confidence = %g, want <= 1", got.Confidence)
		}
		entityCount := 0
		for _, vals := range got.Entities {
			entityCount += len(vals)
		}
		if entityCount < 3 {
			t.Fatalf("extracted %d entities, want >= 3 for this question", entityCount)
		}
		want := confidenceBase + confidenceDomain + confidenceIntent + confidenceEntityCap
		if got.Confidence != want {
			t.Errorf("confidence = %g, want %g", got.Confidence, want)
		}
	})
}

func TestClassify_SuggestedFilters(t *testing.T) {
	c := New()

	t.Run("domain filter", func(t *testing.T) {
		got := c.Classify("Quel préavis pour une démission ?")
		if got.SuggestedFilters["domain"] != "travail" {
			t.Errorf("filters = %v, want domain=travail", got.SuggestedFilters)
		}
	})

	t.Run("caselaw for appeals", func(t *testing.T) {
		got := c.Classify("Quel recours contre cette décision ?")
		if got.SuggestedFilters["type"] != string(domain.DocCaselaw) {
			t.Errorf("filters = %v, want type=caselaw", got.SuggestedFilters)
		}
	})

	t.Run("no filters for general", func(t *testing.T) {
		got := c.Classify("Bonjour")
		if got.SuggestedFilters != nil {
			t.Errorf("filters = %v, want nil", got.SuggestedFilters)
		}
	})
}

func TestClassify_Deterministic(t *testing.T) {
	c := New()
	question := "Quel est le délai de préavis pour un salarié selon l'article L.124-1 ?"

	first := c.Classify(question)
	for i := 0; i < 5; i++ {
		if got := c.Classify(question); !reflect.DeepEqual(got, first) {
			t.Fatalf("classification differs across runs:\nfirst: %+v\ngot:   %+v", first, got)
		}
	}
}
