package domain

// Defaults assigned when no classification pattern matches.
const (
	DomainGeneral     = "general"
	IntentInformation = "information"
)

// EntityType tags a class of legal entity extracted from a question.
type EntityType string

// Entity types the classifier extracts.
const (
	EntityLawRef     EntityType = "law_ref"
	EntityDecreeRef  EntityType = "decree_ref"
	EntityArticle    EntityType = "article"
	EntityDate       EntityType = "date"
	EntityAmount     EntityType = "amount"
	EntityDuration   EntityType = "duration"
	EntityActor      EntityType = "actor"
)

// Classification is the immutable result of classifying a question. It is
// computed once per request, before anything else runs.
type Classification struct {
	Domain           string                  `json:"domain"`
	Intent           string                  `json:"intent"`
	Entities         map[EntityType][]string `json:"entities,omitempty"`
	Confidence       float64                 `json:"confidence"`
	SuggestedFilters map[string]string       `json:"suggested_filters,omitempty"`
}

// Summary reduces the classification to what is persisted with messages and
// cached answers.
func (c Classification) Summary() ClassificationSummary {
	return ClassificationSummary{
		Domain:     c.Domain,
		Intent:     c.Intent,
		Confidence: c.Confidence,
	}
}

// ClassificationSummary is the compact classification record carried by
// results, messages, and cached answers.
type ClassificationSummary struct {
	Domain     string  `json:"domain"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}
