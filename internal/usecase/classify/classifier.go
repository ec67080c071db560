package classify

import (
	"strings"

	"github.com/pandect-io/pandect/internal/domain"
)

// Confidence scoring constants.
const (
	confidenceBase      = 0.3
	confidenceDomain    = 0.3
	confidenceIntent    = 0.2
	confidencePerEntity = 0.1
	confidenceEntityCap = 0.2
)

// Classifier assigns a legal domain, an intent, and extracted entities to a
// question. Classification is pure and deterministic: same question, same
// result.
type Classifier struct{}

// New creates a classifier.
func New() *Classifier {
	return &Classifier{}
}

// Classify runs the pattern tables over the question.
func (c *Classifier) Classify(question string) domain.Classification {
	dom := matchDomain(question)
	intent := matchIntent(question)
	entities := extractEntities(question)

	return domain.Classification{
		Domain:           dom,
		Intent:           intent,
		Entities:         entities,
		Confidence:       confidence(dom, intent, entities),
		SuggestedFilters: suggestFilters(dom, intent),
	}
}

// matchDomain counts pattern matches per bucket and picks the highest.
// Ties keep the earlier bucket; zero matches falls back to "general".
func matchDomain(question string) string {
	best := domain.DomainGeneral
	bestScore := 0
	for _, bucket := range domainTable {
		score := 0
		for _, p := range bucket.patterns {
			score += len(p.FindAllStringIndex(question, -1))
		}
		if score > bestScore {
			best = bucket.name
			bestScore = score
		}
	}
	return best
}

// matchIntent returns the first intent with any matching pattern.
func matchIntent(question string) string {
	for _, candidate := range intentTable {
		for _, p := range candidate.patterns {
			if p.MatchString(question) {
				return candidate.name
			}
		}
	}
	return domain.IntentInformation
}

// extractEntities runs the entity battery, preferring captured groups and
// de-duplicating per type (case-insensitive).
func extractEntities(question string) map[domain.EntityType][]string {
	out := make(map[domain.EntityType][]string)
	for _, ent := range entityTable {
		seen := make(map[string]bool)
		for _, p := range ent.patterns {
			for _, m := range p.FindAllStringSubmatch(question, -1) {
				value := m[0]
				if len(m) > 1 && m[1] != "" {
					value = m[1]
				}
				value = strings.TrimSpace(value)
				key := strings.ToLower(value)
				if value == "" || seen[key] {
					continue
				}
				seen[key] = true
				out[ent.entityType] = append(out[ent.entityType], value)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func confidence(dom, intent string, entities map[domain.EntityType][]string) float64 {
	score := confidenceBase
	if dom != domain.DomainGeneral {
		score += confidenceDomain
	}
	if intent != domain.IntentInformation {
		score += confidenceIntent
	}

	entityCount := 0
	for _, values := range entities {
		entityCount += len(values)
	}
	bonus := confidencePerEntity * float64(entityCount)
	if bonus > confidenceEntityCap {
		bonus = confidenceEntityCap
	}
	score += bonus

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

// suggestFilters proposes retrieval filters from the classification. Callers
// merge these beneath their own filters, so an explicit caller filter always
// wins.
func suggestFilters(dom, intent string) map[string]string {
	filters := make(map[string]string)
	if dom != domain.DomainGeneral {
		filters["domain"] = dom
	}
	if intent == "recours" || intent == "sanction" {
		// Appeal and penalty questions are best answered from decisions.
		filters["type"] = string(domain.DocCaselaw)
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}
