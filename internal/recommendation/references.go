// internal/recommendation/references.go
package recommendation

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"parche-recommender/internal/models"
)

const (
	ExactMatchConfidence   = 0.95
	PartialMatchConfidence = 0.75
	MaxPlanReferences      = 4

	minSignificantTokenRunes = 4
	minSignificantTokens     = 2
)

// ExtractReferences finds the catalog plans mentioned in text. Exact
// case-insensitive name matches rank above accent-insensitive or token-level
// partial matches. At most MaxPlanReferences are returned.
func ExtractReferences(text string, catalog []models.PlanRecord) []models.PlanReference {
	refs := make([]models.PlanReference, 0, MaxPlanReferences)
	if strings.TrimSpace(text) == "" {
		return refs
	}

	lowerText := strings.ToLower(text)
	foldedText := foldAccents(lowerText)
	textWords := wordSet(foldedText)
	seen := make(map[string]struct{}, len(catalog))

	for _, plan := range catalog {
		name := strings.ToLower(strings.TrimSpace(plan.Name))
		if name == "" {
			continue
		}
		if _, dup := seen[plan.ID]; dup {
			continue
		}

		var confidence float64
		switch {
		case strings.Contains(lowerText, name):
			confidence = ExactMatchConfidence
		case partialMatch(foldedText, textWords, foldAccents(name)):
			confidence = PartialMatchConfidence
		default:
			continue
		}

		seen[plan.ID] = struct{}{}
		refs = append(refs, models.PlanReference{
			PlanID:     plan.ID,
			MatchName:  plan.Name,
			Confidence: confidence,
		})
	}

	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Confidence > refs[j].Confidence
	})
	if len(refs) > MaxPlanReferences {
		refs = refs[:MaxPlanReferences]
	}
	return refs
}

func partialMatch(foldedText string, textWords map[string]struct{}, foldedName string) bool {
	if strings.Contains(foldedText, foldedName) {
		return true
	}

	var significant []string
	for _, token := range splitWords(foldedName) {
		if utf8.RuneCountInString(token) >= minSignificantTokenRunes {
			significant = append(significant, token)
		}
	}
	if len(significant) < minSignificantTokens {
		return false
	}
	for _, token := range significant {
		if _, ok := textWords[token]; !ok {
			return false
		}
	}
	return true
}

// foldAccents strips combining marks so "Café" and "cafe" compare equal.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func wordSet(s string) map[string]struct{} {
	words := splitWords(s)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
