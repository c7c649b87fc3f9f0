// internal/recommendation/classifier.go
package recommendation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"parche-recommender/internal/models"
)

const (
	tooShortMaxRunes   = 3
	tooGeneralMaxRunes = 15
)

var tooShortStoplist = map[string]struct{}{
	"m":     {},
	"no sé": {},
	"nose":  {},
	"ns":    {},
}

var rejectionPhrases = map[string]struct{}{
	"nope":        {},
	"no":          {},
	"no me gusta": {},
	"nah":         {},
}

var rejectionMarkers = []string{"no me interesa", "no quiero"}

var greetingTokens = []string{
	"hola", "holi", "holis", "hey", "buenas", "buenos días", "buenos dias",
	"buenas tardes", "buenas noches", "qué más", "que mas", "qué tal", "que tal",
	"saludos", "quiubo", "qué hubo", "que hubo",
}

var requestVerbs = []string{"busco", "quiero", "necesito", "recomienda", "dónde", "donde"}

// Classify maps a raw user message to an Intent. It is deterministic and
// never fails: unknown input resolves to IntentNone.
func Classify(message string, history []models.ConversationTurn) Intent {
	text := normalize(message)
	words := wordsOf(text)

	if isTooShort(text, words) {
		return IntentTooShort
	}
	if isRejection(text, words) {
		return IntentRejection
	}
	if isGreeting(words) {
		return IntentGreeting
	}
	if isTooGeneral(text) && !HasGreetedBefore(history) {
		return IntentGreeting
	}
	return matchUtterance(text)
}

func normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}

// wordsOf strips punctuation and collapses whitespace so greeting and
// rejection phrases can be compared on word boundaries.
func wordsOf(text string) string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}

func isTooShort(text, words string) bool {
	if utf8.RuneCountInString(text) <= tooShortMaxRunes {
		return true
	}
	_, ok := tooShortStoplist[words]
	return ok
}

func isRejection(text, words string) bool {
	if _, ok := rejectionPhrases[words]; ok {
		return true
	}
	if strings.HasPrefix(words, "no me gusta ") {
		return true
	}
	return containsAny(text, rejectionMarkers)
}

func isGreeting(words string) bool {
	for _, token := range greetingTokens {
		if words == token ||
			strings.HasPrefix(words, token+" ") ||
			strings.HasSuffix(words, " "+token) ||
			strings.Contains(words, " "+token+" ") {
			return true
		}
	}
	return false
}

func isTooGeneral(text string) bool {
	if utf8.RuneCountInString(text) >= tooGeneralMaxRunes {
		return false
	}
	if strings.Contains(text, "?") {
		return false
	}
	return !containsAny(text, requestVerbs)
}
