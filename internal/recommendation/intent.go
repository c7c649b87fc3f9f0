// internal/recommendation/intent.go
package recommendation

import "fmt"

// Intent is the classified purpose of a user message.
type Intent int

const (
	IntentNone Intent = iota
	IntentRomantic
	IntentNightlife
	IntentFood
	IntentAdventure
	IntentCulture
	IntentNatureChill
	IntentGreeting
	IntentTooShort
	IntentRejection
)

var intentNames = map[Intent]string{
	IntentNone:        "none",
	IntentRomantic:    "romantic",
	IntentNightlife:   "nightlife",
	IntentFood:        "food",
	IntentAdventure:   "adventure",
	IntentCulture:     "culture",
	IntentNatureChill: "nature_chill",
	IntentGreeting:    "greeting",
	IntentTooShort:    "too_short",
	IntentRejection:   "rejection",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(i))
}

// IsCategory reports whether the intent maps to a catalog category.
func (i Intent) IsCategory() bool {
	return i >= IntentRomantic && i <= IntentNatureChill
}

// ParseIntent resolves the wire name of an intent.
func ParseIntent(name string) (Intent, bool) {
	for intent, n := range intentNames {
		if n == name {
			return intent, true
		}
	}
	return IntentNone, false
}

// Categories lists the category intents in tie-break priority order.
func Categories() []Intent {
	out := make([]Intent, len(categoryRules))
	for i, rule := range categoryRules {
		out[i] = rule.Intent
	}
	return out
}
