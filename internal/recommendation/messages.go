// internal/recommendation/messages.go
package recommendation

const (
	WelcomeMessage = "¡Hola! Soy Parche AI, tu compa que conoce todos los planes chéveres de Medellín. " +
		"¿Qué tipo de experiencia buscas? ¿Romántico, rumba, comida, naturaleza, cultura o algo más tranquilo?"

	RepeatGreetingMessage = "¡Hola de nuevo! Cuéntame qué plan se te antoja hoy y te recomiendo algo."

	TooShortMessage = "¡Uy! Necesito un poco más de info para ayudarte. ¿Qué plan tienes en mente para hoy?"

	NoPlansMessage = "Por ahora no encontré planes para mostrarte. ¿Me cuentas un poco más de lo que buscas?"

	RateLimitedMessage = "Estoy recibiendo demasiadas solicitudes en este momento. Intenta de nuevo en unos segundos."

	UpstreamUnavailableMessage = "Tenemos un problema con el servidor. Intenta de nuevo más tarde."
)

type introPair struct {
	Intro    string
	Question string
}

var intros = map[Intent]introPair{
	IntentRomantic:    {"Para algo romántico, estos lugares son top:", "¿Cuál te llama más?"},
	IntentNightlife:   {"Para la rumba, estos lugares son lo máximo:", "¿Cuál te prende más?"},
	IntentFood:        {"Si tienes hambre, esta comida te va a encantar:", "¿Cuál se te antoja?"},
	IntentAdventure:   {"Para los amantes de la aventura, aquí va:", "¿Te le mides a alguno?"},
	IntentCulture:     {"Si buscas cultura, estos lugares te van a gustar:", "¿Cuál te gustaría conocer?"},
	IntentNatureChill: {"Para conectar con la naturaleza y relajarse:", "¿Cuál te suena para desconectarte?"},
	IntentRejection:   {"¡Listo, cambiemos de parche!", "¿Alguno de estos te convence más?"},
}

var defaultIntro = introPair{"Aquí van algunos planes chéveres en Medellín:", "¿Alguno te interesa?"}

// IntroFor returns the intro and closing question for a response. On
// rejection the replacement category's intro follows the rejection intro so
// the next turn can still recover which category was offered.
func IntroFor(intent, category Intent) (string, string) {
	if intent == IntentRejection {
		rejection := intros[IntentRejection]
		if pair, ok := intros[category]; ok {
			return rejection.Intro + " " + pair.Intro, rejection.Question
		}
		return rejection.Intro + " " + defaultIntro.Intro, rejection.Question
	}
	if pair, ok := intros[intent]; ok {
		return pair.Intro, pair.Question
	}
	return defaultIntro.Intro, defaultIntro.Question
}
