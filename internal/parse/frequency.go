// Package parse turns free-form Spanish chat text into reminder intents
// and normalized schedules: a decimal interval in minutes or a list of
// "HH:MM" clock times.
package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// timeOfDayExpressions are phrases that look like frequencies but really
// name a moment of the day ("cada noche", "a las 8"). They must route to
// Times, never to an interval.
var timeOfDayExpressions = []*regexp.Regexp{
	regexp.MustCompile(`cada\s+(noche|mañana|tarde)`),
	regexp.MustCompile(`por\s+la\s+(noche|mañana|tarde)`),
	regexp.MustCompile(`en\s+la\s+(noche|mañana|tarde)`),
	regexp.MustCompile(`a\s+las\s+\d+`),
	regexp.MustCompile(`\d+\s*(am|pm)`),
	regexp.MustCompile(`antes\s+de\s+dormir`),
	regexp.MustCompile(`después\s+de\s+comer`),
}

type frequencyPattern struct {
	re      *regexp.Regexp
	minutes func(match []string) float64
}

func fixed(v float64) func([]string) float64 {
	return func([]string) float64 { return v }
}

func capture(scale float64) func([]string) float64 {
	return func(match []string) float64 {
		v, _ := strconv.ParseFloat(match[1], 64)
		return v * scale
	}
}

// frequencyPatterns is an ordered table: the first match wins, so the
// more specific idioms come before the generic numeric forms they overlap.
var frequencyPatterns = []frequencyPattern{
	// "cada minuto" and friends without an explicit number
	{regexp.MustCompile(`cada\s*min(?:uto)?s?\b`), fixed(1)},
	{regexp.MustCompile(`por\s*min(?:uto)?s?\b`), fixed(1)},
	{regexp.MustCompile(`un\s*min(?:uto)?s?\b`), fixed(1)},
	{regexp.MustCompile(`1\s*min(?:uto)?s?\b`), fixed(1)},

	// seconds
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*seg(?:undo)?s?`), capture(1.0 / 60)},
	{regexp.MustCompile(`cada\s*(\d+(?:\.\d+)?)\s*seg(?:undo)?s?`), capture(1.0 / 60)},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*s\b`), capture(1.0 / 60)},

	// minutes, decimals allowed
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*min(?:uto)?s?`), capture(1)},
	{regexp.MustCompile(`cada\s*(\d+(?:\.\d+)?)\s*min(?:uto)?s?`), capture(1)},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*m\b`), capture(1)},

	// fractions of a minute
	{regexp.MustCompile(`medio\s*minuto`), fixed(0.5)},
	{regexp.MustCompile(`30\s*segundos`), fixed(0.5)},
	{regexp.MustCompile(`15\s*segundos`), fixed(0.25)},
	{regexp.MustCompile(`45\s*segundos`), fixed(0.75)},

	// hours, decimals allowed
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*h(?:ora)?s?`), capture(60)},
	{regexp.MustCompile(`cada\s*(\d+(?:\.\d+)?)\s*h(?:ora)?s?`), capture(60)},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*hr?s?`), capture(60)},
	{regexp.MustCompile(`cada\s*hora`), fixed(60)},
	{regexp.MustCompile(`por\s*hora`), fixed(60)},
	{regexp.MustCompile(`una\s*hora`), fixed(60)},
	{regexp.MustCompile(`1\s*hora`), fixed(60)},
	{regexp.MustCompile(`cada\s*h\b`), fixed(60)},

	// fractions of an hour
	{regexp.MustCompile(`media\s*hora`), fixed(30)},
	{regexp.MustCompile(`30\s*min(?:uto)?s?`), fixed(30)},
	{regexp.MustCompile(`cuarto\s*de\s*hora`), fixed(15)},
	{regexp.MustCompile(`15\s*min(?:uto)?s?`), fixed(15)},
	{regexp.MustCompile(`tres\s*cuartos\s*de\s*hora`), fixed(45)},
	{regexp.MustCompile(`45\s*min(?:uto)?s?`), fixed(45)},

	// colloquial idioms
	{regexp.MustCompile(`muy\s*seguido`), fixed(15)},
	{regexp.MustCompile(`seguido`), fixed(30)},
	{regexp.MustCompile(`frecuente`), fixed(30)},
	{regexp.MustCompile(`constantemente`), fixed(15)},
	{regexp.MustCompile(`todo\s*el\s*tiempo`), fixed(10)},
	{regexp.MustCompile(`siempre`), fixed(30)},

	// times per day
	{regexp.MustCompile(`dos\s*veces\s*(?:por\s*)?(?:al\s*)?día`), fixed(12 * 60)},
	{regexp.MustCompile(`tres\s*veces\s*(?:por\s*)?(?:al\s*)?día`), fixed(8 * 60)},
	{regexp.MustCompile(`cuatro\s*veces\s*(?:por\s*)?(?:al\s*)?día`), fixed(6 * 60)},
	{regexp.MustCompile(`seis\s*veces\s*(?:por\s*)?(?:al\s*)?día`), fixed(4 * 60)},
	{regexp.MustCompile(`una\s*vez\s*(?:por\s*)?(?:al\s*)?día`), fixed(24 * 60)},

	// spelled-out hour multiples
	{regexp.MustCompile(`cada\s*dos\s*h(?:ora)?s?`), fixed(2 * 60)},
	{regexp.MustCompile(`cada\s*tres\s*h(?:ora)?s?`), fixed(3 * 60)},
	{regexp.MustCompile(`cada\s*cuatro\s*h(?:ora)?s?`), fixed(4 * 60)},
	{regexp.MustCompile(`cada\s*cinco\s*h(?:ora)?s?`), fixed(5 * 60)},
	{regexp.MustCompile(`cada\s*seis\s*h(?:ora)?s?`), fixed(6 * 60)},

	// loose everyday phrasing
	{regexp.MustCompile(`a\s*cada\s*rato`), fixed(30)},
	{regexp.MustCompile(`de\s*vez\s*en\s*cuando`), fixed(2 * 60)},
	{regexp.MustCompile(`regularmente`), fixed(60)},
	{regexp.MustCompile(`periódicamente`), fixed(60)},
}

// DefaultIntervalMinutes is returned when no frequency pattern matches.
// Absence of a recognizable frequency never blocks reminder creation.
const DefaultIntervalMinutes = 60

// Frequency extracts a recurrence interval in minutes from text.
// ok is false when the text is a time-of-day expression that should be
// handed to Times instead; in every other case a positive interval is
// returned, defaulting to DefaultIntervalMinutes.
func Frequency(text string) (minutes float64, ok bool) {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, re := range timeOfDayExpressions {
		if re.MatchString(lower) {
			return 0, false
		}
	}

	for _, p := range frequencyPatterns {
		if match := p.re.FindStringSubmatch(lower); match != nil {
			return p.minutes(match), true
		}
	}
	return DefaultIntervalMinutes, true
}
