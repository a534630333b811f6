package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type timeKind int

const (
	kindAMPMWithMinutes timeKind = iota
	kindAMPMOnly
	kind24Hour
	kindALas
	kindMorning
	kindNoon
	kindAfternoon
	kindNight
	kindDinner
	kindNightHour
	kindMorningHour
)

type timePattern struct {
	re   *regexp.Regexp
	kind timeKind
}

// timePatterns is ordered most-specific first. Each match consumes its
// span of the text so "8:30 pm" yields only "20:30" and never a second
// reading of the bare "8:30".
var timePatterns = []timePattern{
	{regexp.MustCompile(`(\d{1,2})\s*:\s*(\d{2})\s*(am|pm)`), kindAMPMWithMinutes},
	{regexp.MustCompile(`(\d{1,2})\s*(am|pm)`), kindAMPMOnly},
	{regexp.MustCompile(`(\d{1,2}):(\d{2})`), kind24Hour},
	// Hour-qualified period forms must run before the bare "a las N" and
	// named-period patterns: those would consume the hour or the period
	// word and leave "a las 8 de la noche" read as 08:00.
	{regexp.MustCompile(`(?:a\s*las\s*)?(\d{1,2})\s*de\s*la\s*noche`), kindNightHour},
	{regexp.MustCompile(`(?:a\s*las\s*)?(\d{1,2})\s*de\s*la\s*mañana`), kindMorningHour},
	{regexp.MustCompile(`a\s*las\s*(\d{1,2}):?(\d{2})?`), kindALas},
	{regexp.MustCompile(`mañana|desayun|por\s*la\s*mañana|en\s*la\s*mañana`), kindMorning},
	{regexp.MustCompile(`mediodía|medio\s*día|almuerz|comer|comida`), kindNoon},
	{regexp.MustCompile(`tarde|por\s*la\s*tarde|en\s*la\s*tarde`), kindAfternoon},
	{regexp.MustCompile(`(?:cada\s+)?noche|por\s*la\s*noche|en\s*la\s*noche|antes\s*de\s*dormir|antes\s*de\s*acostar`), kindNight},
	{regexp.MustCompile(`cenar|cena`), kindDinner},
}

// convert12To24 renders a 12-hour clock reading as "HH:MM".
// PM adds 12 except for 12pm itself; 12am becomes hour zero.
func convert12To24(hour, minute int, period string) string {
	if period == "pm" && hour != 12 {
		hour += 12
	} else if period == "am" && hour == 12 {
		hour = 0
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// Times extracts every clock time mentioned in text as normalized
// "HH:MM" strings, de-duplicated in order of appearance. The result is
// never empty: with no explicit time the contextual default is 22:00
// for night phrasing, 08:00 for morning phrasing, and the 08:00/20:00
// pair otherwise.
func Times(text string) []string {
	lower := strings.ToLower(strings.TrimSpace(text))
	working := []byte(lower)

	var found []string
	add := func(t string) {
		for _, existing := range found {
			if existing == t {
				return
			}
		}
		found = append(found, t)
	}

	for _, p := range timePatterns {
		for _, loc := range p.re.FindAllSubmatchIndex(working, -1) {
			group := func(i int) string {
				if 2*i+1 >= len(loc) || loc[2*i] < 0 {
					return ""
				}
				return string(working[loc[2*i]:loc[2*i+1]])
			}

			var result string
			switch p.kind {
			case kindAMPMWithMinutes:
				h, _ := strconv.Atoi(group(1))
				m, _ := strconv.Atoi(group(2))
				result = convert12To24(h, m, group(3))
			case kindAMPMOnly:
				h, _ := strconv.Atoi(group(1))
				result = convert12To24(h, 0, group(2))
			case kind24Hour:
				h, _ := strconv.Atoi(group(1))
				m, _ := strconv.Atoi(group(2))
				result = fmt.Sprintf("%02d:%02d", h, m)
			case kindALas:
				h, _ := strconv.Atoi(group(1))
				m := 0
				if g := group(2); g != "" {
					m, _ = strconv.Atoi(g)
				}
				result = fmt.Sprintf("%02d:%02d", h, m)
			case kindMorning:
				result = "08:00"
			case kindNoon:
				result = "12:00"
			case kindAfternoon:
				result = "15:00"
			case kindNight:
				result = "22:00"
			case kindDinner:
				result = "20:00"
			case kindNightHour:
				h, _ := strconv.Atoi(group(1))
				if h < 12 {
					h += 12
				}
				result = fmt.Sprintf("%02d:00", h)
			case kindMorningHour:
				h, _ := strconv.Atoi(group(1))
				result = fmt.Sprintf("%02d:00", h)
			}

			add(result)
			for i := loc[0]; i < loc[1]; i++ {
				working[i] = ' '
			}
		}
	}

	if len(found) == 0 {
		switch {
		case containsAny(lower, "noche", "dormir", "acostar"):
			found = []string{"22:00"}
		case containsAny(lower, "mañana", "desayun"):
			found = []string{"08:00"}
		default:
			found = []string{"08:00", "20:00"}
		}
	}
	return found
}

// ValidTime reports whether s is a well-formed "HH:MM" clock time.
func ValidTime(s string) bool {
	h, m, ok := SplitTime(s)
	return ok && h >= 0 && h <= 23 && m >= 0 && m <= 59
}

// SplitTime parses "HH:MM" into its hour and minute components.
func SplitTime(s string) (hour, minute int, ok bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return h, m, true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
