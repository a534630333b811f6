package parse

import (
	"math/rand"
	"strings"
)

// Request is a fully parsed reminder-creation intent: a category, the
// notification text, a display name, and either an interval or a set of
// clock times.
type Request struct {
	Type            string
	Message         string
	DisplayName     string
	SupplementName  string
	IntervalMinutes float64
	HasInterval     bool
	Times           []string
}

// Notification texts per category.
const (
	waterMessage      = "💧 ¡Es hora de tomar agua! Mantente hidratado para tu salud."
	sleepMessage      = "😴 Es hora de prepararte para dormir. Un buen descanso es clave para tu salud."
	meditationMessage = "🧘 Momento de meditar. Tómate unos minutos para conectar con tu respiración."
	exerciseMessage   = "🏃 ¡Es hora de moverte! Un poco de ejercicio mejorará tu día."
	mealMessage       = "🍽️ ¡Es hora de alimentarte! Recuerda comer de forma balanceada."
	appointmentMsg    = "📅 Recordatorio de tu cita."
	customMessage     = "🔔 Recordatorio personalizado"
)

// SupplementMessage builds the notification text for a supplement
// reminder with the given name.
func SupplementMessage(name string) string {
	return "💊 Es hora de tomar tu " + name
}

// ParseRequest interprets text as an explicit reminder-creation request.
// It returns false when the text is an informational question or lacks
// an explicit reminder trigger; such messages belong to the
// conversational path, never to reminder creation.
func ParseRequest(text string, rng *rand.Rand) (Request, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))

	// Questions route to the knowledge responder, unless the user
	// literally says some form of "recuérdame".
	if IsInformationRequest(lower) && !strings.Contains(lower, "recuerd") {
		return Request{}, false
	}
	if !IsExplicitReminderRequest(lower) {
		return Request{}, false
	}

	// Strip inverted punctuation before pattern extraction.
	clean := strings.NewReplacer("¿", "", "¡", "").Replace(lower)

	req := Request{
		Type:            DetectType(clean),
		IntervalMinutes: DefaultIntervalMinutes,
		HasInterval:     true,
	}

	switch req.Type {
	case TypeWater:
		// Hydration is always interval-based.
		req.Message = waterMessage
		if minutes, ok := Frequency(clean); ok {
			req.IntervalMinutes = minutes
		}
		req.DisplayName = GenerateName(rng, TypeWater, "")

	case TypeSleep:
		// Sleep happens at a clock time, never on an interval.
		req.Message = sleepMessage
		req.setTimes(Times(clean))
		req.DisplayName = GenerateName(rng, TypeSleep, "")

	case TypeMeditation:
		req.Message = meditationMessage
		req.applySchedule(clean)
		req.DisplayName = GenerateName(rng, TypeMeditation, "")

	case TypeExercise:
		req.Message = exerciseMessage
		req.applySchedule(clean)
		req.DisplayName = GenerateName(rng, TypeExercise, "")

	case TypeSupplement:
		name, found := ExtractSupplement(clean)
		if !found {
			name = "suplemento"
			req.DisplayName = "Recordatorio de Suplemento"
		} else {
			req.SupplementName = name
			req.DisplayName = "Recordatorio de " + name
		}
		req.Message = SupplementMessage(name)
		req.applySchedule(clean)

	case TypeMeal:
		req.Message = mealMessage
		req.setTimes([]string{"08:00", "13:00", "19:00"})
		req.DisplayName = GenerateName(rng, TypeMeal, "")

	case TypeAppointment:
		req.Message = appointmentMsg
		req.setTimes(Times(clean))
		req.DisplayName = GenerateName(rng, TypeAppointment, "")

	default:
		req.Message = customMessage
		req.applySchedule(clean)
		req.DisplayName = GenerateName(rng, TypeCustom, "")
	}

	return req, true
}

// applySchedule decides between an interval and clock times: a
// time-of-day expression switches the request to specific times.
func (r *Request) applySchedule(clean string) {
	minutes, ok := Frequency(clean)
	if !ok {
		r.setTimes(Times(clean))
		return
	}
	r.IntervalMinutes = minutes
	r.HasInterval = true
	r.Times = nil
}

func (r *Request) setTimes(times []string) {
	r.Times = times
	r.HasInterval = false
	r.IntervalMinutes = 0
}
