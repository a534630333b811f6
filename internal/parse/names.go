package parse

import (
	"math/rand"
	"strings"
)

// Emojis decorates each reminder category in outgoing messages.
var Emojis = map[string]string{
	TypeWater:       "💧",
	TypeSupplement:  "💊",
	TypeSleep:       "😴",
	TypeMeditation:  "🧘",
	TypeExercise:    "🏃",
	TypeAppointment: "📅",
	TypeMedicine:    "🩺",
	TypeMeal:        "🍽️",
	TypeCustom:      "🔔",
}

// Emoji returns the icon for a reminder type, falling back to the
// custom bell.
func Emoji(reminderType string) string {
	if e, ok := Emojis[reminderType]; ok {
		return e
	}
	return Emojis[TypeCustom]
}

// TypeLabel is the friendly Spanish default shown when a reminder has
// no nickname or display name.
func TypeLabel(reminderType string) string {
	switch reminderType {
	case TypeWater:
		return "Agua"
	case TypeSupplement:
		return "Suplemento"
	case TypeSleep:
		return "Sueño"
	case TypeMeditation:
		return "Meditación"
	case TypeExercise:
		return "Ejercicio"
	case TypeAppointment:
		return "Cita"
	case TypeMedicine:
		return "Medicina"
	case TypeMeal:
		return "Comida"
	case TypeCustom:
		return "Recordatorio"
	}
	if reminderType == "" {
		return "Recordatorio"
	}
	return titleWords(strings.ToLower(reminderType))
}

var nameAdjectives = []string{
	"Diario", "Saludable", "Vital", "Esencial", "Importante",
	"Regular", "Renovador", "Personal", "Favorito", "Óptimo",
}

var nameNouns = map[string][]string{
	TypeWater:       {"Agua", "Hidratación", "Líquido"},
	TypeSupplement:  {"Vitamina", "Suplemento", "Nutriente"},
	TypeSleep:       {"Descanso", "Sueño", "Reposo"},
	TypeMeditation:  {"Meditación", "Calma", "Relajación"},
	TypeExercise:    {"Ejercicio", "Movimiento", "Actividad"},
	TypeAppointment: {"Cita", "Compromiso", "Evento"},
	TypeMedicine:    {"Medicina", "Tratamiento", "Remedio"},
	TypeMeal:        {"Comida", "Alimentación", "Nutrición"},
	TypeCustom:      {"Recordatorio", "Aviso", "Notificación"},
}

// GenerateName builds a friendly adjective+noun display name for a new
// reminder. The random source is injected so callers can make the
// choice deterministic.
func GenerateName(rng *rand.Rand, reminderType, supplementName string) string {
	adjective := nameAdjectives[rng.Intn(len(nameAdjectives))]

	if reminderType == TypeSupplement && supplementName != "" {
		return adjective + " " + supplementName
	}

	nouns, ok := nameNouns[reminderType]
	if !ok {
		nouns = nameNouns[TypeCustom]
	}
	return adjective + " " + nouns[rng.Intn(len(nouns))]
}
