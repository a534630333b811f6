package parse

import "strings"

// Reminder categories.
const (
	TypeWater       = "water"
	TypeSleep       = "sleep"
	TypeMeditation  = "meditation"
	TypeExercise    = "exercise"
	TypeMeal        = "meal"
	TypeAppointment = "appointment"
	TypeSupplement  = "supplement"
	TypeMedicine    = "medicine"
	TypeCustom      = "custom"
)

// typeKeywords maps each category to the colloquial substrings that
// select it. Matching is substring-based on purpose: it catches loose
// phrasing cheaply at the cost of occasional false positives on
// compound words.
var typeKeywords = []struct {
	reminderType string
	keywords     []string
}{
	{TypeWater, []string{
		"agua", "h2o", "hidrat", "beber", "bebe", "tomar agua", "toma agua",
		"líquido", "liquido", "fluido", "sed", "hidratar", "hidratarme",
	}},
	{TypeSleep, []string{
		"dormir", "sueño", "descansar", "descanso", "cama", "acostar", "acuest",
		"soñar", "hora de dormir", "ir a dormir", "ir a la cama", "hora de descansar",
	}},
	{TypeMeditation, []string{
		"meditar", "meditación", "meditacion", "mindfulness", "respirar", "respira",
		"relajar", "relaja", "calmar", "calma", "paz", "tranquil", "atencion plena",
	}},
	{TypeExercise, []string{
		"ejercicio", "entrenar", "entreno", "entrenamient", "gimnasio", "gym",
		"correr", "trotar", "caminar", "estirar", "estiramiento", "yoga", "pilates",
	}},
	{TypeMeal, []string{
		"comer", "comida", "almorzar", "almuerzo", "cenar", "cena", "desayunar",
		"desayuno", "merienda", "refrigerio", "snack", "alimento",
	}},
	{TypeAppointment, []string{
		"cita", "reunión", "reunion", "consulta", "visita", "médico", "medico",
		"doctor", "dentista", "terapia", "fisio", "trabajo", "evento",
	}},
}

var supplementKeywords = []string{
	"pastilla", "capsula", "tableta", "suplemento", "vitamina", "medicamento",
	"píldora", "medicina", "dosis", "tratamiento", "medicación", "medicacion",
	"cápsula", "remedio", "jarabe", "gotas", "inyección", "inyeccion",
}

var supplementNames = []string{
	"magnesio", "zinc", "selenio", "vitamina", "omega", "hierro", "calcio",
	"ashwagandha", "probiótico", "melatonina", "b12", "d3", "c", "biotina",
}

// DetectType classifies a reminder request into a semantic category.
// The typed categories are checked first in a fixed order; supplement
// vocabulary and known supplement names come next; everything else is
// custom.
func DetectType(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, entry := range typeKeywords {
		if containsAny(lower, entry.keywords...) {
			return entry.reminderType
		}
	}
	if containsAny(lower, supplementKeywords...) {
		return TypeSupplement
	}
	if containsSupplementName(lower) {
		return TypeSupplement
	}
	return TypeCustom
}

// containsSupplementName looks for a known supplement in the text.
// Short names like "c" or "d3" only count as standalone words,
// otherwise they would match almost any sentence.
func containsSupplementName(lower string) bool {
	words := strings.Fields(lower)
	for _, name := range supplementNames {
		if len(name) <= 3 {
			for _, w := range words {
				if strings.Trim(w, ".,;:!?¿¡") == name {
					return true
				}
			}
			continue
		}
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}
