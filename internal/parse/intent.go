package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var supplementInfoKeywords = []string{
	"recomienda", "información", "información sobre", "beneficios",
	"efectos", "sirve", "funciona", "mejor", "bueno para",
	"ayuda con", "es bueno", "puedo tomar", "debo tomar",
	"que suplemento", "que me recomiendas", "que tomar para",
}

var infoRequestPatterns = []*regexp.Regexp{
	// direct questions about supplements and health
	regexp.MustCompile(`que (?:puedo )?(?:debo )?tomar para`),
	regexp.MustCompile(`que (?:me )?recomiendas`),
	regexp.MustCompile(`recomiendame`),
	regexp.MustCompile(`(?:que|cuales) (?:son|hay|existen) (?:los|las)? ?(?:mejores|buenos)`),
	regexp.MustCompile(`(?:que|cual) es (?:bueno|mejor|recomendable)`),
	regexp.MustCompile(`(?:donde|como) (?:puedo|debo|tengo que)`),
	regexp.MustCompile(`beneficios de`),
	regexp.MustCompile(`ventajas de`),
	regexp.MustCompile(`efectos de`),
	regexp.MustCompile(`(?:opciones|alternativas) de`),

	// health-specific phrasings
	regexp.MustCompile(`(?:que|como) (?:puedo|debo) (?:hacer|tomar) para`),
	regexp.MustCompile(`(?:que|como) (?:me )?ayuda con`),
	regexp.MustCompile(`(?:que|cual) es (?:bueno|mejor|recomendable) para`),
	regexp.MustCompile(`que puedo tomar\??$`),
	regexp.MustCompile(`para que sirve`),
	regexp.MustCompile(`como funciona`),
	regexp.MustCompile(`efectos secundarios`),

	// product and test questions
	regexp.MustCompile(`test (?:de|para)`),
	regexp.MustCompile(`prueba (?:de|para)`),
	regexp.MustCompile(`(?:que|cuales) (?:son|hay|existen) (?:los|las)? ?(?:test|pruebas)`),
	regexp.MustCompile(`(?:cuanto|precio|costo) (?:cuesta|vale|es)`),
	regexp.MustCompile(`donde (?:compro|consigo|adquiero)`),

	// generic informational openers
	regexp.MustCompile(`me\s*siento`),
	regexp.MustCompile(`tengo\s*(?:problemas|dificultades|síntomas)`),
	regexp.MustCompile(`suplementos?\s*(?:para|de)\s*`),
	regexp.MustCompile(`que\s*suplemento`),
	regexp.MustCompile(`suplementos?$`),
	regexp.MustCompile(`^(?:que|quien|cuando|donde|como|por que|porque|cual|cuales|cuanto|cuanta)`),
	regexp.MustCompile(`me puedes (?:explicar|decir|contar|informar)`),
	regexp.MustCompile(`informacion (?:sobre|acerca|de)`),
	regexp.MustCompile(`datos (?:sobre|acerca|de)`),
}

// IsInformationRequest reports whether the text reads as a question to
// answer rather than a reminder to configure.
func IsInformationRequest(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))

	if containsAny(lower, supplementInfoKeywords...) {
		return true
	}
	for _, re := range infoRequestPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

var productSupplementKeywords = []string{
	"magnesio", "glicinato", "zinc", "vitamina", "omega", "d3", "c", "b12",
	"ashwagandha", "probiotico", "probiótico", "melatonina", "hierro", "calcio",
	"selenio", "valeriana", "complejo b", "curcuma", "cúrcuma", "proteína", "proteina",
	"colágeno", "colageno", "biotina", "creatina", "bcaa", "glutamina", "antioxidante",
}

var epigenProductKeywords = []string{
	"test", "prueba", "análisis", "analisis", "epigenético", "epigenetico",
	"diabetes", "intestino", "inflamación", "inflamacion", "peso", "corazón", "corazon",
}

var productQueryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:donde|como) (?:compro|consigo|adquiero)`),
	regexp.MustCompile(`(?:me )?recomiendas`),
	regexp.MustCompile(`(?:que|cual) es (?:mejor|bueno|recomendable)`),
	regexp.MustCompile(`(?:opciones|alternativas) de`),
	regexp.MustCompile(`donde (?:hay|venden|consigo)`),
	regexp.MustCompile(`(?:puedo|debo) tomar`),
	regexp.MustCompile(`(?:para que|que) (?:sirve|es bueno)`),
	regexp.MustCompile(`beneficios de`),
	regexp.MustCompile(`efectos de`),
	regexp.MustCompile(`información (?:sobre|de)`),
	regexp.MustCompile(`más (?:información|detalles) (?:sobre|de)`),
}

// IsProductRequest reports whether the text asks about a specific
// supplement or Epigen product: a recognized product keyword has to
// co-occur with a purchase or benefit question.
func IsProductRequest(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))

	hasProduct := false
	words := strings.Fields(lower)
	for _, kw := range productSupplementKeywords {
		if len(kw) <= 3 {
			for _, w := range words {
				if strings.Trim(w, ".,;:!?¿¡") == kw {
					hasProduct = true
				}
			}
			continue
		}
		if strings.Contains(lower, kw) {
			hasProduct = true
		}
	}
	if !hasProduct {
		hasProduct = containsAny(lower, epigenProductKeywords...)
	}
	if !hasProduct {
		return false
	}

	for _, re := range productQueryPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// primaryReminderKeywords are the trigger verbs that make a message a
// reminder request. secondaryReminderKeywords alone never qualify: they
// show up constantly in casual conversation.
var primaryReminderKeywords = []string{
	"recordar", "recordatorio", "avisar", "notificar", "programar",
	"recordarme", "recuérdame", "avísame", "notifícame", "programa",
}

var secondaryReminderKeywords = []string{
	"agua", "tomar", "dormir", "meditar", "ejercicio",
}

// ContainsReminderKeywords reports whether the text carries a primary
// reminder trigger word.
func ContainsReminderKeywords(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))

	if containsAny(lower, primaryReminderKeywords...) {
		return true
	}
	return false
}

var explicitReminderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`recuérda(?:me)?`),
	regexp.MustCompile(`recordar\s+(?:tomar|que|me)`),
	regexp.MustCompile(`(?:quiero|necesito)\s+(?:un\s+)?recordatorio`),
	regexp.MustCompile(`(?:configura|crea|programa|establece)(?:me)?\s+(?:un\s+)?recordatorio`),
	regexp.MustCompile(`(?:quiero|necesito)\s+que\s+me\s+recuerdes`),
	regexp.MustCompile(`ayuda(?:me)?\s+a\s+recordar`),
	regexp.MustCompile(`recordatorio\s+(?:de|para)`),
	regexp.MustCompile(`av[ií]sa(?:me)?\s+(?:cuando|que)`),

	// command prefixes count as explicit
	regexp.MustCompile(`^/recordar`),
	regexp.MustCompile(`^/agua`),
	regexp.MustCompile(`^/dormir`),
	regexp.MustCompile(`^/meditar`),

	// natural but unambiguous phrasings
	regexp.MustCompile(`que\s+(?:me\s+)?recuerdes\s+(?:tomar|que)`),
	regexp.MustCompile(`recordar(?:me)?\s+(?:de\s+)?tomar`),
	regexp.MustCompile(`no\s+(?:se\s+me\s+)?olvide\s+(?:tomar|de)`),
	regexp.MustCompile(`para\s+no\s+olvidar(?:me)?\s+(?:de\s+)?tomar`),
}

var tomarWithTiming = regexp.MustCompile(`tomar\s+.*\s+(?:cada|a\s+las|por\s+la|en\s+la)`)

// IsExplicitReminderRequest is the gate in front of reminder creation:
// only a dedicated trigger phrase, or "tomar X" combined with timing
// vocabulary, turns text into a creation request. Incidental mentions
// of water or sleep in conversation stay conversation.
func IsExplicitReminderRequest(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, re := range explicitReminderPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return tomarWithTiming.MatchString(lower)
}

var queryPatterns = []*regexp.Regexp{
	// direct questions
	regexp.MustCompile(`que\s*recordatorios?\s*tengo`),
	regexp.MustCompile(`cuales?\s*son\s*mis\s*recordatorios?`),
	regexp.MustCompile(`mis\s*recordatorios?`),
	regexp.MustCompile(`ver\s*recordatorios?`),
	regexp.MustCompile(`recordatorios?\s*activos?`),
	regexp.MustCompile(`tengo\s*recordatorios?`),
	regexp.MustCompile(`cuantos?\s*recordatorios?`),
	regexp.MustCompile(`lista\s*de\s*recordatorios?`),

	// natural variations
	regexp.MustCompile(`que\s*(?:me\s*)?(?:estas\s*)?recordando`),
	regexp.MustCompile(`de\s*que\s*(?:me\s*)?(?:tienes\s*que\s*)?recordar`),
	regexp.MustCompile(`que\s*(?:tienes\s*)?(?:programado|configurado)`),
	regexp.MustCompile(`mostrar\s*recordatorios?`),
	regexp.MustCompile(`enseñar\s*recordatorios?`),
	regexp.MustCompile(`dime\s*(?:que\s*)?recordatorios?`),
	regexp.MustCompile(`cuales?\s*recordatorios?`),

	// interrogative word anywhere before "recordatorios"
	regexp.MustCompile(`(?:que|cuales?|cuantos?)\s*.*recordatorios?`),
	regexp.MustCompile(`recordatorios?\s*(?:que\s*)?(?:tengo|hay|existen)`),

	// very casual forms
	regexp.MustCompile(`recordatorios?\?`),
	regexp.MustCompile(`que\s*hay\s*programado`),
	regexp.MustCompile(`que\s*tienes\s*para\s*mi`),
	regexp.MustCompile(`que\s*me\s*vas\s*a\s*recordar`),

	// common typos
	regexp.MustCompile(`recordatroios?`),
	regexp.MustCompile(`recrodatorios?`),
	regexp.MustCompile(`recordarios?`),
}

// IsQuery reports whether the text asks to see existing reminders.
func IsQuery(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, re := range queryPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

var removalPatterns = []*regexp.Regexp{
	// by id
	regexp.MustCompile(`(?:elimina|borra|quita|remueve|cancela|detén|detene|para|parar)\s+(?:el\s+)?recordatorio\s+(?:con\s+)?(?:id\s+|#)?(\d+)`),
	regexp.MustCompile(`(?:eliminar|borrar|quitar|remover|cancelar|detener|parar)\s+(?:el\s+)?recordatorio\s+(?:con\s+)?(?:id\s+|#)?(\d+)`),
	regexp.MustCompile(`(?:ya\s+)?no\s+(?:me\s+)?recuerdes\s+(?:el\s+)?(?:recordatorio\s+)?(?:con\s+)?(?:id\s+|#)?(\d+)`),
	regexp.MustCompile(`recordatorio\s+(?:con\s+)?(?:id\s+|#)?(\d+)\s+(?:eliminalo|borralo|quitalo|cancelalo)`),

	// by list position
	regexp.MustCompile(`(?:elimina|borra|quita|remueve|cancela|detén|detene|para|parar)\s+(?:el\s+)?recordatorio\s+(?:número\s+|#)?(\d+)`),
	regexp.MustCompile(`(?:eliminar|borrar|quitar|remover|cancelar|detener|parar)\s+(?:el\s+)?recordatorio\s+(?:número\s+|#)?(\d+)`),

	// bare number after the verb
	regexp.MustCompile(`(?:elimina|borra|quita|remueve|cancela|detén|detene|para|parar|eliminar|borrar|quitar|remover|cancelar|detener|parar)\s+(?:el\s+)?(\d+)`),
	regexp.MustCompile(`(?:elimina|borra|quita|remueve|cancela|detén|detene|para|parar|eliminar|borrar|quitar|remover|cancelar|detener|parar)\s+recordatorio\s+(\d+)`),
}

// RemovalID extracts the reminder id from a natural-language deletion
// request ("borra el recordatorio 7").
func RemovalID(text string) (int, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, re := range removalPatterns {
		if match := re.FindStringSubmatch(lower); match != nil {
			id, err := strconv.Atoi(match[1])
			if err == nil {
				return id, true
			}
		}
	}
	return 0, false
}

// Modification is a request to change an existing reminder's schedule.
// NewSchedule is empty when the user named a reminder but no new
// timing; the caller should ask a follow-up instead of mutating state.
type Modification struct {
	Target      string
	NewSchedule string
}

var modificationPatterns = []*regexp.Regexp{
	// change by name
	regexp.MustCompile(`(?:cambia|modifica|actualiza|cambiame|modificame)\s+(?:mi\s+)?recordatorio\s+(?:de\s+)?([a-záéíóúüñ\s]+?)(?:\s+(?:a|cada|por)\s+(.+))?$`),
	// change by id
	regexp.MustCompile(`(?:cambia|modifica|actualiza)\s+(?:el\s+)?recordatorio\s+(?:con\s+)?(?:id\s+|#)?(\d+)(?:\s+(?:a|cada|por)\s+(.+))?$`),
	// change the time specifically
	regexp.MustCompile(`(?:cambia|modifica)\s+(?:la\s+)?hora\s+(?:del\s+)?recordatorio\s+(?:de\s+)?([a-záéíóúüñ\s]+?)(?:\s+(?:a\s+las\s+|a\s+)(.+))?$`),
	// more natural word order
	regexp.MustCompile(`recordatorio\s+(?:de\s+)?([a-záéíóúüñ\s]+?)\s+(?:ahora\s+)?(?:a\s+las\s+|cada\s+|por\s+)(.+)$`),
	// direct modification
	regexp.MustCompile(`(?:quiero\s+)?(?:cambiar|modificar)\s+([a-záéíóúüñ\s]+?)(?:\s+(?:a|cada|por)\s+(.+))?$`),
}

// notModificationTargets are captures that name grammar, not reminders.
var notModificationTargets = map[string]bool{
	"mi": true, "el": true, "la": true, "recordatorio": true,
	"hora": true, "frecuencia": true,
}

// ParseModification detects "cambia mi recordatorio de X a Y" requests.
func ParseModification(text string) (Modification, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, re := range modificationPatterns {
		match := re.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		target := strings.TrimSpace(match[1])
		if notModificationTargets[target] {
			continue
		}
		m := Modification{Target: target}
		if len(match) > 2 {
			m.NewSchedule = strings.TrimSpace(match[2])
		}
		return m, true
	}
	return Modification{}, false
}
