package bot

import (
	"strconv"
	"strings"

	"github.com/epigenmx/noa/internal/parse"
)

// handleCommand dispatches slash commands. Commands bypass all natural
// language parsing; unknown commands get a fixed response.
func (b *Bot) handleCommand(userKey, text string) string {
	fields := strings.Fields(text)
	command := strings.ToLower(fields[0])

	switch command {
	case "/ayuda", "/help":
		return helpResponse()

	case "/mis_recordatorios":
		return b.listReminders(userKey)

	case "/borrar":
		if len(fields) < 2 {
			return "Indícame el número del recordatorio, por ejemplo: /borrar 3"
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil || id < 1 {
			return "El id debe ser un número, por ejemplo: /borrar 3"
		}
		return b.removeReminder(userKey, uint(id))

	case "/borrar_todo":
		return b.removeAllReminders(userKey)

	case "/recordar":
		return b.commandSupplementReminder(userKey, fields[1:])

	case "/agua":
		return b.createFromRequest(userKey, parse.Request{
			Type:            parse.TypeWater,
			Message:         "💧 ¡Es hora de tomar agua! Mantente hidratado para tu salud.",
			DisplayName:     "Hidratación",
			IntervalMinutes: 60,
			HasInterval:     true,
		})

	case "/dormir":
		return b.createFromRequest(userKey, parse.Request{
			Type:        parse.TypeSleep,
			Message:     "😴 Es hora de prepararte para dormir. Un buen descanso es clave para tu salud.",
			DisplayName: "Hora de Dormir",
			Times:       []string{"22:00"},
		})

	case "/meditar":
		return b.createFromRequest(userKey, parse.Request{
			Type:        parse.TypeMeditation,
			Message:     "🧘 Momento de meditar. Tómate unos minutos para conectar con tu respiración.",
			DisplayName: "Meditación Matutina",
			Times:       []string{"08:00"},
		})

	case "/ejercicio":
		return b.createFromRequest(userKey, parse.Request{
			Type:        parse.TypeExercise,
			Message:     "🏃 ¡Es hora de moverte! Un poco de ejercicio mejorará tu día.",
			DisplayName: "Ejercicio Diario",
			Times:       []string{"17:00"},
		})

	default:
		return "Comando no reconocido. Escribe /ayuda para ver los comandos disponibles."
	}
}

// commandSupplementReminder handles "/recordar suplemento <name> <schedule...>".
func (b *Bot) commandSupplementReminder(userKey string, args []string) string {
	if len(args) < 2 || strings.ToLower(args[0]) != "suplemento" {
		return "Uso: /recordar suplemento <nombre> <horario>\nEjemplo: /recordar suplemento magnesio cada 8 horas"
	}

	name := titleCase(args[1])
	schedule := strings.ToLower(strings.Join(args[2:], " "))

	req := parse.Request{
		Type:           parse.TypeSupplement,
		Message:        parse.SupplementMessage(name),
		DisplayName:    "Recordatorio de " + name,
		SupplementName: name,
	}
	if minutes, ok := parse.Frequency(schedule); ok {
		req.IntervalMinutes = minutes
		req.HasInterval = true
	} else {
		req.Times = parse.Times(schedule)
	}
	return b.createFromRequest(userKey, req)
}

func titleCase(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return word
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

func helpResponse() string {
	return strings.Join([]string{
		"🧬 *Noa — comandos disponibles:*",
		"/ayuda — esta ayuda",
		"/recordar suplemento <nombre> <horario> — recordatorio de suplemento",
		"/borrar <id> — borra un recordatorio",
		"/borrar_todo — borra todos tus recordatorios",
		"/mis_recordatorios — lista tus recordatorios",
		"/agua — agua cada 60 minutos",
		"/dormir — dormir todos los días a las 22:00",
		"/meditar — meditación diaria a las 08:00",
		"/ejercicio — ejercicio diario a las 17:00",
		"",
		"También me puedes escribir directo: \"recuérdame tomar magnesio cada 8 horas\".",
	}, "\n")
}
