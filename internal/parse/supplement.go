package parse

import (
	"regexp"
	"strings"
	"unicode"
)

// supplementCapturePatterns are tried in order against the lower-cased
// text; within a pattern the first acceptable capture wins.
var supplementCapturePatterns = []*regexp.Regexp{
	// possessive "mi X", the most common phrasing
	regexp.MustCompile(`(?i)mi\s+([a-záéíóúüñ]{3,}(?:\s+[a-záéíóúüñ]{3,})?)`),
	// "tomar [el/la/mi] X"
	regexp.MustCompile(`(?i)tomar\s+(?:el\s+|la\s+|mi\s+)?([a-záéíóúüñ]{4,}(?:\s+[a-záéíóúüñ]{4,})?)`),
	// "suplemento/vitamina/pastilla de X"
	regexp.MustCompile(`(?i)(?:suplemento|vitamina|pastilla)\s+(?:de\s+)?([a-záéíóúüñ]{4,}(?:\s+[a-záéíóúüñ]{4,})?)`),
	// "X suplemento/vitamina/pastilla"
	regexp.MustCompile(`(?i)([a-záéíóúüñ]{4,}(?:\s+[a-záéíóúüñ]{4,})?)\s+(?:suplemento|vitamina|pastilla)`),
}

var knownSupplements = []string{
	"magnesio", "glicinato", "vitamina", "omega", "calcio", "hierro", "zinc", "selenio",
	"b12", "d3", "c", "biotina", "colageno", "colágeno", "probiotico", "probiótico",
	"melatonina", "ashwagandha", "curcuma", "cúrcuma", "jengibre", "ajo", "proteina",
	"proteína", "creatina", "bcaa", "glutamina", "vitaminac", "vitamind", "vitaminab",
	"multivitaminico", "multivitamínico", "complejo",
}

// supplementStopWords are captures that are grammar, timing vocabulary
// or generic nouns, never a supplement name.
var supplementStopWords = map[string]bool{
	"agua": true, "que": true, "me": true, "de": true, "el": true, "la": true,
	"mi": true, "mis": true, "un": true, "una": true,
	"recordar": true, "tomar": true, "beber": true, "hora": true, "horas": true,
	"minuto": true, "minutos": true,
	"dia": true, "día": true, "noche": true, "mañana": true, "tarde": true,
	"vez": true, "veces": true, "tiempo": true,
	"antes": true, "después": true, "despues": true, "durante": true,
	"cuando": true, "donde": true, "como": true, "cómo": true, "para": true,
	"por": true, "con": true, "sin": true, "cada": true,
	"las": true, "los": true, "suplemento": true, "pastilla": true,
	"medicina": true, "medicamento": true,
	"a": true, "y": true, "o": true, "pero": true, "si": true, "no": true,
	"del": true, "al": true,
}

// ExtractSupplement pulls a supplement name out of free text.
// The returned name is title-cased; found is false when nothing
// acceptable was captured and the text does not even say "mi
// suplemento" (which falls back to the generic "Suplemento").
func ExtractSupplement(text string) (name string, found bool) {
	for _, re := range supplementCapturePatterns {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			candidate := trimStopWords(strings.ToLower(strings.TrimSpace(match[1])))
			if acceptSupplement(candidate) {
				return titleWords(candidate), true
			}
		}
	}

	if strings.Contains(strings.ToLower(text), "mi suplemento") {
		return "Suplemento", true
	}
	return "", false
}

// trimStopWords drops trailing stop words from a multi-word capture, so
// "magnesio cada" reduces to "magnesio".
func trimStopWords(candidate string) string {
	words := strings.Fields(candidate)
	for len(words) > 1 && supplementStopWords[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

func acceptSupplement(candidate string) bool {
	if len([]rune(candidate)) < 3 || supplementStopWords[candidate] {
		return false
	}
	for _, r := range candidate {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}

	compact := strings.ReplaceAll(candidate, " ", "")
	for _, known := range knownSupplements {
		if len(known) <= 3 {
			if compact == known {
				return true
			}
			continue
		}
		if strings.Contains(compact, known) {
			return true
		}
	}
	return len([]rune(candidate)) >= 4
}

// titleWords capitalizes the first letter of each word.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
