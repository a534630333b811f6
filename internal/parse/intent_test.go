package parse

import "testing"

func TestExplicitReminderGate(t *testing.T) {
	t.Parallel()

	positive := []string{
		"recuérdame tomar agua cada hora",
		"quiero un recordatorio de agua",
		"avísame cuando sean las 8",
		"tomar magnesio cada 8 horas",
		"no se me olvide tomar la vitamina",
	}
	negative := []string{
		"tengo agua en la cocina",
		"ayer fui a dormir tarde",
		"me gusta el ejercicio",
		"hola",
	}

	for _, input := range positive {
		if !IsExplicitReminderRequest(input) {
			t.Fatalf("IsExplicitReminderRequest(%q) = false, want true", input)
		}
	}
	for _, input := range negative {
		if IsExplicitReminderRequest(input) {
			t.Fatalf("IsExplicitReminderRequest(%q) = true, want false", input)
		}
	}
}

func TestContainsReminderKeywords(t *testing.T) {
	t.Parallel()

	if ContainsReminderKeywords("tomar agua") {
		t.Fatalf("secondary keywords alone must not qualify")
	}
	if !ContainsReminderKeywords("recuérdame algo") {
		t.Fatalf("primary trigger verb must qualify")
	}
}

func TestIsQuery(t *testing.T) {
	t.Parallel()

	positive := []string{
		"mis recordatorios",
		"que recordatorios tengo",
		"cuantos recordatorios hay",
		"ver recordatorios",
		"mis recordatroios", // common typo
	}
	for _, input := range positive {
		if !IsQuery(input) {
			t.Fatalf("IsQuery(%q) = false, want true", input)
		}
	}
	if IsQuery("recuérdame tomar agua") {
		t.Fatalf("IsQuery must not match creation requests")
	}
}

func TestRemovalID(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"borra el recordatorio 7":       7,
		"elimina el recordatorio id 12": 12,
		"cancela el 3":                  3,
		"ya no me recuerdes el 5":       5,
	}
	for input, want := range cases {
		got, ok := RemovalID(input)
		if !ok || got != want {
			t.Fatalf("RemovalID(%q) = %d, %v, want %d", input, got, ok, want)
		}
	}

	if _, ok := RemovalID("recuérdame tomar magnesio cada 2 horas"); ok {
		t.Fatalf("RemovalID must not match creation requests")
	}
}

func TestParseModification(t *testing.T) {
	t.Parallel()

	mod, ok := ParseModification("cambia mi recordatorio de agua a cada 2 horas")
	if !ok {
		t.Fatalf("expected modification match")
	}
	if mod.Target != "agua" || mod.NewSchedule != "cada 2 horas" {
		t.Fatalf("unexpected modification: %+v", mod)
	}

	mod, ok = ParseModification("cambia mi recordatorio de agua")
	if !ok {
		t.Fatalf("expected modification match without schedule")
	}
	if mod.Target != "agua" || mod.NewSchedule != "" {
		t.Fatalf("unexpected modification: %+v", mod)
	}

	if _, ok := ParseModification("hola como estas"); ok {
		t.Fatalf("plain conversation must not match modification")
	}
}

func TestInformationAndProductRequests(t *testing.T) {
	t.Parallel()

	if !IsInformationRequest("para que sirve el magnesio") {
		t.Fatalf("benefit question must be an information request")
	}
	if !IsInformationRequest("que me recomiendas para dormir") {
		t.Fatalf("recommendation question must be an information request")
	}
	if IsInformationRequest("recuérdame tomar magnesio cada 2 horas") {
		t.Fatalf("creation request must not be an information request")
	}

	if !IsProductRequest("donde compro magnesio") {
		t.Fatalf("purchase question about a supplement must be a product request")
	}
	if IsProductRequest("donde compro pan") {
		t.Fatalf("purchase question without a product keyword must not match")
	}
}
