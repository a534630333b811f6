package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/epigenmx/noa/internal/config"
	"github.com/epigenmx/noa/internal/model"
	myopenai "github.com/epigenmx/noa/internal/openai"
	"github.com/epigenmx/noa/internal/scheduler"
	"github.com/epigenmx/noa/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubResponder struct {
	reply string
	err   error
	calls int
}

func (s *stubResponder) Respond(_ context.Context, _ []myopenai.Turn) (string, error) {
	s.calls++
	return s.reply, s.err
}

type stubMessenger struct {
	sent []string
}

func (s *stubMessenger) SendWhatsAppMessage(to, body string) error {
	s.sent = append(s.sent, to+": "+body)
	return nil
}

func newTestBot(t *testing.T) (*Bot, *stubResponder, *stubMessenger) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_fk=1", name, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite memory: %v", err)
	}
	if err := db.AutoMigrate(&model.Reminder{}, &model.ChatMessage{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	logger := log.New(io.Discard, "", 0)
	responder := &stubResponder{reply: "respuesta de prueba"}
	messenger := &stubMessenger{}

	b := &Bot{
		cfg:       &config.Config{LocalTimezone: time.UTC, ChatHistoryLimit: 20},
		store:     store.New(db),
		scheduler: scheduler.New(time.UTC, logger),
		responder: responder,
		messenger: messenger,
		retry:     RetryPolicy{MaxAttempts: 2, Backoff: 0},
		rng:       rand.New(rand.NewSource(1)),
		logger:    logger,
	}
	return b, responder, messenger
}

func TestCreateSupplementReminderEndToEnd(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBot(t)

	reply := b.Process(context.Background(), "user", "recuérdame tomar magnesio cada 2 horas")
	if !containsAll(reply, []string{"Magnesio", "cada 2 horas"}) {
		t.Fatalf("confirmation missing name or interval: %q", reply)
	}

	rows, err := b.store.ListActive("user")
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	row := rows[0]
	if row.ReminderType != "supplement" || !row.IsInterval() || *row.IntervalMinutes != 120 {
		t.Fatalf("unexpected row: %+v", row)
	}
	if !b.scheduler.Has(row.JobID()) {
		t.Fatalf("no job registered under %s", row.JobID())
	}
	if b.scheduler.Len() != 1 {
		t.Fatalf("expected exactly one job, got %d", b.scheduler.Len())
	}
}

func TestMultiTimeCreation(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBot(t)

	reply := b.Process(context.Background(), "user", "recuérdame tomar magnesio a las 8 am y a las 8 pm")
	if !containsAll(reply, []string{"08:00", "20:00"}) {
		t.Fatalf("confirmation missing times: %q", reply)
	}

	rows, err := b.store.ListActive("user")
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.IsInterval() {
			t.Fatalf("expected daily trigger, got interval: %+v", row)
		}
		if !b.scheduler.Has(row.JobID()) {
			t.Fatalf("missing job %s", row.JobID())
		}
		if !strings.Contains(row.DisplayName, "("+row.CronTime()+")") {
			t.Fatalf("label %q missing time suffix", row.DisplayName)
		}
	}

	// Each row is independently removable.
	first := rows[0]
	reply = b.Process(context.Background(), "user", fmt.Sprintf("/borrar %d", first.ID))
	if !strings.Contains(reply, fmt.Sprintf("id %d", first.ID)) {
		t.Fatalf("unexpected removal reply: %q", reply)
	}
	if b.scheduler.Has(first.JobID()) {
		t.Fatalf("job %s still live after removal", first.JobID())
	}
	if !b.scheduler.Has(rows[1].JobID()) {
		t.Fatalf("sibling job %s was removed too", rows[1].JobID())
	}
}

func TestCreateRejectsInvalidTime(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBot(t)

	reply := b.Process(context.Background(), "user", "recuérdame tomar magnesio a las 30")
	if !strings.Contains(reply, "no es una hora válida") {
		t.Fatalf("out-of-range hour should be rejected: %q", reply)
	}

	rows, err := b.store.ListActive("user")
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
	if b.scheduler.Len() != 0 {
		t.Fatalf("expected no jobs, got %d", b.scheduler.Len())
	}
}

func TestCreateNightHourReadsAsPM(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBot(t)

	reply := b.Process(context.Background(), "user", "recuérdame tomar magnesio a las 8 de la noche")
	if !strings.Contains(reply, "20:00") {
		t.Fatalf("night hour should schedule 20:00: %q", reply)
	}

	rows, err := b.store.ListActive("user")
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if got := rows[0].CronTime(); got != "20:00" {
		t.Fatalf("cron time = %q, want 20:00", got)
	}
}

func TestBorrarNotFound(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBot(t)

	reply := b.Process(context.Background(), "user", "/borrar 7")
	if !strings.Contains(reply, "7") || !strings.Contains(reply, "No encontré") {
		t.Fatalf("unexpected not-found reply: %q", reply)
	}
}

func TestBorrarIsUserScoped(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBot(t)

	b.Process(context.Background(), "alice", "/agua")
	rows, _ := b.store.ListActive("alice")
	if len(rows) != 1 {
		t.Fatalf("seed failed: %v", rows)
	}

	reply := b.Process(context.Background(), "bob", fmt.Sprintf("/borrar %d", rows[0].ID))
	if !strings.Contains(reply, "No encontré") {
		t.Fatalf("cross-user removal not rejected: %q", reply)
	}
	if !b.scheduler.Has(rows[0].JobID()) {
		t.Fatalf("alice's job was cancelled by bob")
	}
}

func TestCommands(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBot(t)
	ctx := context.Background()

	if reply := b.Process(ctx, "user", "/ayuda"); !strings.Contains(reply, "/recordar suplemento") {
		t.Fatalf("help missing commands: %q", reply)
	}
	if reply := b.Process(ctx, "user", "/algo_raro"); !strings.Contains(reply, "Comando no reconocido") {
		t.Fatalf("unexpected unknown-command reply: %q", reply)
	}
	if reply := b.Process(ctx, "user", "/mis_recordatorios"); !strings.Contains(reply, "No tienes recordatorios") {
		t.Fatalf("empty list reply: %q", reply)
	}
	if reply := b.Process(ctx, "user", "/borrar"); !strings.Contains(reply, "/borrar 3") {
		t.Fatalf("missing usage hint: %q", reply)
	}

	if reply := b.Process(ctx, "user", "/agua"); !strings.Contains(reply, "cada 60 minutos") {
		t.Fatalf("water command reply: %q", reply)
	}
	if reply := b.Process(ctx, "user", "/dormir"); !strings.Contains(reply, "22:00") {
		t.Fatalf("sleep command reply: %q", reply)
	}
	if reply := b.Process(ctx, "user", "/recordar suplemento magnesio cada 8 horas"); !containsAll(reply, []string{"Magnesio", "cada 8 horas"}) {
		t.Fatalf("supplement command reply: %q", reply)
	}
	if reply := b.Process(ctx, "user", "/recordar suplemento"); !strings.Contains(reply, "Uso:") {
		t.Fatalf("missing usage for incomplete command: %q", reply)
	}

	rows, err := b.store.ListActive("user")
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected water+sleep+supplement rows, got %d", len(rows))
	}

	if reply := b.Process(ctx, "user", "/borrar_todo"); !strings.Contains(reply, "3") {
		t.Fatalf("borrar_todo reply: %q", reply)
	}
	if b.scheduler.Len() != 0 {
		t.Fatalf("jobs survive /borrar_todo: %v", b.scheduler.Jobs())
	}
}

func TestListRemindersGrouping(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBot(t)
	ctx := context.Background()

	b.Process(ctx, "user", "/agua")
	b.Process(ctx, "user", "/dormir")

	reply := b.Process(ctx, "user", "mis recordatorios")
	if !containsAll(reply, []string{"Agua", "Sueño", "cada 60 minutos", "todos los días a las 22:00", "/borrar"}) {
		t.Fatalf("unexpected list output: %q", reply)
	}
}

func TestModifyReminder(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBot(t)
	ctx := context.Background()

	b.Process(ctx, "user", "recuérdame meditar cada hora")
	rows, _ := b.store.ListActive("user")
	if len(rows) != 1 || *rows[0].IntervalMinutes != 60 {
		t.Fatalf("seed failed: %+v", rows)
	}
	oldJob := rows[0].JobID()

	// No schedule given: clarifying question, no mutation.
	reply := b.Process(ctx, "user", "cambia mi recordatorio de meditación")
	if !strings.Contains(reply, "¿Cómo quieres") {
		t.Fatalf("expected clarifying question, got %q", reply)
	}
	rows, _ = b.store.ListActive("user")
	if len(rows) != 1 || *rows[0].IntervalMinutes != 60 {
		t.Fatalf("clarifying question mutated state: %+v", rows)
	}

	reply = b.Process(ctx, "user", "cambia mi recordatorio de meditación a cada 2 horas")
	if !strings.Contains(reply, "cada 2 horas") {
		t.Fatalf("modification reply: %q", reply)
	}
	rows, _ = b.store.ListActive("user")
	if len(rows) != 1 || !rows[0].IsInterval() || *rows[0].IntervalMinutes != 120 {
		t.Fatalf("reminder not recreated with new schedule: %+v", rows)
	}
	if rows[0].JobID() == oldJob {
		t.Fatalf("expected a fresh id, got the old one")
	}
	if b.scheduler.Has(oldJob) {
		t.Fatalf("old job %s still live", oldJob)
	}
	if !b.scheduler.Has(rows[0].JobID()) {
		t.Fatalf("new job %s not registered", rows[0].JobID())
	}
}

func TestModifyUnknownTarget(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBot(t)

	reply := b.Process(context.Background(), "user", "cambia mi recordatorio de yoga a cada 2 horas")
	if !strings.Contains(reply, "No encontré") {
		t.Fatalf("unexpected reply for unknown target: %q", reply)
	}
}

func TestConversationFallback(t *testing.T) {
	t.Parallel()
	b, responder, _ := newTestBot(t)

	reply := b.Process(context.Background(), "user", "tengo agua en la cocina")
	if reply != "respuesta de prueba" {
		t.Fatalf("expected responder reply, got %q", reply)
	}
	if responder.calls != 1 {
		t.Fatalf("responder called %d times, want 1", responder.calls)
	}

	rows, _ := b.store.ListActive("user")
	if len(rows) != 0 {
		t.Fatalf("casual mention created reminders: %+v", rows)
	}
}

func TestConversationRetry(t *testing.T) {
	t.Parallel()
	b, responder, _ := newTestBot(t)
	responder.err = errors.New("temporarily unavailable")

	reply := b.Process(context.Background(), "user", "hola noa")
	if !strings.Contains(reply, "Lo siento") {
		t.Fatalf("expected apology after exhausted retries, got %q", reply)
	}
	if responder.calls != b.retry.MaxAttempts {
		t.Fatalf("responder called %d times, want %d", responder.calls, b.retry.MaxAttempts)
	}
}

func TestConversationDegradedWithoutAPIKey(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBot(t)
	b.responder = myopenai.New("")

	reply := b.Process(context.Background(), "user", "hola noa")
	if !strings.Contains(reply, "/ayuda") {
		t.Fatalf("degraded reply should point at commands: %q", reply)
	}
}

func TestRescheduleOnBoot(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBot(t)

	interval := 60.0
	hour, minute := 22, 0
	seed := []*model.Reminder{
		{UserKey: "alice", ReminderType: "water", Message: "agua", IntervalMinutes: &interval},
		{UserKey: "bob", ReminderType: "sleep", Message: "dormir", CronHour: &hour, CronMinute: &minute},
	}
	for _, r := range seed {
		if err := b.store.InsertReminder(r); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	count, err := b.RescheduleOnBoot()
	if err != nil {
		t.Fatalf("reschedule on boot: %v", err)
	}
	if count != 2 {
		t.Fatalf("rescheduled %d jobs, want 2", count)
	}
	for _, r := range seed {
		if !b.scheduler.Has(r.JobID()) {
			t.Fatalf("missing job %s after boot", r.JobID())
		}
	}
}

func TestWebhookWelcomeAndTwiML(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBot(t)

	post := func(body string) *httptest.ResponseRecorder {
		form := url.Values{}
		form.Set("From", "whatsapp:+5215550000001")
		form.Set("Body", body)
		req := httptest.NewRequest(http.MethodPost, "/twilio/webhook", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		b.Handler()(rec, req)
		return rec
	}

	// The first message gets the welcome and is still routed, so an
	// opener like this one creates the reminder right away.
	rec := post("recuérdame tomar agua cada hora")
	if got := rec.Header().Get("Content-Type"); got != "application/xml" {
		t.Fatalf("content type = %q", got)
	}
	if !containsAll(rec.Body.String(), []string{"<Response>", "Soy Noa", "cada 60 minutos"}) {
		t.Fatalf("first contact should welcome and create: %q", rec.Body.String())
	}
	if b.scheduler.Len() != 1 {
		t.Fatalf("expected one job after first contact, got %d", b.scheduler.Len())
	}

	// Second message routes without the welcome.
	rec = post("hola de nuevo")
	if !strings.Contains(rec.Body.String(), "respuesta de prueba") {
		t.Fatalf("second message not routed: %q", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "Soy Noa") {
		t.Fatalf("welcome repeated on second contact: %q", rec.Body.String())
	}

	history, err := b.store.RecentChat("+5215550000001", 10)
	if err != nil {
		t.Fatalf("recent chat: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("expected 4 stored turns, got %d", len(history))
	}
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBot(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	b.HealthHandler()(rec, req)

	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}
	if !containsAll(rec.Body.String(), []string{`"status":"ok"`, `"scheduled_jobs":0`}) {
		t.Fatalf("unexpected health payload: %q", rec.Body.String())
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
