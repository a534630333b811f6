package bot

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/epigenmx/noa/internal/config"
	"github.com/epigenmx/noa/internal/knowledge"
	myopenai "github.com/epigenmx/noa/internal/openai"
	"github.com/epigenmx/noa/internal/parse"
	"github.com/epigenmx/noa/internal/scheduler"
	"github.com/epigenmx/noa/internal/store"
)

// Messenger delivers a WhatsApp message to a user. Delivery is a single
// attempt; the caller logs failures and never retries.
type Messenger interface {
	SendWhatsAppMessage(to, body string) error
}

// Responder produces a conversational reply from the chat history.
type Responder interface {
	Respond(ctx context.Context, turns []myopenai.Turn) (string, error)
}

// RetryPolicy wraps the conversational path only; reminder delivery and
// lifecycle operations are never retried.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy mirrors the production setting of three attempts
// one second apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: time.Second}
}

// Bot routes inbound WhatsApp messages to commands, reminder lifecycle
// operations, or the conversational responder.
type Bot struct {
	cfg       *config.Config
	store     *store.Store
	scheduler *scheduler.Scheduler
	responder Responder
	messenger Messenger
	retry     RetryPolicy
	rng       *rand.Rand
	logger    *log.Logger
}

// New creates a fully configured Bot instance.
func New(cfg *config.Config, st *store.Store, sched *scheduler.Scheduler, responder Responder, messenger Messenger, logger *log.Logger) *Bot {
	return &Bot{
		cfg:       cfg,
		store:     st,
		scheduler: sched,
		responder: responder,
		messenger: messenger,
		retry:     DefaultRetryPolicy(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:    logger,
	}
}

// Handler returns the HTTP handler for incoming Twilio messages.
func (b *Bot) Handler() http.HandlerFunc {
	return b.handleIncomingMessage
}

// handleIncomingMessage processes Twilio webhook POST requests.
func (b *Bot) handleIncomingMessage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		b.logger.Printf("webhook: parse error: %v", err)
		b.writeTwilioResponse(w, "Lo siento, no pude entender ese mensaje. Inténtalo de nuevo.")
		return
	}

	from := r.FormValue("From")
	body := strings.TrimSpace(r.FormValue("Body"))
	if from == "" || body == "" {
		b.writeTwilioResponse(w, "Necesito un mensaje para poder ayudarte. Escríbeme algo. 😊")
		return
	}

	userKey := sanitizeWhatsAppNumber(from)

	hadChat, err := b.store.HasChat(userKey)
	if err != nil {
		b.logger.Printf("webhook: chat lookup for %s: %v", userKey, err)
		hadChat = true
	}
	if err := b.store.AppendChatMessage(userKey, "user", body); err != nil {
		b.logger.Printf("webhook: append user message: %v", err)
	}

	// First contact still routes the message: "recuérdame..." as an
	// opener creates the reminder, with the welcome prepended. The
	// combined reply lands in history so the responder sees the welcome.
	reply := b.Process(r.Context(), userKey, body)
	if !hadChat {
		reply = knowledge.WelcomeMessage + "\n\n" + reply
	}

	if err := b.store.AppendChatMessage(userKey, "assistant", reply); err != nil {
		b.logger.Printf("webhook: append assistant message: %v", err)
	}
	b.writeTwilioResponse(w, reply)
}

// Process routes one inbound message and always returns a reply string.
// Branches are tried in a fixed priority order; the first applicable one
// wins.
func (b *Bot) Process(ctx context.Context, userKey, body string) string {
	trimmed := strings.TrimSpace(body)
	lower := strings.ToLower(trimmed)

	if strings.HasPrefix(trimmed, "/") {
		return b.handleCommand(userKey, trimmed)
	}
	if parse.IsQuery(lower) {
		return b.listReminders(userKey)
	}
	if id, ok := parse.RemovalID(lower); ok {
		return b.removeReminder(userKey, uint(id))
	}
	if mod, ok := parse.ParseModification(lower); ok {
		return b.modifyReminder(userKey, mod)
	}
	// Questions about supplements or products go to the responder, not
	// to reminder creation, unless the user literally says "recuérda-".
	if (parse.IsInformationRequest(lower) || parse.IsProductRequest(lower)) &&
		!strings.Contains(lower, "recuerd") {
		return b.converse(ctx, userKey)
	}
	if req, ok := parse.ParseRequest(trimmed, b.rng); ok {
		return b.createFromRequest(userKey, req)
	}
	return b.converse(ctx, userKey)
}

// converse asks the responder for a reply over the recent chat history,
// retrying transient failures per the retry policy. It always returns a
// user-facing string.
func (b *Bot) converse(ctx context.Context, userKey string) string {
	history, err := b.store.RecentChat(userKey, b.cfg.ChatHistoryLimit)
	if err != nil {
		b.logger.Printf("converse: history for %s: %v", userKey, err)
	}
	turns := make([]myopenai.Turn, 0, len(history)+1)
	if ctxTurn, ok := b.reminderContext(userKey); ok {
		turns = append(turns, ctxTurn)
	}
	for _, msg := range history {
		turns = append(turns, myopenai.Turn{Role: msg.Role, Content: msg.Content})
	}

	attempts := b.retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		reply, err := b.responder.Respond(ctx, turns)
		if err == nil {
			return reply
		}
		if errors.Is(err, myopenai.ErrClientNotInitialised) {
			return "Por ahora no puedo responder preguntas generales, pero sí puedo manejar tus recordatorios. Escribe /ayuda para ver lo que puedo hacer. 🧬"
		}
		lastErr = err
		b.logger.Printf("converse: attempt %d/%d for %s: %v", attempt, attempts, userKey, err)
		if attempt < attempts {
			time.Sleep(b.retry.Backoff)
		}
	}
	b.logger.Printf("converse: giving up for %s: %v", userKey, lastErr)
	return "Lo siento, tuve un problema para responderte. Inténtalo de nuevo en un momento. 🙏"
}

// reminderContext summarizes the user's active reminders as a system
// turn so the responder can answer questions about them.
func (b *Bot) reminderContext(userKey string) (myopenai.Turn, bool) {
	reminders, err := b.store.ListActive(userKey)
	if err != nil {
		b.logger.Printf("reminder context for %s: %v", userKey, err)
		return myopenai.Turn{}, false
	}
	if len(reminders) == 0 {
		return myopenai.Turn{}, false
	}

	var sb strings.Builder
	sb.WriteString("Recordatorios activos del usuario:\n")
	for i := range reminders {
		r := &reminders[i]
		sb.WriteString(fmt.Sprintf("- %s: %s\n", displayName(r), schedulePhrase(r)))
	}
	return myopenai.Turn{Role: "system", Content: sb.String()}, true
}

// HealthHandler reports process liveness and the live job count.
func (b *Bot) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"status":         "ok",
			"service":        "noa",
			"scheduled_jobs": b.scheduler.Len(),
			"time":           time.Now().In(b.cfg.LocalTimezone).Format(time.RFC3339),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			b.logger.Printf("health: encode: %v", err)
		}
	}
}

func (b *Bot) writeTwilioResponse(w http.ResponseWriter, message string) {
	twiml := struct {
		XMLName xml.Name `xml:"Response"`
		Message string   `xml:"Message"`
	}{
		Message: message,
	}

	w.Header().Set("Content-Type", "application/xml")
	if err := xml.NewEncoder(w).Encode(twiml); err != nil {
		b.logger.Printf("twilio response encode: %v", err)
	}
}

func sanitizeWhatsAppNumber(from string) string {
	// Twilio prepends whatsapp: to the number.
	return strings.TrimPrefix(from, "whatsapp:")
}

// deliver sends a reminder notification. Fire-and-forget: one attempt,
// failures logged.
func (b *Bot) deliver(userKey, jobID, message string) {
	if err := b.messenger.SendWhatsAppMessage(userKey, message); err != nil {
		b.logger.Printf("deliver %s: %v", jobID, err)
	}
}
