package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/epigenmx/noa/internal/model"
	"github.com/epigenmx/noa/internal/parse"
	"github.com/epigenmx/noa/internal/scheduler"
	"github.com/epigenmx/noa/internal/store"
)

// createFromRequest persists and schedules a parsed reminder request.
// Interval requests create one row; multi-time requests create one row
// per time, each processed independently so a single bad time never
// sinks the batch.
func (b *Bot) createFromRequest(userKey string, req parse.Request) string {
	if req.HasInterval {
		return b.createInterval(userKey, req)
	}
	return b.createDaily(userKey, req)
}

func (b *Bot) createInterval(userKey string, req parse.Request) string {
	if req.IntervalMinutes < scheduler.MinIntervalMinutes {
		return "⚠️ El intervalo mínimo es de 1 segundo. Prueba con una frecuencia mayor, por ejemplo \"cada 30 minutos\"."
	}

	interval := req.IntervalMinutes
	row := &model.Reminder{
		UserKey:         userKey,
		ReminderType:    req.Type,
		Message:         req.Message,
		DisplayName:     req.DisplayName,
		IntervalMinutes: &interval,
		Timezone:        b.cfg.LocalTimezone.String(),
	}
	if err := b.store.InsertReminder(row); err != nil {
		b.logger.Printf("create interval reminder for %s: %v", userKey, err)
		return "No pude guardar tu recordatorio. Inténtalo de nuevo en un momento. 🙏"
	}

	jobID := row.JobID()
	message := row.Message
	if err := b.scheduler.ScheduleInterval(jobID, *row.IntervalMinutes, func() {
		b.deliver(userKey, jobID, message)
	}); err != nil {
		// Row stays active; the boot rebuild picks it up later.
		b.logger.Printf("schedule %s: %v", jobID, err)
	}

	return fmt.Sprintf("%s ¡Listo! Creé tu recordatorio *%s* (id %d), %s.",
		parse.Emoji(req.Type), req.DisplayName, row.ID, parse.FormatInterval(*row.IntervalMinutes))
}

func (b *Bot) createDaily(userKey string, req parse.Request) string {
	var lines []string
	var invalid []string
	created := 0

	for _, t := range req.Times {
		if !parse.ValidTime(t) {
			b.logger.Printf("create daily reminder for %s: invalid time %q", userKey, t)
			invalid = append(invalid, t)
			continue
		}
		hour, minute, _ := parse.SplitTime(t)

		label := req.DisplayName
		if len(req.Times) > 1 {
			label = fmt.Sprintf("%s (%s)", req.DisplayName, t)
		}
		h, m := hour, minute
		row := &model.Reminder{
			UserKey:      userKey,
			ReminderType: req.Type,
			Message:      req.Message,
			DisplayName:  label,
			CronHour:     &h,
			CronMinute:   &m,
			Timezone:     b.cfg.LocalTimezone.String(),
		}
		if err := b.store.InsertReminder(row); err != nil {
			b.logger.Printf("create daily reminder for %s at %s: %v", userKey, t, err)
			continue
		}

		jobID := row.JobID()
		message := row.Message
		if err := b.scheduler.ScheduleDaily(jobID, hour, minute, func() {
			b.deliver(userKey, jobID, message)
		}); err != nil {
			b.logger.Printf("schedule %s: %v", jobID, err)
		}

		created++
		lines = append(lines, fmt.Sprintf("• *%s* (id %d) todos los días a las %s", label, row.ID, t))
	}

	if created == 0 {
		if len(invalid) > 0 {
			return fmt.Sprintf("⚠️ \"%s\" no es una hora válida. Usa el formato HH:MM, entre 00:00 y 23:59.", invalid[0])
		}
		return "No pude crear tu recordatorio. Inténtalo de nuevo en un momento. 🙏"
	}
	if created == 1 {
		return fmt.Sprintf("%s ¡Listo! Creé tu recordatorio %s.", parse.Emoji(req.Type), strings.TrimPrefix(lines[0], "• "))
	}
	return fmt.Sprintf("%s ¡Listo! Creé %d recordatorios:\n%s", parse.Emoji(req.Type), created, strings.Join(lines, "\n"))
}

// listReminders renders the user's active reminders grouped by type.
func (b *Bot) listReminders(userKey string) string {
	reminders, err := b.store.ListActive(userKey)
	if err != nil {
		b.logger.Printf("list reminders for %s: %v", userKey, err)
		return "No pude consultar tus recordatorios. Inténtalo de nuevo en un momento. 🙏"
	}
	if len(reminders) == 0 {
		return "No tienes recordatorios activos. Dime qué quieres recordar o escribe /ayuda. ✨"
	}

	grouped := make(map[string][]model.Reminder)
	var order []string
	for _, r := range reminders {
		if _, seen := grouped[r.ReminderType]; !seen {
			order = append(order, r.ReminderType)
		}
		grouped[r.ReminderType] = append(grouped[r.ReminderType], r)
	}

	var sb strings.Builder
	sb.WriteString("📋 *Tus recordatorios activos:*\n")
	for _, reminderType := range order {
		sb.WriteString(fmt.Sprintf("\n%s *%s*\n", parse.Emoji(reminderType), parse.TypeLabel(reminderType)))
		for _, r := range grouped[reminderType] {
			sb.WriteString(fmt.Sprintf("  %d. %s — %s\n", r.ID, displayName(&r), schedulePhrase(&r)))
		}
	}
	sb.WriteString("\nPara borrar uno: /borrar <id>")
	return sb.String()
}

// displayName resolves the friendliest available label for a reminder.
func displayName(r *model.Reminder) string {
	if strings.TrimSpace(r.Nickname) != "" {
		return r.Nickname
	}
	if strings.TrimSpace(r.DisplayName) != "" {
		return r.DisplayName
	}
	return parse.TypeLabel(r.ReminderType)
}

// schedulePhrase renders when a reminder fires.
func schedulePhrase(r *model.Reminder) string {
	if r.IsInterval() {
		return parse.FormatInterval(*r.IntervalMinutes)
	}
	return "todos los días a las " + r.CronTime()
}

// removeReminder soft-deletes one reminder and cancels its job.
func (b *Bot) removeReminder(userKey string, id uint) string {
	row, err := b.store.Deactivate(userKey, id)
	if errors.Is(err, store.ErrReminderNotFound) {
		return fmt.Sprintf("No encontré un recordatorio con el id %d. Escribe /mis_recordatorios para ver los tuyos.", id)
	}
	if err != nil {
		b.logger.Printf("remove reminder %d for %s: %v", id, userKey, err)
		return "No pude borrar el recordatorio. Inténtalo de nuevo en un momento. 🙏"
	}

	b.scheduler.Cancel(row.JobID())
	return fmt.Sprintf("🗑️ Eliminé tu recordatorio *%s* (id %d).", displayName(row), row.ID)
}

// removeAllReminders deactivates every reminder the user owns.
func (b *Bot) removeAllReminders(userKey string) string {
	rows, err := b.store.DeactivateAll(userKey)
	if err != nil {
		b.logger.Printf("remove all reminders for %s: %v", userKey, err)
		return "No pude borrar tus recordatorios. Inténtalo de nuevo en un momento. 🙏"
	}
	if len(rows) == 0 {
		return "No tienes recordatorios activos que borrar. ✨"
	}
	for i := range rows {
		b.scheduler.Cancel(rows[i].JobID())
	}
	return fmt.Sprintf("🗑️ Eliminé tus %d recordatorios.", len(rows))
}

// modifyReminder resolves the target reminder and recreates it under a
// fresh id with the new schedule. Never an in-place mutation: the create
// path is the only place that reconciles store writes with jobs.
func (b *Bot) modifyReminder(userKey string, mod parse.Modification) string {
	reminders, err := b.store.ListActive(userKey)
	if err != nil {
		b.logger.Printf("modify reminder for %s: %v", userKey, err)
		return "No pude consultar tus recordatorios. Inténtalo de nuevo en un momento. 🙏"
	}

	target := resolveTarget(reminders, mod.Target)
	if target == nil {
		return fmt.Sprintf("No encontré un recordatorio de \"%s\". Escribe /mis_recordatorios para ver los tuyos.", mod.Target)
	}

	if strings.TrimSpace(mod.NewSchedule) == "" {
		return fmt.Sprintf("¿Cómo quieres que quede tu recordatorio *%s*? Dime por ejemplo \"cada 2 horas\" o \"a las 8 am\".", displayName(target))
	}

	row, err := b.store.Deactivate(userKey, target.ID)
	if err != nil {
		b.logger.Printf("modify reminder %d for %s: %v", target.ID, userKey, err)
		return "No pude actualizar el recordatorio. Inténtalo de nuevo en un momento. 🙏"
	}
	b.scheduler.Cancel(row.JobID())

	req := parse.Request{
		Type:        row.ReminderType,
		Message:     row.Message,
		DisplayName: displayName(row),
	}
	if minutes, ok := parse.Frequency(mod.NewSchedule); ok {
		req.IntervalMinutes = minutes
		req.HasInterval = true
	} else {
		req.Times = parse.Times(mod.NewSchedule)
	}

	return "🔄 " + b.createFromRequest(userKey, req)
}

// resolveTarget matches a modification target against the user's active
// reminders: numeric id first, then nickname/display-name substring,
// then exact type. First match wins.
func resolveTarget(reminders []model.Reminder, target string) *model.Reminder {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		return nil
	}

	if id, err := strconv.Atoi(target); err == nil {
		for i := range reminders {
			if reminders[i].ID == uint(id) {
				return &reminders[i]
			}
		}
		return nil
	}

	for i := range reminders {
		r := &reminders[i]
		if strings.Contains(strings.ToLower(r.Nickname), target) {
			return r
		}
		if strings.Contains(strings.ToLower(r.DisplayName), target) {
			return r
		}
	}
	for i := range reminders {
		r := &reminders[i]
		if target == r.ReminderType || target == strings.ToLower(parse.TypeLabel(r.ReminderType)) {
			return r
		}
	}
	return nil
}

// RescheduleOnBoot rebuilds the job registry from the store. Per-row
// failures are logged and skipped so one bad row never blocks recovery.
func (b *Bot) RescheduleOnBoot() (int, error) {
	reminders, err := b.store.ListAllActive()
	if err != nil {
		return 0, fmt.Errorf("load active reminders: %w", err)
	}

	count := 0
	for i := range reminders {
		r := reminders[i]
		jobID := r.JobID()
		userKey := r.UserKey
		message := r.Message
		fire := func() { b.deliver(userKey, jobID, message) }

		var scheduleErr error
		if r.IsInterval() {
			scheduleErr = b.scheduler.ScheduleInterval(jobID, *r.IntervalMinutes, fire)
		} else if r.CronHour != nil && r.CronMinute != nil {
			scheduleErr = b.scheduler.ScheduleDaily(jobID, *r.CronHour, *r.CronMinute, fire)
		} else {
			scheduleErr = fmt.Errorf("reminder %d has neither interval nor daily trigger", r.ID)
		}
		if scheduleErr != nil {
			b.logger.Printf("reschedule %s: %v", jobID, scheduleErr)
			continue
		}
		count++
	}

	b.logger.Printf("rescheduled %d reminder job(s) on boot", count)
	return count, nil
}
