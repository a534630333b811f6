// Package store is the persistence layer for reminders and chat
// history, a narrow API over GORM.
package store

import (
	"errors"
	"math"

	"github.com/epigenmx/noa/internal/model"
	"gorm.io/gorm"
)

// ErrReminderNotFound is returned when an id lookup matches no active
// reminder for the given user.
var ErrReminderNotFound = errors.New("reminder not found")

// Store wraps a GORM connection.
type Store struct {
	db *gorm.DB
}

// New creates a Store over an open database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// InsertReminder persists a new active reminder and fills in its id.
// Intervals are rounded to two decimal places before storage.
func (s *Store) InsertReminder(r *model.Reminder) error {
	if r.IntervalMinutes != nil {
		rounded := math.Round(*r.IntervalMinutes*100) / 100
		r.IntervalMinutes = &rounded
	}
	r.IsActive = true
	if r.Timezone == "" {
		r.Timezone = "America/Mexico_City"
	}
	return s.db.Create(r).Error
}

// ListActive returns a user's active reminders, oldest first.
func (s *Store) ListActive(userKey string) ([]model.Reminder, error) {
	var reminders []model.Reminder
	err := s.db.Where("user_key = ? AND is_active = ?", userKey, true).
		Order("created_at ASC, id ASC").
		Find(&reminders).Error
	return reminders, err
}

// ListAllActive returns every active reminder across all users, used to
// rebuild the job set at boot.
func (s *Store) ListAllActive() ([]model.Reminder, error) {
	var reminders []model.Reminder
	err := s.db.Where("is_active = ?", true).
		Order("id ASC").
		Find(&reminders).Error
	return reminders, err
}

// Deactivate soft-deletes the reminder with the given id, scoped to
// userKey so an id belonging to another user is never touched. The
// deactivated row is returned so the caller can cancel its job.
func (s *Store) Deactivate(userKey string, id uint) (*model.Reminder, error) {
	var reminder model.Reminder
	err := s.db.Where("user_key = ? AND id = ? AND is_active = ?", userKey, id, true).
		First(&reminder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReminderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&reminder).Update("is_active", false).Error; err != nil {
		return nil, err
	}
	reminder.IsActive = false
	return &reminder, nil
}

// DeactivateAll soft-deletes every active reminder the user owns and
// returns the affected rows.
func (s *Store) DeactivateAll(userKey string) ([]model.Reminder, error) {
	reminders, err := s.ListActive(userKey)
	if err != nil {
		return nil, err
	}
	if len(reminders) == 0 {
		return nil, nil
	}

	err = s.db.Model(&model.Reminder{}).
		Where("user_key = ? AND is_active = ?", userKey, true).
		Update("is_active", false).Error
	if err != nil {
		return nil, err
	}
	for i := range reminders {
		reminders[i].IsActive = false
	}
	return reminders, nil
}

// AppendChatMessage stores one conversation turn.
func (s *Store) AppendChatMessage(userKey, role, content string) error {
	msg := &model.ChatMessage{
		UserKey: userKey,
		Role:    role,
		Content: content,
	}
	return s.db.Create(msg).Error
}

// RecentChat returns the user's most recent turns in chronological
// order, at most limit of them.
func (s *Store) RecentChat(userKey string, limit int) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := s.db.Where("user_key = ?", userKey).
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// HasChat reports whether the user has any stored history.
func (s *Store) HasChat(userKey string) (bool, error) {
	var count int64
	err := s.db.Model(&model.ChatMessage{}).
		Where("user_key = ?", userKey).
		Count(&count).Error
	return count > 0, err
}
