package model

import (
	"fmt"
	"time"
)

// Reminder is a persisted notification request owned by a WhatsApp user.
// Exactly one of IntervalMinutes or the CronHour/CronMinute pair is set:
// interval reminders fire every N minutes, cron reminders once a day.
type Reminder struct {
	ID              uint   `gorm:"primaryKey"`
	UserKey         string `gorm:"index;not null"`
	ReminderType    string `gorm:"not null"`
	Message         string `gorm:"type:text;not null"`
	Nickname        string
	DisplayName     string
	IntervalMinutes *float64
	CronHour        *int
	CronMinute      *int
	Timezone        string    `gorm:"default:America/Mexico_City"`
	IsActive        bool      `gorm:"index"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

// JobID is the scheduler key for this reminder. One active row maps to at
// most one live job under this exact key.
func (r *Reminder) JobID() string {
	return fmt.Sprintf("%s_%s_%d", r.ReminderType, r.UserKey, r.ID)
}

// IsInterval reports whether the reminder recurs on a fixed interval
// rather than at a daily clock time.
func (r *Reminder) IsInterval() bool {
	return r.IntervalMinutes != nil
}

// CronTime returns the stored daily trigger as "HH:MM". Only meaningful
// when IsInterval is false.
func (r *Reminder) CronTime() string {
	if r.CronHour == nil || r.CronMinute == nil {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", *r.CronHour, *r.CronMinute)
}

// ChatMessage is one turn of a user's conversation history.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"`
	UserKey   string    `gorm:"index;not null"`
	Role      string    `gorm:"not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
