package models

import "time"

// ReminderConfig holds the local wall-clock hour of the daily reminder.
type ReminderConfig struct {
	Hour int `json:"hour"` // 0-23
}

// Trigger is the registration of the single recurring daily alert.
type Trigger struct {
	ID        string    `json:"id"`
	Hour      int       `json:"hour"`
	Minute    int       `json:"minute"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
