package model

import "time"

type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Organizer   string    `json:"organizer"`
	EventDate   time.Time `json:"event_date"`
	Location    string    `json:"location"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}
