package model

import "time"

// Feedback is insert-only and may be submitted anonymously, in which
// case UserID is nil.
type Feedback struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	UserID    *int64    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
