package model

import "time"

type Job struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	JobType   string    `json:"job_type"`
	Location  string    `json:"location"`
	Skills    string    `json:"skills"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
