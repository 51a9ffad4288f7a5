package model

import "time"

// Budget expense categories.
const (
	CategoryFood   = "food"
	CategorySchool = "school"
	CategoryOther  = "other"
)

type BudgetExpense struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}
