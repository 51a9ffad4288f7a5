package store

import (
	"database/sql"
	"fmt"

	"github.com/campushub/campushub/internal/model"
)

type BudgetStore struct {
	db *sql.DB
}

func NewBudgetStore(db *sql.DB) *BudgetStore {
	return &BudgetStore{db: db}
}

func scanExpense(scanner interface{ Scan(...any) error }) (*model.BudgetExpense, error) {
	var e model.BudgetExpense
	err := scanner.Scan(&e.ID, &e.Description, &e.Amount, &e.Category, &e.UserID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const expenseCols = `id, description, amount, category, user_id, created_at`

func (s *BudgetStore) Create(description string, amount float64, category string, userID int64) (*model.BudgetExpense, error) {
	result, err := s.db.Exec(
		`INSERT INTO budget_expenses (description, amount, category, user_id) VALUES (?, ?, ?, ?)`,
		description, amount, category, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+expenseCols+` FROM budget_expenses WHERE id = ?`, id)
	return scanExpense(row)
}

// ListByUser returns the caller's expenses newest first. Expenses are
// strictly per-user; there is no cross-user or admin listing.
func (s *BudgetStore) ListByUser(userID int64) ([]model.BudgetExpense, error) {
	rows, err := s.db.Query(
		`SELECT `+expenseCols+` FROM budget_expenses WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.BudgetExpense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

func (s *BudgetStore) Delete(id, userID int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM budget_expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
