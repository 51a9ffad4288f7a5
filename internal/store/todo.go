package store

import (
	"database/sql"
	"fmt"

	"github.com/campushub/campushub/internal/model"
)

type TodoStore struct {
	db *sql.DB
}

func NewTodoStore(db *sql.DB) *TodoStore {
	return &TodoStore{db: db}
}

func scanTodo(scanner interface{ Scan(...any) error }) (*model.Todo, error) {
	var t model.Todo
	var completedInt int
	err := scanner.Scan(&t.ID, &t.Text, &completedInt, &t.UserID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Completed = completedInt != 0
	return &t, nil
}

const todoCols = `id, text, completed, user_id, created_at`

func (s *TodoStore) Create(text string, userID int64) (*model.Todo, error) {
	result, err := s.db.Exec(
		`INSERT INTO todos (text, user_id) VALUES (?, ?)`,
		text, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+todoCols+` FROM todos WHERE id = ?`, id)
	return scanTodo(row)
}

func (s *TodoStore) ListByUser(userID int64) ([]model.Todo, error) {
	rows, err := s.db.Query(
		`SELECT `+todoCols+` FROM todos WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, *t)
	}
	return todos, rows.Err()
}

// SetCompleted toggles completion, scoped to the owning user.
func (s *TodoStore) SetCompleted(id, userID int64, completed bool) (*model.Todo, error) {
	var completedInt int
	if completed {
		completedInt = 1
	}
	result, err := s.db.Exec(
		`UPDATE todos SET completed = ? WHERE id = ? AND user_id = ?`,
		completedInt, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}
	row := s.db.QueryRow(`SELECT `+todoCols+` FROM todos WHERE id = ?`, id)
	return scanTodo(row)
}

func (s *TodoStore) Delete(id, userID int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM todos WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete todo: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
