package store

import (
	"database/sql"
	"fmt"

	"github.com/campushub/campushub/internal/model"
)

type JobStore struct {
	db *sql.DB
}

func NewJobStore(db *sql.DB) *JobStore {
	return &JobStore{db: db}
}

func scanJob(scanner interface{ Scan(...any) error }) (*model.Job, error) {
	var j model.Job
	err := scanner.Scan(&j.ID, &j.Title, &j.Company, &j.JobType, &j.Location, &j.Skills, &j.UserID, &j.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

const jobCols = `id, title, company, job_type, location, skills, user_id, created_at`

// JobFilters narrows the job listing. JobType "all" or empty means no
// type filter; Skills matches as a case-insensitive substring.
type JobFilters struct {
	JobType string
	Skills  string
}

func (s *JobStore) Create(title, company, jobType, location, skills string, userID int64) (*model.Job, error) {
	result, err := s.db.Exec(
		`INSERT INTO jobs (title, company, job_type, location, skills, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		title, company, jobType, location, skills, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *JobStore) GetByID(id int64) (*model.Job, error) {
	row := s.db.QueryRow(`SELECT `+jobCols+` FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

func (s *JobStore) List(filters JobFilters) ([]model.Job, error) {
	query := `SELECT ` + jobCols + ` FROM jobs`
	var args []any
	var where []string

	if filters.JobType != "" && filters.JobType != "all" {
		where = append(where, `job_type = ?`)
		args = append(args, filters.JobType)
	}
	if filters.Skills != "" {
		where = append(where, `skills LIKE ? COLLATE NOCASE`)
		args = append(args, "%"+filters.Skills+"%")
	}
	for i, cond := range where {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func (s *JobStore) Update(id int64, title, company, jobType, location, skills string, userID int64, asAdmin bool) (*model.Job, error) {
	query := `UPDATE jobs SET title = ?, company = ?, job_type = ?, location = ?, skills = ? WHERE id = ?`
	args := []any{title, company, jobType, location, skills, id}
	if !asAdmin {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}

	result, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}
	return s.GetByID(id)
}

func (s *JobStore) Delete(id, userID int64, asAdmin bool) (bool, error) {
	query := `DELETE FROM jobs WHERE id = ?`
	args := []any{id}
	if !asAdmin {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}

	result, err := s.db.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("delete job: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

