package repository

import (
	"context"
	"database/sql"

	"github.com/phenikaa/helpdesk/internal/model"
)

// ExplanationRepo provides raw-SQL access to the `explanation` table.
type ExplanationRepo struct{ DB *sql.DB }

func NewExplanationRepo(db *sql.DB) *ExplanationRepo { return &ExplanationRepo{DB: db} }

const explanationColumns = "id,student_username,student_email,`class`,lock_part,reason,state,manager_username,created_at,resolved_at"

func scanExplanations(rows *sql.Rows) ([]model.Explanation, error) {
	defer rows.Close()
	var out []model.Explanation
	for rows.Next() {
		var e model.Explanation
		if err := rows.Scan(&e.ID, &e.StudentUsername, &e.StudentEmail, &e.Class, &e.LockPart,
			&e.Reason, &e.State, &e.ManagerUsername, &e.CreatedAt, &e.ResolvedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Create inserts a new pending explanation and returns it with the
// server-assigned id. State always starts as pending and
// manager_username as NULL regardless of the caller's role.
func (r *ExplanationRepo) Create(ctx context.Context, studentUsername, studentEmail, class, lockPart, reason string) (model.Explanation, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO explanation (student_username, student_email, `class`, lock_part, reason, state) VALUES (?,?,?,?,?,?)",
		studentUsername, studentEmail, class, lockPart, reason, model.StatePending)
	if err != nil {
		return model.Explanation{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Explanation{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches an explanation by id.
func (r *ExplanationRepo) GetByID(ctx context.Context, id uint64) (model.Explanation, error) {
	var e model.Explanation
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+explanationColumns+" FROM explanation WHERE id=? LIMIT 1", id).
		Scan(&e.ID, &e.StudentUsername, &e.StudentEmail, &e.Class, &e.LockPart,
			&e.Reason, &e.State, &e.ManagerUsername, &e.CreatedAt, &e.ResolvedAt)
	return e, err
}

// ListAll returns every explanation, newest first.
func (r *ExplanationRepo) ListAll(ctx context.Context) ([]model.Explanation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+explanationColumns+" FROM explanation ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	return scanExplanations(rows)
}

// ListPending returns explanations still awaiting review, oldest first
// so reviewers work through the backlog in submission order.
func (r *ExplanationRepo) ListPending(ctx context.Context) ([]model.Explanation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+explanationColumns+" FROM explanation WHERE state=? ORDER BY id", model.StatePending)
	if err != nil {
		return nil, err
	}
	return scanExplanations(rows)
}

// Resolve moves a pending explanation into the given terminal state and
// records the reviewer. The update is conditional on the row still
// being pending, so two reviewers racing on the same request cannot
// overwrite each other: the first commit wins and the second gets
// ErrAlreadyResolved. A missing id surfaces as sql.ErrNoRows.
func (r *ExplanationRepo) Resolve(ctx context.Context, id uint64, state, managerUsername string) (model.Explanation, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE explanation SET state=?, manager_username=?, resolved_at=NOW() WHERE id=? AND state=?",
		state, managerUsername, id, model.StatePending)
	if err != nil {
		return model.Explanation{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Explanation{}, err
	}
	if n == 0 {
		// Either the id does not exist or the row was resolved first.
		e, err := r.GetByID(ctx, id)
		if err != nil {
			return model.Explanation{}, err // sql.ErrNoRows for a missing id
		}
		return e, ErrAlreadyResolved
	}
	return r.GetByID(ctx, id)
}
