package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/phenikaa/helpdesk/internal/model"
)

// UserRepo provides raw-SQL access to the `user` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,password,admin,manager,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Admin, &u.Manager, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user with both role flags off and returns its ID.
// The password must already be hashed by the caller. Duplicate-key
// violations are mapped onto the sentinel errors so callers can tell
// a username conflict from an email conflict.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO user (username, email, password) VALUES (?,?,?)",
		username, email, passwordHash)
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			if strings.Contains(msg, "email") {
				return 0, ErrEmailExists
			}
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM user WHERE username=? LIMIT 1", username))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM user WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM user WHERE id=? LIMIT 1", id))
}

// ListAll returns every user ordered by id. Used by the admin user
// management page; the table is small by construction.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM user ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Admin, &u.Manager, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetManager grants the manager flag. Idempotent; updating a missing
// id affects zero rows and is not an error.
func (r *UserRepo) SetManager(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE user SET manager=1 WHERE id=?", id)
	return err
}

// SetAdmin grants the admin flag. Same contract as SetManager.
func (r *UserRepo) SetAdmin(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE user SET admin=1 WHERE id=?", id)
	return err
}
