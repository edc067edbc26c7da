package mysqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/repository"
)

type userRepo struct{ db *sql.DB }

// Create inserts a user.  Duplicate emails (MySQL error 1062) map to
// ErrDuplicate.
func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	u.ID = uuid.NewString()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, uid, name, email, profile_picture, role, created_at) VALUES (?,?,?,?,?,?,?)",
		u.ID, u.UID, u.Name, u.Email, u.ProfilePicture, u.Role, u.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id,uid,name,email,profile_picture,role,created_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.UID, &u.Name, &u.Email, &u.ProfilePicture, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,uid,name,email,profile_picture,role,created_at FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.User, 0)
	for rows.Next() {
		u := new(model.User)
		if err := rows.Scan(&u.ID, &u.UID, &u.Name, &u.Email, &u.ProfilePicture, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
