package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/bookmyshow/internal/model"
)

// PasswordHasher turns a plain password into an opaque salted digest.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type UserRepo struct {
	db     *sql.DB
	hasher PasswordHasher
}

func NewUserRepo(db *sql.DB, h PasswordHasher) *UserRepo { return &UserRepo{db: db, hasher: h} }

// Create hashes password and inserts a user with role "user".  A taken
// username yields ErrDuplicateUsername; the existing row is never touched.
func (r *UserRepo) Create(ctx context.Context, username, password string) error {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO users (username, password, role) VALUES (?,?,?)",
		username, hash, model.RoleUser)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateUsername
		}
		return storageErr("create user", err)
	}
	return nil
}

// FindByUsername fetches a user by exact username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	var (
		u    model.User
		role string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id,username,password,role FROM users WHERE username=? LIMIT 1",
		username).Scan(&u.ID, &u.Username, &u.PasswordHash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, storageErr("find user", err)
	}
	// An unknown role is kept as-is; login reports it after the password check.
	u.Role = model.Role(role)
	return u, nil
}
