package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// User maps to the usuario table.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"nome" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// PasswordReset is a single-use password reset token.
type PasswordReset struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// UserRepository is the persistence interface for accounts and reset tokens.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	CreateReset(ctx context.Context, r *PasswordReset) error
	GetReset(ctx context.Context, token string) (*PasswordReset, error)
	ConsumeReset(ctx context.Context, token string) error
}

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository {
	return &userRepoPG{pool: pool}
}

const userCols = `id, nome, email, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return &u, err
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO usuario (id, nome, email, password_hash)
		VALUES ($1,$2,$3,$4)`,
		u.ID, u.Name, u.Email, u.PasswordHash)
	return err
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM usuario WHERE lower(email) = lower($1)`, email))
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM usuario WHERE id = $1`, id))
}

func (r *userRepoPG) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE usuario SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
	return err
}

func (r *userRepoPG) CreateReset(ctx context.Context, reset *PasswordReset) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO password_reset (token, usuario_id, expires_at)
		VALUES ($1,$2,$3)`,
		reset.Token, reset.UserID, reset.ExpiresAt)
	return err
}

func (r *userRepoPG) GetReset(ctx context.Context, token string) (*PasswordReset, error) {
	var reset PasswordReset
	err := r.pool.QueryRow(ctx, `
		SELECT token, usuario_id, expires_at, used_at
		FROM password_reset WHERE token = $1`, token).
		Scan(&reset.Token, &reset.UserID, &reset.ExpiresAt, &reset.UsedAt)
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *userRepoPG) ConsumeReset(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE password_reset SET used_at = NOW() WHERE token = $1`, token)
	return err
}
