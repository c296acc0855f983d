package repository

import (
	"context"

	"studyseat/internal/domain/user"
	"studyseat/internal/infra"
	"studyseat/internal/infra/db"

	"github.com/google/uuid"
)

type UserRepository struct {
	db db.DBTX
}

func NewUserRepository(dbtx db.DBTX) *UserRepository {
	return &UserRepository{db: dbtx}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	const query = `
		INSERT INTO users (id, username, password_hash, role)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query,
		u.ID(), u.Username().Value(), u.PasswordHash(), u.Role().String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create user", err, infra.KindFromPgError(err))
	}
	return nil
}

func (r *UserRepository) LockByID(ctx context.Context, id uuid.UUID) error {
	const query = `SELECT 1 FROM users WHERE id = $1 FOR UPDATE`

	var one int
	if err := r.db.QueryRow(ctx, query, id).Scan(&one); err != nil {
		if infra.IsNoRows(err) {
			return infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to lock user", err)
	}
	return nil
}
