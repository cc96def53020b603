package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"travelhub/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,username,email,first_name,last_name,password_hash,role,created_at,updated_at`

func (r *UserRepo) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.one(ctx, `SELECT `+userCols+` FROM users WHERE LOWER(username)=LOWER(?)`, username)
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	return r.one(ctx, `SELECT `+userCols+` FROM users WHERE id=?`, id)
}

func (r *UserRepo) one(ctx context.Context, q string, arg any) (*domain.User, error) {
	var u domain.User
	if err := r.DB.GetContext(ctx, &u, q, arg); err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Create inserts u; a taken username or email surfaces as ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO users(`+userCols+`)
		VALUES(:id,:username,:email,:first_name,:last_name,:password_hash,:role,:created_at,:updated_at)`, u)
	if err != nil {
		return fmt.Errorf("insert user: %w", classify(err))
	}
	return nil
}
