package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"maa.plus/backend-next/internal/model"
	"maa.plus/backend-next/internal/pkg/maaerr"
	"maa.plus/backend-next/internal/repo/selector"
)

type User struct {
	db  *bun.DB
	sel selector.S[model.User]
}

func NewUser(db *bun.DB) *User {
	return &User{
		db:  db,
		sel: selector.New[model.User](db),
	}
}

// CreateUser inserts the user and backfills its generated user_id. A unique
// violation on the email column surfaces as maaerr.ErrAlreadyExists.
func (r *User) CreateUser(ctx context.Context, user *model.User) error {
	_, err := r.db.NewInsert().
		Model(user).
		Returning("user_id").
		Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return maaerr.ErrAlreadyExists.Msg("user already exists")
		}
		return err
	}
	return nil
}

func (r *User) GetUserByID(ctx context.Context, userID int) (*model.User, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("user_id = ?", userID)
	})
}

func (r *User) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("email = ?", email)
	})
}

func (r *User) UpdateUser(ctx context.Context, user *model.User) error {
	_, err := r.db.NewUpdate().
		Model(user).
		WherePK().
		Exec(ctx)
	return err
}
