package repo

import (
	"context"

	"github.com/uptrace/bun"

	"maa.plus/backend-next/internal/constant"
	"maa.plus/backend-next/internal/model"
	"maa.plus/backend-next/internal/repo/selector"
)

type CopilotRating struct {
	db  *bun.DB
	sel selector.S[model.CopilotRating]
}

func NewCopilotRating(db *bun.DB) *CopilotRating {
	return &CopilotRating{
		db:  db,
		sel: selector.New[model.CopilotRating](db),
	}
}

// UpsertRating records the user's rating on the copilot, overwriting any
// previous rating of the same pair.
func (r *CopilotRating) UpsertRating(ctx context.Context, rating *model.CopilotRating) error {
	_, err := r.db.NewInsert().
		Model(rating).
		On("CONFLICT (copilot_id, user_id) DO UPDATE").
		Set("rating = EXCLUDED.rating").
		Set("rated_at = EXCLUDED.rated_at").
		Exec(ctx)
	return err
}

func (r *CopilotRating) GetRating(ctx context.Context, copilotID, userID int) (*model.CopilotRating, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("copilot_id = ?", copilotID).Where("user_id = ?", userID)
	})
}

func (r *CopilotRating) CountLikes(ctx context.Context, copilotID int) (int64, error) {
	count, err := r.db.NewSelect().
		Model((*model.CopilotRating)(nil)).
		Where("copilot_id = ?", copilotID).
		Where("rating = ?", constant.RatingLike).
		Count(ctx)
	if err != nil {
		return 0, err
	}
	return int64(count), nil
}
