package repo

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"maa.plus/backend-next/internal/constant"
	"maa.plus/backend-next/internal/model"
	"maa.plus/backend-next/internal/model/types"
	"maa.plus/backend-next/internal/repo/selector"
)

type Copilot struct {
	db  *bun.DB
	sel selector.S[model.Copilot]
}

func NewCopilot(db *bun.DB) *Copilot {
	return &Copilot{
		db:  db,
		sel: selector.New[model.Copilot](db),
	}
}

func (r *Copilot) CreateCopilot(ctx context.Context, copilot *model.Copilot) error {
	_, err := r.db.NewInsert().
		Model(copilot).
		Returning("copilot_id").
		Exec(ctx)
	return err
}

func (r *Copilot) GetCopilotByID(ctx context.Context, copilotID int) (*model.Copilot, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Relation("Uploader").
			Where("copilot.copilot_id = ?", copilotID).
			Where("copilot.deleted = ?", false)
	})
}

func (r *Copilot) UpdateCopilot(ctx context.Context, copilot *model.Copilot) error {
	_, err := r.db.NewUpdate().
		Model(copilot).
		WherePK().
		Exec(ctx)
	return err
}

// DeleteCopilot tombstones the copilot; rows are never physically removed
// so that rating references stay resolvable.
func (r *Copilot) DeleteCopilot(ctx context.Context, copilotID int) error {
	_, err := r.db.NewUpdate().
		Model((*model.Copilot)(nil)).
		Set("deleted = ?", true).
		Where("copilot_id = ?", copilotID).
		Exec(ctx)
	return err
}

func (r *Copilot) IncViews(ctx context.Context, copilotID int) error {
	_, err := r.db.NewUpdate().
		Model((*model.Copilot)(nil)).
		Set("views = views + 1").
		Where("copilot_id = ?", copilotID).
		Exec(ctx)
	return err
}

func (r *Copilot) UpdateRatingCounters(ctx context.Context, copilotID int, likeCount, hotScore int64) error {
	_, err := r.db.NewUpdate().
		Model((*model.Copilot)(nil)).
		Set("like_count = ?", likeCount).
		Set("hot_score = ?", hotScore).
		Where("copilot_id = ?", copilotID).
		Exec(ctx)
	return err
}

// QueryCopilots returns one page of copilots matching the filters, along with
// the total match count for pagination.
func (r *Copilot) QueryCopilots(ctx context.Context, req *types.CopilotQueryReq) ([]*model.Copilot, int64, error) {
	q := r.db.NewSelect().
		Model((*model.Copilot)(nil)).
		Relation("Uploader").
		Where("copilot.deleted = ?", false)

	if req.LevelKeyword != "" {
		keyword := "%" + strings.ToLower(req.LevelKeyword) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereOr("LOWER(copilot.stage_id) LIKE ?", keyword).
				WhereOr("LOWER(copilot.title) LIKE ?", keyword)
		})
	}
	if req.Operator != "" {
		q = q.Where("? = ANY(copilot.operators)", req.Operator)
	}
	if req.Uploader != "" {
		q = q.Where("uploader.user_name = ?", req.Uploader)
	}

	order := "DESC"
	if !req.Desc {
		order = "ASC"
	}
	switch req.OrderBy {
	case constant.CopilotOrderByViews:
		q = q.OrderExpr("copilot.views " + order)
	case constant.CopilotOrderByHot:
		q = q.OrderExpr("copilot.hot_score " + order)
	default:
		q = q.OrderExpr("copilot.upload_time " + order)
	}

	var copilots []*model.Copilot
	total, err := q.
		Limit(req.Limit).
		Offset((req.Page - 1) * req.Limit).
		ScanAndCount(ctx, &copilots)
	if err != nil {
		return nil, 0, err
	}

	return copilots, int64(total), nil
}
