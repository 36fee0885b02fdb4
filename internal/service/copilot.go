package service

import (
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"gopkg.in/guregu/null.v3"

	"maa.plus/backend-next/internal/constant"
	"maa.plus/backend-next/internal/model"
	"maa.plus/backend-next/internal/model/cache"
	"maa.plus/backend-next/internal/model/types"
	"maa.plus/backend-next/internal/pkg/maaerr"
	"maa.plus/backend-next/internal/pkg/observability"
	"maa.plus/backend-next/internal/repo"
)

type Copilot struct {
	CopilotRepo       *repo.Copilot
	CopilotRatingRepo *repo.CopilotRating
	GameDataService   *GameData
}

func NewCopilot(copilotRepo *repo.Copilot, copilotRatingRepo *repo.CopilotRating, gameDataService *GameData) *Copilot {
	return &Copilot{
		CopilotRepo:       copilotRepo,
		CopilotRatingRepo: copilotRatingRepo,
		GameDataService:   gameDataService,
	}
}

// parseContent extracts the indexed fields out of a raw copilot document.
// The document is user-supplied JSON in the MAA operation format.
func (s *Copilot) parseContent(content json.RawMessage) (*model.Copilot, error) {
	if !gjson.ValidBytes(content) {
		return nil, maaerr.ErrInvalidReq.Msg("copilot content is not valid JSON")
	}
	parsed := gjson.ParseBytes(content)

	stageID := parsed.Get("stage_name").String()
	if stageID == "" {
		return nil, maaerr.ErrInvalidReq.Msg("copilot content misses stage_name")
	}

	title := parsed.Get("doc.title").String()
	if title == "" {
		return nil, maaerr.ErrInvalidReq.Msg("copilot content misses doc.title")
	}

	operators := lo.Uniq(lo.FilterMap(parsed.Get("opers").Array(), func(oper gjson.Result, _ int) (string, bool) {
		name := oper.Get("name").String()
		return name, name != ""
	}))

	copilot := &model.Copilot{
		StageID:   stageID,
		Title:     title,
		Operators: operators,
		Content:   content,
	}
	if detail := parsed.Get("doc.details").String(); detail != "" {
		copilot.Detail = null.StringFrom(detail)
	}
	return copilot, nil
}

func (s *Copilot) Upload(ctx context.Context, loginUser *model.LoginUser, content json.RawMessage) (int, error) {
	copilot, err := s.parseContent(content)
	if err != nil {
		observability.CopilotUploads.WithLabelValues("invalid").Inc()
		return 0, err
	}

	// the mirror is only advisory here: a cold mirror must not block uploads
	if stage := s.GameDataService.FindStage(copilot.StageID, "", copilot.StageID); stage == nil {
		log.Warn().
			Str("evt.name", "copilot.upload").
			Str("stageId", copilot.StageID).
			Msg("uploaded copilot references a stage unknown to the game data mirror")
	}

	copilot.UploaderID = loginUser.User.UserID
	copilot.UploadTime = time.Now()
	if err := s.CopilotRepo.CreateCopilot(ctx, copilot); err != nil {
		observability.CopilotUploads.WithLabelValues("error").Inc()
		return 0, err
	}
	observability.CopilotUploads.WithLabelValues("ok").Inc()
	_ = cache.CopilotHomePage.Delete()
	return copilot.CopilotID, nil
}

func (s *Copilot) Update(ctx context.Context, loginUser *model.LoginUser, id int, content json.RawMessage) error {
	existing, err := s.CopilotRepo.GetCopilotByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UploaderID != loginUser.User.UserID {
		return maaerr.ErrPermissionDenied.Msg("only the uploader may update a copilot")
	}

	parsed, err := s.parseContent(content)
	if err != nil {
		return err
	}
	existing.StageID = parsed.StageID
	existing.Title = parsed.Title
	existing.Detail = parsed.Detail
	existing.Operators = parsed.Operators
	existing.Content = parsed.Content
	if err := s.CopilotRepo.UpdateCopilot(ctx, existing); err != nil {
		return err
	}
	_ = cache.CopilotHomePage.Delete()
	return cache.CopilotInfoByID.Delete(strconv.Itoa(id))
}

func (s *Copilot) Delete(ctx context.Context, loginUser *model.LoginUser, id int) error {
	existing, err := s.CopilotRepo.GetCopilotByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UploaderID != loginUser.User.UserID {
		return maaerr.ErrPermissionDenied.Msg("only the uploader may delete a copilot")
	}
	if err := s.CopilotRepo.DeleteCopilot(ctx, id); err != nil {
		return err
	}
	_ = cache.CopilotHomePage.Delete()
	return cache.CopilotInfoByID.Delete(strconv.Itoa(id))
}

// GetByID returns the rendered copilot, read through a short-lived redis
// cache. Views are counted out-of-band.
func (s *Copilot) GetByID(ctx context.Context, id int) (*types.CopilotInfo, error) {
	go func() {
		if err := s.CopilotRepo.IncViews(context.Background(), id); err != nil {
			log.Warn().Err(err).Int("copilotId", id).Msg("failed to increment views")
		}
	}()

	var info types.CopilotInfo
	_, err := cache.CopilotInfoByID.MutexGetSet(strconv.Itoa(id), &info, func() (types.CopilotInfo, error) {
		copilot, err := s.CopilotRepo.GetCopilotByID(ctx, id)
		if err != nil {
			return types.CopilotInfo{}, err
		}
		return *s.render(copilot), nil
	}, time.Minute*5)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *Copilot) Query(ctx context.Context, req *types.CopilotQueryReq) (*types.CopilotPageInfo, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = constant.CopilotQueryDefaultLimit
	}
	if req.Limit > constant.CopilotQueryMaxLimit {
		req.Limit = constant.CopilotQueryMaxLimit
	}

	// the unfiltered first page dominates read traffic; serve it from a
	// short-lived in-process cache
	if s.isHomePageQuery(req) {
		var page types.CopilotPageInfo
		err := cache.CopilotHomePage.MutexGetSet(&page, func() (types.CopilotPageInfo, error) {
			result, err := s.queryPage(ctx, req)
			if err != nil {
				return types.CopilotPageInfo{}, err
			}
			return *result, nil
		}, time.Minute)
		if err != nil {
			return nil, err
		}
		return &page, nil
	}

	return s.queryPage(ctx, req)
}

func (s *Copilot) isHomePageQuery(req *types.CopilotQueryReq) bool {
	return req.Page == 1 &&
		req.Limit == constant.CopilotQueryDefaultLimit &&
		req.LevelKeyword == "" &&
		req.Operator == "" &&
		req.Uploader == "" &&
		req.OrderBy == ""
}

func (s *Copilot) queryPage(ctx context.Context, req *types.CopilotQueryReq) (*types.CopilotPageInfo, error) {
	copilots, total, err := s.CopilotRepo.QueryCopilots(ctx, req)
	if err != nil {
		return nil, err
	}

	return &types.CopilotPageInfo{
		Total:   total,
		Page:    req.Page,
		HasNext: int64(req.Page*req.Limit) < total,
		Data: lo.Map(copilots, func(copilot *model.Copilot, _ int) *types.CopilotInfo {
			return s.render(copilot)
		}),
	}, nil
}

// Rate records the user's like/dislike and refreshes the denormalized
// counters on the copilot row.
func (s *Copilot) Rate(ctx context.Context, loginUser *model.LoginUser, id int, rating string) error {
	if _, err := s.CopilotRepo.GetCopilotByID(ctx, id); err != nil {
		return err
	}

	err := s.CopilotRatingRepo.UpsertRating(ctx, &model.CopilotRating{
		CopilotID: id,
		UserID:    loginUser.User.UserID,
		Rating:    rating,
		RatedAt:   time.Now(),
	})
	if err != nil {
		return err
	}

	likes, err := s.CopilotRatingRepo.CountLikes(ctx, id)
	if err != nil {
		return err
	}
	// crude popularity score; likes dominate, recency is handled by sort
	hotScore := likes * 10
	if err := s.CopilotRepo.UpdateRatingCounters(ctx, id, likes, hotScore); err != nil {
		return err
	}
	_ = cache.CopilotHomePage.Delete()
	return cache.CopilotInfoByID.Delete(strconv.Itoa(id))
}

// render projects a copilot row into its response shape, enriched with
// display names resolved through the game data mirror. A cold mirror just
// leaves the enrichment fields empty.
func (s *Copilot) render(copilot *model.Copilot) *types.CopilotInfo {
	info := &types.CopilotInfo{
		ID:         copilot.CopilotID,
		StageID:    copilot.StageID,
		Title:      copilot.Title,
		Detail:     copilot.Detail,
		Operators:  copilot.Operators,
		Content:    copilot.Content,
		Views:      copilot.Views,
		LikeCount:  copilot.LikeCount,
		UploadTime: copilot.UploadTime.Format(time.RFC3339),
	}
	if copilot.Uploader != nil {
		info.Uploader = copilot.Uploader.UserName
	}

	if stage := s.GameDataService.FindStage(copilot.StageID, "", copilot.StageID); stage != nil {
		info.StageName = stage.Name
		if zone := s.GameDataService.FindZone(copilot.StageID, stage.Code, copilot.StageID); zone != nil {
			info.ZoneName = zone.ZoneNameSecond
		}
		if activity := s.GameDataService.FindActivityByZoneID(stage.ZoneID); activity != nil {
			info.ActivityName = activity.Name
		}
	}
	info.OperatorNames = lo.FilterMap(copilot.Operators, func(operator string, _ int) (string, bool) {
		character := s.GameDataService.FindCharacter(operator)
		if character == nil {
			return "", false
		}
		return character.Name, true
	})

	return info
}
