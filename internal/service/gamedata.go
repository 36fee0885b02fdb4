package service

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"maa.plus/backend-next/internal/app/appconfig"
	"maa.plus/backend-next/internal/constant"
	"maa.plus/backend-next/internal/model/gamedata"
	"maa.plus/backend-next/internal/pkg/observability"
)

var (
	ErrCannotGetFromRemote = errors.New("cannot get from remote")
	ErrEmptyResponseBody   = errors.New("empty response body")
)

// SyncResult is the outcome of one dataset refresh within a sync batch.
// Count is only meaningful when Err is nil.
type SyncResult struct {
	Dataset string `json:"dataset"`
	Count   int    `json:"count"`
	Err     error  `json:"-"`
	Error   string `json:"error,omitempty"`
}

func (r SyncResult) Ok() bool {
	return r.Err == nil
}

// stageSnapshot pairs the two stage indices. They are derived from the same
// table fetch and must be published together.
type stageSnapshot struct {
	byID      map[string]*gamedata.ArkStage
	byLevelID map[string]*gamedata.ArkStage
}

// GameData mirrors the five ArknightsGameData table dumps into in-memory
// lookup maps. Each dataset is republished wholesale by a successful refresh
// via a single atomic pointer swap, so concurrent readers always observe
// either the previous or the next fully-built snapshot, never a partially
// populated one. A failed refresh leaves the last-good snapshot in place.
type GameData struct {
	baseURL string
	client  *http.Client

	stages     atomic.Pointer[stageSnapshot]
	zones      atomic.Pointer[map[string]*gamedata.ArkZone]
	activities atomic.Pointer[map[string]*gamedata.ArkActivity]
	characters atomic.Pointer[map[string]*gamedata.ArkCharacter]
	towers     atomic.Pointer[map[string]*gamedata.ArkTower]

	updatedAt atomic.Pointer[time.Time]
}

func NewGameData(conf *appconfig.Config) *GameData {
	baseURL := conf.GameDataBaseURL
	if baseURL == "" {
		baseURL = constant.GameDataBaseURL
	}

	s := &GameData{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: conf.GameDataTimeout,
		},
	}

	// all datasets start empty until the first sync seeds them
	s.stages.Store(&stageSnapshot{
		byID:      map[string]*gamedata.ArkStage{},
		byLevelID: map[string]*gamedata.ArkStage{},
	})
	emptyZones := map[string]*gamedata.ArkZone{}
	s.zones.Store(&emptyZones)
	emptyActivities := map[string]*gamedata.ArkActivity{}
	s.activities.Store(&emptyActivities)
	emptyCharacters := map[string]*gamedata.ArkCharacter{}
	s.characters.Store(&emptyCharacters)
	emptyTowers := map[string]*gamedata.ArkTower{}
	s.towers.Store(&emptyTowers)

	return s
}

// SyncAll refreshes the five datasets in sequence. Each refresh fails
// independently: a broken table leaves its last-good snapshot untouched and
// does not abort the remaining datasets.
func (s *GameData) SyncAll(ctx context.Context) []SyncResult {
	syncs := []struct {
		dataset string
		fn      func(context.Context) (int, error)
	}{
		{constant.DatasetStage, s.syncStage},
		{constant.DatasetZone, s.syncZone},
		{constant.DatasetActivity, s.syncActivity},
		{constant.DatasetCharacter, s.syncCharacter},
		{constant.DatasetTower, s.syncTower},
	}

	results := make([]SyncResult, 0, len(syncs))
	anySucceeded := false
	for _, sync := range syncs {
		started := time.Now()
		count, err := sync.fn(ctx)
		observability.GameDataSyncDuration.
			WithLabelValues(sync.dataset).
			Observe(time.Since(started).Seconds())

		result := SyncResult{
			Dataset: sync.dataset,
			Count:   count,
			Err:     err,
		}
		if err != nil {
			result.Error = err.Error()
			observability.GameDataSyncFailures.WithLabelValues(sync.dataset).Inc()
			log.Error().
				Err(err).
				Str("evt.name", "gamedata.sync").
				Str("dataset", sync.dataset).
				Msg("failed to sync dataset; keeping last-good snapshot")
		} else {
			anySucceeded = true
			observability.GameDataRecords.WithLabelValues(sync.dataset).Set(float64(count))
			log.Info().
				Str("evt.name", "gamedata.sync").
				Str("dataset", sync.dataset).
				Int("count", count).
				Msg("synced dataset")
		}
		results = append(results, result)
	}
	if anySucceeded {
		now := time.Now()
		s.updatedAt.Store(&now)
	}
	return results
}

// LastUpdated reports when a snapshot was last published. Zero until the
// first at least partially successful sync.
func (s *GameData) LastUpdated() time.Time {
	if t := s.updatedAt.Load(); t != nil {
		return *t
	}
	return time.Time{}
}

// FindStage resolves a stage by its level id first: level ids are ambiguous
// across reissued stage codes, so the hit only counts when the stored code
// matches the requested one case-insensitively. Otherwise the stage id lookup
// is authoritative. Returns nil when both miss.
func (s *GameData) FindStage(levelID, code, stageID string) *gamedata.ArkStage {
	snapshot := s.stages.Load()
	stage := snapshot.byLevelID[strings.ToLower(levelID)]
	if stage != nil && strings.EqualFold(stage.Code, code) {
		return stage
	}
	return snapshot.byID[stageID]
}

// FindZone resolves the stage via FindStage, then maps its owning-zone key
// to a zone record. Returns nil when either cannot be resolved.
func (s *GameData) FindZone(levelID, code, stageID string) *gamedata.ArkZone {
	stage := s.FindStage(levelID, code, stageID)
	if stage == nil {
		log.Error().
			Str("evt.name", "gamedata.lookup").
			Str("stageId", stageID).
			Str("levelId", levelID).
			Msg("stage not found")
		return nil
	}
	zone := (*s.zones.Load())[stage.ZoneID]
	if zone == nil {
		log.Error().
			Str("evt.name", "gamedata.lookup").
			Str("zoneId", stage.ZoneID).
			Str("levelId", levelID).
			Msg("zone not found")
	}
	return zone
}

func (s *GameData) FindTower(zoneID string) *gamedata.ArkTower {
	return (*s.towers.Load())[zoneID]
}

// FindCharacter splits the id on `_` and looks up by the last segment,
// regardless of segment count. This is deliberately more permissive than the
// index build, which only admits ids with exactly three segments: it lets
// callers pass either the full id or just the short id.
func (s *GameData) FindCharacter(characterID string) *gamedata.ArkCharacter {
	ids := strings.Split(characterID, "_")
	return (*s.characters.Load())[ids[len(ids)-1]]
}

func (s *GameData) FindActivityByZoneID(zoneID string) *gamedata.ArkActivity {
	return (*s.activities.Load())[zoneID]
}

func (s *GameData) fetch(ctx context.Context, table string) ([]byte, error) {
	u := s.baseURL + "/" + table

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, err
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrCannotGetFromRemote, "status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, ErrEmptyResponseBody
	}

	return body, nil
}

func (s *GameData) syncStage(ctx context.Context) (int, error) {
	body, err := s.fetch(ctx, "stage_table.json")
	if err != nil {
		return 0, err
	}

	var table gamedata.StageTable
	if err := json.Unmarshal(body, &table); err != nil {
		return 0, errors.Wrap(err, "failed to parse stage table")
	}
	if table.Stages == nil {
		return 0, errors.New("stage table misses the stages sub-document")
	}

	// both indices are derived from one fetch and published as a pair
	next := &stageSnapshot{
		byID:      make(map[string]*gamedata.ArkStage, len(table.Stages)),
		byLevelID: make(map[string]*gamedata.ArkStage, len(table.Stages)),
	}
	for id, stage := range table.Stages {
		if stage.StageID == "" {
			stage.StageID = id
		}
		next.byID[id] = stage
		if stage.LevelID != "" {
			next.byLevelID[strings.ToLower(stage.LevelID)] = stage
		}
	}
	s.stages.Store(next)

	return len(next.byID), nil
}

func (s *GameData) syncZone(ctx context.Context) (int, error) {
	body, err := s.fetch(ctx, "zone_table.json")
	if err != nil {
		return 0, err
	}

	var table gamedata.ZoneTable
	if err := json.Unmarshal(body, &table); err != nil {
		return 0, errors.Wrap(err, "failed to parse zone table")
	}
	if table.Zones == nil {
		return 0, errors.New("zone table misses the zones sub-document")
	}

	next := make(map[string]*gamedata.ArkZone, len(table.Zones))
	for id, zone := range table.Zones {
		next[id] = zone
	}
	s.zones.Store(&next)

	return len(next), nil
}

func (s *GameData) syncActivity(ctx context.Context) (int, error) {
	body, err := s.fetch(ctx, "activity_table.json")
	if err != nil {
		return 0, err
	}

	var table gamedata.ActivityTable
	if err := json.Unmarshal(body, &table); err != nil {
		return 0, errors.Wrap(err, "failed to parse activity table")
	}
	if table.BasicInfo == nil || table.ZoneToActivity == nil {
		return 0, errors.New("activity table misses the basicInfo or zoneToActivity sub-document")
	}

	// join zoneToActivity against basicInfo; zones whose activity id has no
	// basic info entry are omitted
	next := make(map[string]*gamedata.ArkActivity, len(table.ZoneToActivity))
	for zoneID, actID := range table.ZoneToActivity {
		act, ok := table.BasicInfo[actID]
		if !ok {
			log.Debug().
				Str("evt.name", "gamedata.sync").
				Str("zoneId", zoneID).
				Str("activityId", actID).
				Msg("zone maps to an activity without basic info; skipping")
			continue
		}
		next[zoneID] = act
	}
	s.activities.Store(&next)

	return len(next), nil
}

func (s *GameData) syncCharacter(ctx context.Context) (int, error) {
	body, err := s.fetch(ctx, "character_table.json")
	if err != nil {
		return 0, err
	}

	var characters map[string]*gamedata.ArkCharacter
	if err := json.Unmarshal(body, &characters); err != nil {
		return 0, errors.Wrap(err, "failed to parse character table")
	}

	next := make(map[string]*gamedata.ArkCharacter, len(characters))
	for id, character := range characters {
		if id == "" || character == nil {
			continue
		}
		character.ID = id
		ids := strings.Split(id, "_")
		if len(ids) != constant.CharacterIDSegments {
			// not an operator
			continue
		}
		next[ids[2]] = character
	}
	s.characters.Store(&next)

	return len(next), nil
}

func (s *GameData) syncTower(ctx context.Context) (int, error) {
	body, err := s.fetch(ctx, "climb_tower_table.json")
	if err != nil {
		return 0, err
	}

	var table gamedata.TowerTable
	if err := json.Unmarshal(body, &table); err != nil {
		return 0, errors.Wrap(err, "failed to parse tower table")
	}
	if table.Towers == nil {
		return 0, errors.New("tower table misses the towers sub-document")
	}

	next := make(map[string]*gamedata.ArkTower, len(table.Towers))
	for id, tower := range table.Towers {
		next[id] = tower
	}
	s.towers.Store(&next)

	return len(next), nil
}

// WaitReady blocks until the stage index is non-empty or the context ends.
// Only used by tests and the readiness probe; lookups themselves never block.
func (s *GameData) WaitReady(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		if len(s.stages.Load().byID) > 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
