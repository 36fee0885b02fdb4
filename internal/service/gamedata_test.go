package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maa.plus/backend-next/internal/app/appconfig"
	"maa.plus/backend-next/internal/constant"
)

// tableServer serves mutable table fixtures so tests can flip a dataset
// between healthy, failing and empty in-between sync batches.
type tableServer struct {
	mu     sync.Mutex
	tables map[string]string
	status map[string]int
}

func (ts *tableServer) set(table, body string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.tables[table] = body
	delete(ts.status, table)
}

func (ts *tableServer) fail(table string, statusCode int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.status[table] = statusCode
}

func (ts *tableServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	table := r.URL.Path[1:]
	if code, ok := ts.status[table]; ok {
		w.WriteHeader(code)
		return
	}
	body, ok := ts.tables[table]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Write([]byte(body))
}

const (
	fixtureStageTable = `{"stages": {
		"act1zone1_01": {"stageId": "act1zone1_01", "zoneId": "zoneA", "levelId": "Activities/ACT1/level_act1_01", "code": "S1", "name": "Stage One", "apCost": 6},
		"main_01-07": {"zoneId": "main_1", "levelId": "Obt/Main/level_main_01-07", "code": "1-7", "name": "Resource Assurance", "apCost": 6},
		"wk_armor_1": {"stageId": "wk_armor_1", "zoneId": "weekly_1", "levelId": "", "code": "CA-1", "name": "Solid Defense", "apCost": 10}
	}}`

	fixtureZoneTable = `{"zones": {
		"zoneA": {"zoneID": "zoneA", "type": "ACTIVITY", "zoneNameFirst": "Operation Blade", "zoneNameSecond": ""},
		"main_1": {"zoneID": "main_1", "type": "MAINLINE", "zoneNameFirst": "Main Theme", "zoneNameSecond": "Evil Time Part 1"}
	}}`

	fixtureActivityTable = `{
		"basicInfo": {
			"act1": {"id": "act1", "type": "MINISTORY", "name": "Operation Blade"}
		},
		"zoneToActivity": {
			"zoneA": "act1",
			"zoneB": "act_missing"
		}
	}`

	fixtureCharacterTable = `{
		"char_1_243": {"name": "Phantom", "profession": "SPECIAL", "rarity": 5},
		"char_002_amiya": {"name": "Amiya", "profession": "CASTER", "rarity": 4},
		"token_10000_silence_healrb": {"name": "Medical Drone", "profession": "TOKEN", "rarity": 0},
		"npc_gopro": {"name": "GoPro", "profession": "NPC", "rarity": 0}
	}`

	fixtureTowerTable = `{"towers": {
		"tower_zone_1": {"id": "tower_zone_1", "name": "Glorious Reverie", "subName": "Standard"}
	}}`
)

func newTestTableServer() *tableServer {
	return &tableServer{
		tables: map[string]string{
			"stage_table.json":       fixtureStageTable,
			"zone_table.json":        fixtureZoneTable,
			"activity_table.json":    fixtureActivityTable,
			"character_table.json":   fixtureCharacterTable,
			"climb_tower_table.json": fixtureTowerTable,
		},
		status: map[string]int{},
	}
}

func newTestGameData(t *testing.T) (*GameData, *tableServer) {
	t.Helper()

	ts := newTestTableServer()
	srv := httptest.NewServer(ts)
	t.Cleanup(srv.Close)

	conf := &appconfig.Config{
		ConfigSpec: appconfig.ConfigSpec{
			GameDataBaseURL: srv.URL,
			GameDataTimeout: time.Second * 5,
		},
	}
	return NewGameData(conf), ts
}

func requireSyncAllOk(t *testing.T, s *GameData) {
	t.Helper()
	for _, result := range s.SyncAll(context.Background()) {
		require.NoError(t, result.Err, "dataset %s", result.Dataset)
	}
}

func TestGameDataSyncAll(t *testing.T) {
	s, _ := newTestGameData(t)

	results := s.SyncAll(context.Background())
	require.Len(t, results, 5)

	byDataset := map[string]SyncResult{}
	for _, result := range results {
		require.True(t, result.Ok())
		assert.Empty(t, result.Error)
		byDataset[result.Dataset] = result
	}

	assert.Equal(t, 3, byDataset[constant.DatasetStage].Count)
	assert.Equal(t, 2, byDataset[constant.DatasetZone].Count)
	// zoneB maps to an activity without basic info and is omitted
	assert.Equal(t, 1, byDataset[constant.DatasetActivity].Count)
	// tokens and traps do not decompose into three segments
	assert.Equal(t, 2, byDataset[constant.DatasetCharacter].Count)
	assert.Equal(t, 1, byDataset[constant.DatasetTower].Count)
}

func TestGameDataFindStage(t *testing.T) {
	s, _ := newTestGameData(t)
	requireSyncAllOk(t, s)

	t.Run("ByLevelIDWithMatchingCode", func(t *testing.T) {
		stage := s.FindStage("Activities/ACT1/level_act1_01", "S1", "")
		require.NotNil(t, stage)
		assert.Equal(t, "act1zone1_01", stage.StageID)
	})

	t.Run("LevelIDLookupIsCaseInsensitive", func(t *testing.T) {
		stage := s.FindStage("ACTIVITIES/ACT1/LEVEL_ACT1_01", "s1", "")
		require.NotNil(t, stage)
		assert.Equal(t, "act1zone1_01", stage.StageID)
	})

	t.Run("CodeMismatchFallsBackToStageID", func(t *testing.T) {
		stage := s.FindStage("Activities/ACT1/level_act1_01", "CA-1", "wk_armor_1")
		require.NotNil(t, stage)
		assert.Equal(t, "wk_armor_1", stage.StageID)
	})

	t.Run("CodeMismatchWithoutStageIDMisses", func(t *testing.T) {
		assert.Nil(t, s.FindStage("Activities/ACT1/level_act1_01", "S2", ""))
	})

	t.Run("StageIDBackfilledFromTableKey", func(t *testing.T) {
		stage := s.FindStage("Obt/Main/level_main_01-07", "1-7", "")
		require.NotNil(t, stage)
		assert.Equal(t, "main_01-07", stage.StageID)
	})

	t.Run("EmptyLevelIDNotIndexed", func(t *testing.T) {
		// the empty-levelId stage is only reachable by stage id
		stage := s.FindStage("", "CA-1", "")
		assert.Nil(t, stage)
		stage = s.FindStage("", "", "wk_armor_1")
		require.NotNil(t, stage)
		assert.Equal(t, "wk_armor_1", stage.StageID)
	})
}

func TestGameDataFindZone(t *testing.T) {
	s, _ := newTestGameData(t)
	requireSyncAllOk(t, s)

	zone := s.FindZone("Activities/ACT1/level_act1_01", "S1", "")
	require.NotNil(t, zone)
	assert.Equal(t, "Operation Blade", zone.ZoneNameFirst)

	assert.Nil(t, s.FindZone("Obt/Nothing/level_none", "X-1", ""))
	// stage resolves but its zone is absent from the zone table
	assert.Nil(t, s.FindZone("", "", "wk_armor_1"))
}

func TestGameDataFindCharacter(t *testing.T) {
	s, _ := newTestGameData(t)
	requireSyncAllOk(t, s)

	t.Run("ByFullID", func(t *testing.T) {
		character := s.FindCharacter("char_1_243")
		require.NotNil(t, character)
		assert.Equal(t, "Phantom", character.Name)
		assert.Equal(t, "char_1_243", character.ID)
	})

	t.Run("ByShortID", func(t *testing.T) {
		character := s.FindCharacter("243")
		require.NotNil(t, character)
		assert.Equal(t, "Phantom", character.Name)
	})

	t.Run("NonOperatorEntriesNotIndexed", func(t *testing.T) {
		// ids that do not decompose into exactly three segments are skipped
		assert.Nil(t, s.FindCharacter("token_10000_silence_healrb"))
		assert.Nil(t, s.FindCharacter("npc_gopro"))
	})
}

func TestGameDataFindActivity(t *testing.T) {
	s, _ := newTestGameData(t)
	requireSyncAllOk(t, s)

	activity := s.FindActivityByZoneID("zoneA")
	require.NotNil(t, activity)
	assert.Equal(t, "Operation Blade", activity.Name)

	// zoneB points at an activity id missing from basicInfo
	assert.Nil(t, s.FindActivityByZoneID("zoneB"))
}

func TestGameDataFindTower(t *testing.T) {
	s, _ := newTestGameData(t)
	requireSyncAllOk(t, s)

	tower := s.FindTower("tower_zone_1")
	require.NotNil(t, tower)
	assert.Equal(t, "Glorious Reverie", tower.Name)

	assert.Nil(t, s.FindTower("tower_zone_none"))
}

func TestGameDataSyncFailureKeepsLastGoodSnapshot(t *testing.T) {
	s, ts := newTestGameData(t)
	requireSyncAllOk(t, s)

	// break stage fetch, empty out zone, update character
	ts.fail("stage_table.json", http.StatusInternalServerError)
	ts.set("zone_table.json", "")
	ts.set("character_table.json", `{"char_1_243": {"name": "Phantom the Second", "profession": "SPECIAL", "rarity": 5}}`)

	results := s.SyncAll(context.Background())
	byDataset := map[string]SyncResult{}
	for _, result := range results {
		byDataset[result.Dataset] = result
	}

	require.Error(t, byDataset[constant.DatasetStage].Err)
	assert.ErrorIs(t, byDataset[constant.DatasetStage].Err, ErrCannotGetFromRemote)
	assert.NotEmpty(t, byDataset[constant.DatasetStage].Error)

	require.Error(t, byDataset[constant.DatasetZone].Err)
	assert.ErrorIs(t, byDataset[constant.DatasetZone].Err, ErrEmptyResponseBody)

	// failed datasets keep serving the previous snapshot
	stage := s.FindStage("Activities/ACT1/level_act1_01", "S1", "")
	require.NotNil(t, stage)
	zone := s.FindZone("Activities/ACT1/level_act1_01", "S1", "")
	require.NotNil(t, zone)
	assert.Equal(t, "Operation Blade", zone.ZoneNameFirst)

	// healthy datasets refresh independently of the broken ones
	require.True(t, byDataset[constant.DatasetCharacter].Ok())
	character := s.FindCharacter("243")
	require.NotNil(t, character)
	assert.Equal(t, "Phantom the Second", character.Name)
}

func TestGameDataMalformedTable(t *testing.T) {
	s, ts := newTestGameData(t)
	requireSyncAllOk(t, s)

	ts.set("activity_table.json", `{"basicInfo": {}}`)

	results := s.SyncAll(context.Background())
	byDataset := map[string]SyncResult{}
	for _, result := range results {
		byDataset[result.Dataset] = result
	}
	require.Error(t, byDataset[constant.DatasetActivity].Err)

	// the join result of the previous batch stays visible
	require.NotNil(t, s.FindActivityByZoneID("zoneA"))
}

func TestGameDataEmptyUntilFirstSync(t *testing.T) {
	s, _ := newTestGameData(t)

	assert.Nil(t, s.FindStage("Activities/ACT1/level_act1_01", "S1", ""))
	assert.Nil(t, s.FindCharacter("243"))
	assert.Nil(t, s.FindActivityByZoneID("zoneA"))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.Error(t, s.WaitReady(ctx))

	requireSyncAllOk(t, s)

	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	assert.NoError(t, s.WaitReady(ctx2))
}
