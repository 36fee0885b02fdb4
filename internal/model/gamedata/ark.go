// Package gamedata declares the wire shapes of the ArknightsGameData table
// dumps mirrored by the game data service, plus the record types the mirror
// indexes them into.
package gamedata

// ArkStage is one entry of stage_table.json#stages, keyed by stage id.
type ArkStage struct {
	StageID string `json:"stageId"`
	ZoneID  string `json:"zoneId"`
	LevelID string `json:"levelId"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	ApCost  int    `json:"apCost"`
}

// ArkZone is one entry of zone_table.json#zones, keyed by zone id.
type ArkZone struct {
	ZoneID         string `json:"zoneID"`
	Type           string `json:"type"`
	ZoneNameFirst  string `json:"zoneNameFirst"`
	ZoneNameSecond string `json:"zoneNameSecond"`
}

// ArkActivity is one entry of activity_table.json#basicInfo, keyed by
// activity id.
type ArkActivity struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// ArkCharacter is one entry of character_table.json. The raw table is keyed
// by the full character id (e.g. "char_1_243"); ID is backfilled from the
// map key during parsing.
type ArkCharacter struct {
	ID         string `json:"-"`
	Name       string `json:"name"`
	Profession string `json:"profession"`
	Rarity     int    `json:"rarity"`
}

// ArkTower is one entry of climb_tower_table.json#towers, keyed by zone id.
type ArkTower struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	SubName string `json:"subName"`
}

// Table envelopes. Each dump is a single top-level JSON object carrying the
// collection relevant to its dataset; unknown sibling fields are ignored.

type StageTable struct {
	Stages map[string]*ArkStage `json:"stages"`
}

type ZoneTable struct {
	Zones map[string]*ArkZone `json:"zones"`
}

type ActivityTable struct {
	BasicInfo      map[string]*ArkActivity `json:"basicInfo"`
	ZoneToActivity map[string]string       `json:"zoneToActivity"`
}

type TowerTable struct {
	Towers map[string]*ArkTower `json:"towers"`
}
