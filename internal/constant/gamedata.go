package constant

// GameDataBaseURL is the default location of the community-maintained
// ArknightsGameData table dumps. Overridable via configuration, mainly
// so that tests can point the mirror at a local server.
const GameDataBaseURL = "https://raw.githubusercontent.com/Kengxxiao/ArknightsGameData/master/zh_CN/gamedata/excel"

const (
	DatasetStage     = "stage"
	DatasetZone      = "zone"
	DatasetActivity  = "activity"
	DatasetCharacter = "character"
	DatasetTower     = "tower"
)

// CharacterIDSegments is the number of underscore-separated segments a raw
// character id must decompose into for the entry to be considered an
// operator (e.g. "char_1_243"); everything else in character_table is
// tokens, traps and the like.
const CharacterIDSegments = 3
