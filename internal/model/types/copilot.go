package types

import (
	"github.com/goccy/go-json"
	"gopkg.in/guregu/null.v3"
)

type CopilotUploadReq struct {
	Content json.RawMessage `json:"content" validate:"required"`
}

type CopilotUpdateReq struct {
	ID      int             `json:"id" validate:"required"`
	Content json.RawMessage `json:"content" validate:"required"`
}

type CopilotDeleteReq struct {
	ID int `json:"id" validate:"required"`
}

type CopilotRatingReq struct {
	ID     int    `json:"id" validate:"required"`
	Rating string `json:"rating" validate:"required,oneof=Like Dislike None"`
}

type CopilotQueryReq struct {
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
	LevelKeyword string `query:"levelKeyword"`
	Operator string `query:"operator"`
	Uploader string `query:"uploaderId"`
	OrderBy  string `query:"orderBy"`
	Desc     bool   `query:"desc"`
}

// CopilotInfo is a single copilot enriched with display metadata resolved
// through the game data mirror.
type CopilotInfo struct {
	ID            int             `json:"id"`
	StageID       string          `json:"stageId"`
	StageName     string          `json:"stageName,omitempty"`
	ZoneName      string          `json:"zoneName,omitempty"`
	ActivityName  string          `json:"activityName,omitempty"`
	Title         string          `json:"title"`
	Detail        null.String     `json:"detail"`
	Operators     []string        `json:"operators"`
	OperatorNames []string        `json:"operatorNames,omitempty"`
	Content       json.RawMessage `json:"content"`
	Views         int64           `json:"views"`
	LikeCount     int64           `json:"likeCount"`
	UploadTime    string          `json:"uploadTime"`
	Uploader      string          `json:"uploader"`
}

type CopilotPageInfo struct {
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	HasNext bool           `json:"hasNext"`
	Data    []*CopilotInfo `json:"data"`
}
