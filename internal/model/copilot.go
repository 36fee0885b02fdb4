package model

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"
)

type Copilot struct {
	bun.BaseModel `bun:"copilots"`

	CopilotID  int             `bun:",pk,autoincrement" json:"id"`
	UploaderID int             `json:"-"`
	StageID    string          `json:"stageId"`
	Title      string          `json:"title"`
	Detail     null.String     `json:"detail"`
	Operators  []string        `bun:",array" json:"operators"`
	Content    json.RawMessage `json:"content"`
	Views      int64           `json:"views"`
	HotScore   int64           `json:"hotScore"`
	LikeCount  int64           `json:"likeCount"`
	Deleted    bool            `json:"-"`
	UploadTime time.Time       `bun:",nullzero,notnull,default:current_timestamp" json:"uploadTime"`

	Uploader *User `bun:"rel:belongs-to,join:uploader_id=user_id" json:"-"`
}

// CopilotRating stores one user's like/dislike on a copilot. A (copilot,
// user) pair has at most one row; re-rating overwrites it.
type CopilotRating struct {
	bun.BaseModel `bun:"copilot_ratings"`

	RatingID  int       `bun:",pk,autoincrement" json:"-"`
	CopilotID int       `json:"copilotId"`
	UserID    int       `json:"-"`
	Rating    string    `json:"rating"`
	RatedAt   time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"ratedAt"`
}
