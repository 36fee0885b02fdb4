package model

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"users"`

	UserID    int       `bun:",pk,autoincrement" json:"id"`
	UserName  string    `json:"userName"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Status    int       `json:"status"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// LoginUser is the session payload cached in redis under LOGIN:<userId>.
// Token is the per-session random token embedded in issued JWTs as jti;
// a JWT whose jti mismatches the cached token is rejected.
type LoginUser struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
