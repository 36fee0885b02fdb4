package cache

import (
	"sync"

	"github.com/redis/go-redis/v9"

	"maa.plus/backend-next/internal/model"
	"maa.plus/backend-next/internal/model/types"
	"maa.plus/backend-next/internal/pkg/cache"
)

type Flusher func() error

var (
	// LoginUserByID caches the active session of a user, keyed by user id.
	LoginUserByID *cache.Set[model.LoginUser]

	// MailCodeByEmail caches outstanding activation / password reset codes.
	MailCodeByEmail *cache.Set[string]

	// EmailByNonce caches activation-link nonces back to the email they
	// were issued for.
	EmailByNonce *cache.Set[string]

	// CopilotInfoByID caches rendered copilot responses.
	CopilotInfoByID *cache.Set[types.CopilotInfo]

	// CopilotHomePage caches the unfiltered first result page, which takes
	// the bulk of read traffic. In-process since it needs no cross-instance
	// coherence beyond its short TTL.
	CopilotHomePage *cache.Singular[types.CopilotPageInfo]

	once sync.Once

	SetMap map[string]Flusher
)

func Initialize(client *redis.Client) {
	once.Do(func() {
		initializeCaches(client)
	})
}

func initializeCaches(client *redis.Client) {
	SetMap = make(map[string]Flusher)

	// user sessions
	LoginUserByID = cache.NewSet[model.LoginUser](client, "LOGIN")
	SetMap["LOGIN"] = LoginUserByID.Flush

	// mail verification codes
	MailCodeByEmail = cache.NewSet[string](client, "MAIL")
	SetMap["MAIL"] = MailCodeByEmail.Flush

	// activation nonces
	EmailByNonce = cache.NewSet[string](client, "UUID")
	SetMap["UUID"] = EmailByNonce.Flush

	// copilot
	CopilotInfoByID = cache.NewSet[types.CopilotInfo](client, "copilotInfo#id")
	SetMap["copilotInfo#id"] = CopilotInfoByID.Flush

	CopilotHomePage = cache.NewSingular[types.CopilotPageInfo]("copilotHomePage")
	SetMap["copilotHomePage"] = CopilotHomePage.Delete
}
