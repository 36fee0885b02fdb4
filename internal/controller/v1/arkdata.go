package v1

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"maa.plus/backend-next/internal/app/appconfig"
	"maa.plus/backend-next/internal/constant"
	"maa.plus/backend-next/internal/model/types"
	"maa.plus/backend-next/internal/pkg/cachectrl"
	"maa.plus/backend-next/internal/pkg/maaerr"
	"maa.plus/backend-next/internal/server/svr"
	"maa.plus/backend-next/internal/service"
)

type ArkData struct {
	fx.In

	Conf            *appconfig.Config
	GameDataService *service.GameData
}

func RegisterArkData(v1 *svr.V1, c ArkData) {
	arkdata := v1.Group("/arkdata")

	arkdata.Get("/stage", c.GetStage)
	arkdata.Get("/zone", c.GetZone)
	arkdata.Get("/character/:id", c.GetCharacter)
	arkdata.Get("/activity/:zoneId", c.GetActivity)
	arkdata.Get("/tower/:zoneId", c.GetTower)

	arkdata.Post("/sync", c.adminGuard, c.Sync)
}

func (c *ArkData) adminGuard(ctx *fiber.Ctx) error {
	auth := ctx.Get(fiber.HeaderAuthorization)
	key, found := strings.CutPrefix(auth, constant.JWTAuthorizationRealm+" ")
	if !found || c.Conf.AdminKey == "" || key != c.Conf.AdminKey {
		return maaerr.ErrUnauthorized.Msg("valid admin credentials are required")
	}
	return ctx.Next()
}

// mirrorCacheHeaders marks lookup responses cacheable until the next
// scheduled snapshot republish.
func (c *ArkData) mirrorCacheHeaders(ctx *fiber.Ctx) {
	if updated := c.GameDataService.LastUpdated(); !updated.IsZero() {
		cachectrl.OptInCustom(ctx, updated, c.Conf.GameDataSyncInterval)
	}
}

func (c *ArkData) GetStage(ctx *fiber.Ctx) error {
	stage := c.GameDataService.FindStage(ctx.Query("levelId"), ctx.Query("code"), ctx.Query("stageId"))
	if stage == nil {
		return maaerr.ErrNotFound.Msg("stage not found with given parameters")
	}
	c.mirrorCacheHeaders(ctx)
	return ctx.JSON(types.Success("success", stage))
}

func (c *ArkData) GetZone(ctx *fiber.Ctx) error {
	zone := c.GameDataService.FindZone(ctx.Query("levelId"), ctx.Query("code"), ctx.Query("stageId"))
	if zone == nil {
		return maaerr.ErrNotFound.Msg("zone not found with given parameters")
	}
	c.mirrorCacheHeaders(ctx)
	return ctx.JSON(types.Success("success", zone))
}

func (c *ArkData) GetCharacter(ctx *fiber.Ctx) error {
	character := c.GameDataService.FindCharacter(ctx.Params("id"))
	if character == nil {
		return maaerr.ErrNotFound.Msg("character not found with given parameters")
	}
	c.mirrorCacheHeaders(ctx)
	return ctx.JSON(types.Success("success", character))
}

func (c *ArkData) GetActivity(ctx *fiber.Ctx) error {
	activity := c.GameDataService.FindActivityByZoneID(ctx.Params("zoneId"))
	if activity == nil {
		return maaerr.ErrNotFound.Msg("activity not found with given parameters")
	}
	c.mirrorCacheHeaders(ctx)
	return ctx.JSON(types.Success("success", activity))
}

func (c *ArkData) GetTower(ctx *fiber.Ctx) error {
	tower := c.GameDataService.FindTower(ctx.Params("zoneId"))
	if tower == nil {
		return maaerr.ErrNotFound.Msg("tower not found with given parameters")
	}
	c.mirrorCacheHeaders(ctx)
	return ctx.JSON(types.Success("success", tower))
}

// Sync forces a full mirror refresh and reports the per-dataset outcomes.
// Partial failures still return 200: callers inspect the per-dataset errors.
func (c *ArkData) Sync(ctx *fiber.Ctx) error {
	results := c.GameDataService.SyncAll(ctx.UserContext())
	return ctx.JSON(types.Success("sync finished", results))
}
