package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"maa.plus/backend-next/internal/model/types"
	"maa.plus/backend-next/internal/pkg/maaerr"
	"maa.plus/backend-next/internal/pkg/rekuest"
	"maa.plus/backend-next/internal/server/svr"
	"maa.plus/backend-next/internal/service"
)

type Copilot struct {
	fx.In

	CopilotService *service.Copilot
	UserService    *service.User
}

func RegisterCopilot(v1 *svr.V1, c Copilot) {
	copilot := v1.Group("/copilot")

	copilot.Get("/get/:id", c.GetByID)
	copilot.Get("/query", c.Query)

	authed := copilot.Group("", c.UserService.Middleware())
	authed.Post("/upload", c.Upload)
	authed.Post("/update", c.Update)
	authed.Post("/delete", c.Delete)
	authed.Post("/rating", c.Rate)
}

func (c *Copilot) GetByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return maaerr.ErrInvalidReq.Msg("invalid or missing copilot id")
	}

	info, err := c.CopilotService.GetByID(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(types.Success("success", info))
}

func (c *Copilot) Query(ctx *fiber.Ctx) error {
	var req types.CopilotQueryReq
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	page, err := c.CopilotService.Query(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(types.Success("success", page))
}

func (c *Copilot) Upload(ctx *fiber.Ctx) error {
	loginUser, err := service.CurrentUser(ctx)
	if err != nil {
		return err
	}

	var req types.CopilotUploadReq
	if err := rekuest.ValidBody(ctx, &req); err != nil {
		return err
	}

	id, err := c.CopilotService.Upload(ctx.UserContext(), loginUser, req.Content)
	if err != nil {
		return err
	}
	return ctx.JSON(types.Success("uploaded successfully", id))
}

func (c *Copilot) Update(ctx *fiber.Ctx) error {
	loginUser, err := service.CurrentUser(ctx)
	if err != nil {
		return err
	}

	var req types.CopilotUpdateReq
	if err := rekuest.ValidBody(ctx, &req); err != nil {
		return err
	}

	if err := c.CopilotService.Update(ctx.UserContext(), loginUser, req.ID, req.Content); err != nil {
		return err
	}
	return ctx.JSON(types.Success("updated successfully", fiber.Map{}))
}

func (c *Copilot) Delete(ctx *fiber.Ctx) error {
	loginUser, err := service.CurrentUser(ctx)
	if err != nil {
		return err
	}

	var req types.CopilotDeleteReq
	if err := rekuest.ValidBody(ctx, &req); err != nil {
		return err
	}

	if err := c.CopilotService.Delete(ctx.UserContext(), loginUser, req.ID); err != nil {
		return err
	}
	return ctx.JSON(types.Success("deleted successfully", fiber.Map{}))
}

func (c *Copilot) Rate(ctx *fiber.Ctx) error {
	loginUser, err := service.CurrentUser(ctx)
	if err != nil {
		return err
	}

	var req types.CopilotRatingReq
	if err := rekuest.ValidBody(ctx, &req); err != nil {
		return err
	}

	if err := c.CopilotService.Rate(ctx.UserContext(), loginUser, req.ID, req.Rating); err != nil {
		return err
	}
	return ctx.JSON(types.Success("rated successfully", fiber.Map{}))
}
