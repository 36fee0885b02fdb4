package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"maa.plus/backend-next/internal/model/types"
	"maa.plus/backend-next/internal/pkg/rekuest"
	"maa.plus/backend-next/internal/server/svr"
	"maa.plus/backend-next/internal/service"
)

type User struct {
	fx.In

	UserService *service.User
}

func RegisterUser(v1 *svr.V1, c User) {
	user := v1.Group("/user")

	user.Post("/register", c.Register)
	user.Post("/login", c.Login)
	user.Get("/activate/account", c.ActivateAccount)
	user.Post("/password/reset_request", c.ResetPasswordRequest)
	user.Post("/password/reset", c.ResetPassword)

	authed := user.Group("", c.UserService.Middleware())
	authed.Post("/activate", c.Activate)
	authed.Post("/activate/resend", c.ResendActivation)
	authed.Post("/update/info", c.UpdateInfo)
	authed.Post("/update/password", c.UpdatePassword)
}

func (c *User) Register(ctx *fiber.Ctx) error {
	var req types.RegisterReq
	if err := rekuest.ValidBody(ctx, &req); err != nil {
		return err
	}

	info, err := c.UserService.Register(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(types.Success("registered successfully", info))
}

func (c *User) Login(ctx *fiber.Ctx) error {
	var req types.LoginReq
	if err := rekuest.ValidBody(ctx, &req); err != nil {
		return err
	}

	rsp, err := c.UserService.Login(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(types.Success("logged in successfully", rsp))
}

func (c *User) Activate(ctx *fiber.Ctx) error {
	loginUser, err := service.CurrentUser(ctx)
	if err != nil {
		return err
	}

	var req types.ActivateReq
	if err := rekuest.ValidBody(ctx, &req); err != nil {
		return err
	}

	if err := c.UserService.ActivateByCode(ctx.UserContext(), loginUser, req.Code); err != nil {
		return err
	}
	return ctx.JSON(types.Success("account activated", fiber.Map{}))
}

// ActivateAccount handles activation links clicked from mail, carrying a
// one-time nonce as a query param.
func (c *User) ActivateAccount(ctx *fiber.Ctx) error {
	var req types.ActivateAccountReq
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}
	if err := rekuest.ValidStruct(ctx, &req); err != nil {
		return err
	}

	if err := c.UserService.ActivateByNonce(ctx.UserContext(), req.Nonce); err != nil {
		return err
	}
	return ctx.JSON(types.Success("account activated", fiber.Map{}))
}

func (c *User) ResendActivation(ctx *fiber.Ctx) error {
	loginUser, err := service.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if err := c.UserService.ResendActivation(ctx.UserContext(), loginUser); err != nil {
		return err
	}
	return ctx.JSON(types.Success("activation mail sent", fiber.Map{}))
}

func (c *User) UpdateInfo(ctx *fiber.Ctx) error {
	loginUser, err := service.CurrentUser(ctx)
	if err != nil {
		return err
	}

	var req types.UserInfoUpdateReq
	if err := rekuest.ValidBody(ctx, &req); err != nil {
		return err
	}

	if err := c.UserService.UpdateInfo(ctx.UserContext(), loginUser, &req); err != nil {
		return err
	}
	return ctx.JSON(types.Success("updated successfully", fiber.Map{}))
}

func (c *User) UpdatePassword(ctx *fiber.Ctx) error {
	loginUser, err := service.CurrentUser(ctx)
	if err != nil {
		return err
	}

	var req types.PasswordUpdateReq
	if err := rekuest.ValidBody(ctx, &req); err != nil {
		return err
	}

	if err := c.UserService.UpdatePassword(ctx.UserContext(), loginUser, &req); err != nil {
		return err
	}
	return ctx.JSON(types.Success("updated successfully", fiber.Map{}))
}

func (c *User) ResetPasswordRequest(ctx *fiber.Ctx) error {
	var req types.PasswordResetRequestReq
	if err := rekuest.ValidBody(ctx, &req); err != nil {
		return err
	}

	if err := c.UserService.ResetPasswordRequest(ctx.UserContext(), req.Email); err != nil {
		return err
	}
	return ctx.JSON(types.Success("password reset mail sent", fiber.Map{}))
}

func (c *User) ResetPassword(ctx *fiber.Ctx) error {
	var req types.PasswordResetReq
	if err := rekuest.ValidBody(ctx, &req); err != nil {
		return err
	}

	if err := c.UserService.ResetPassword(ctx.UserContext(), &req); err != nil {
		return err
	}
	return ctx.JSON(types.Success("password reset successfully", fiber.Map{}))
}
