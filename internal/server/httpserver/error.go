package httpserver

import (
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"maa.plus/backend-next/internal/constant"
	"maa.plus/backend-next/internal/model"
	"maa.plus/backend-next/internal/pkg/maaerr"
)

func handleCustomError(ctx *fiber.Ctx, e *maaerr.MaaError) error {
	log.Warn().
		Err(e).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Msg(e.Message)

	body := fiber.Map{
		"code":    e.ErrorCode,
		"message": e.Message,
	}

	if e.Extras != nil && len(*e.Extras) > 0 {
		for k, v := range *e.Extras {
			body[k] = v
		}
	}

	return ctx.Status(e.StatusCode).JSON(body)
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	if e, ok := err.(*maaerr.MaaError); ok {
		return handleCustomError(ctx, e)
	}

	// Default to 500 on errors of unknown shape
	re := *maaerr.ErrInternalError

	if e, ok := err.(*fiber.Error); ok {
		re.StatusCode = e.Code
		re.ErrorCode = "UNKNOWN_ERROR"
		re.Message = e.Message
	}

	log.Error().
		Stack().
		Err(err).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Int("status", re.StatusCode).
		Msg("Internal Server Error")

	if hub := fibersentry.GetHubFromContext(ctx); hub != nil {
		hub.Scope().SetTag("status", strconv.Itoa(re.StatusCode))
		if u, ok := ctx.Locals(constant.ContextKeyLoginUser).(*model.LoginUser); ok && u != nil {
			hub.Scope().SetUser(sentry.User{
				ID: strconv.Itoa(u.User.UserID),
			})
		}
		hub.CaptureException(err)
	}

	return handleCustomError(ctx, &re)
}
