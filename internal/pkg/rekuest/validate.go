package rekuest

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"maa.plus/backend-next/internal/pkg/maaerr"
)

var Validate = validator.New()

type ErrorResponse struct {
	Field     string `json:"field,omitempty"`
	Violation string `json:"violation"`
	Message   string `json:"message"`
}

func describe(ve validator.ValidationErrors) []*ErrorResponse {
	violations := make([]*ErrorResponse, 0, len(ve))
	for _, fe := range ve {
		violations = append(violations, &ErrorResponse{
			Field:     fe.Namespace(),
			Violation: fe.Tag(),
			Message:   fe.Error(),
		})
	}
	return violations
}

func validateStruct(s any) []*ErrorResponse {
	err := Validate.Struct(s)
	if err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			panic(err)
		}
		return describe(errs)
	}
	return nil
}

// ValidBody gets the body from *fiber.Ctx using fiber#BodyParser(), and
// validates it using the validator singleton. If the validation passed it
// writes the unmarshalled body to dest and returns nil, otherwise it returns
// an error. Notice that dest shall always be a pointer.
func ValidBody(ctx *fiber.Ctx, dest any) error {
	if err := ctx.BodyParser(dest); err != nil {
		return maaerr.ErrInvalidReq.Msg("invalid request: %s", err)
	}

	if err := validateStruct(dest); err != nil {
		return maaerr.NewInvalidViolations(err)
	}

	return nil
}

func ValidStruct(ctx *fiber.Ctx, dest any) error {
	if err := validateStruct(dest); err != nil {
		return maaerr.NewInvalidViolations(err)
	}

	return nil
}

func ValidVar(ctx *fiber.Ctx, field any, tag string) error {
	err := Validate.Var(field, tag)
	if err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			panic(err)
		}
		return maaerr.NewInvalidViolations(describe(errs))
	}

	return nil
}
