package rekuest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleReq struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		violations := validateStruct(&sampleReq{
			Email:    "doctor@example.com",
			Password: "longenough",
		})
		assert.Nil(t, violations)
	})

	t.Run("Invalid", func(t *testing.T) {
		violations := validateStruct(&sampleReq{
			Email:    "not-an-email",
			Password: "short",
		})
		require.Len(t, violations, 2)
		assert.Equal(t, "email", violations[0].Violation)
		assert.Equal(t, "min", violations[1].Violation)
	})
}
