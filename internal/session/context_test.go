package session

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserID(t *testing.T) {
	id := uuid.New()

	cases := []struct {
		name   string
		locals interface{}
		want   uuid.UUID
		ok     bool
	}{
		{"no token", nil, uuid.Nil, false},
		{"valid sub", &jwt.Token{Claims: jwt.MapClaims{"sub": id.String(), "role": "admin"}}, id, true},
		{"missing sub", &jwt.Token{Claims: jwt.MapClaims{}}, uuid.Nil, false},
		{"bad sub", &jwt.Token{Claims: jwt.MapClaims{"sub": "nope"}}, uuid.Nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				if tc.locals != nil {
					c.Locals(LocalsKey, tc.locals)
				}
				got, err := GetUserID(c)
				if tc.ok {
					assert.NoError(t, err)
					assert.Equal(t, tc.want, got)
				} else {
					assert.Error(t, err)
				}
				return nil
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		})
	}
}
