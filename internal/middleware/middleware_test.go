package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func testConfig() *config.Config {
	return &config.Config{JWTSecret: testSecret, AppEnv: "production"}
}

func sign(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub, "exp": exp.Unix()})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func decodeError(t *testing.T, body io.Reader) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestErrorHandler_Kinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{services.Validation("title is required"), 400, "title is required"},
		{services.ErrCredentialExpired, 401, "token expired"},
		{services.Forbidden("wrong room password"), 403, "wrong room password"},
		{services.NotFound("room not found"), 404, "room not found"},
		{services.Conflict("song already in playlist"), 409, "song already in playlist"},
		{fiber.ErrRequestEntityTooLarge, 413, fiber.ErrRequestEntityTooLarge.Message},
		{errors.New("db exploded"), 500, "Internal server error"},
	}

	for _, tc := range cases {
		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(testConfig())})
		app.Get("/", func(c *fiber.Ctx) error { return tc.err })

		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.msg)
		body := decodeError(t, resp.Body)
		assert.Equal(t, tc.msg, body.Error)
		assert.Empty(t, body.Message)
	}
}

func TestErrorHandler_DevelopmentDetail(t *testing.T) {
	cfg := testConfig()
	cfg.AppEnv = "development"
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(cfg)})
	app.Get("/", func(c *fiber.Ctx) error { return errors.New("db exploded") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body := decodeError(t, resp.Body)
	assert.Equal(t, "Internal server error", body.Error)
	assert.Equal(t, "db exploded", body.Message)
}

func TestJWTProtected(t *testing.T) {
	cfg := testConfig()
	userID := uuid.New()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(cfg)})
	app.Get("/me", JWTProtected(cfg), func(c *fiber.Ctx) error {
		id, err := session.GetUserID(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String())
	})

	cases := []struct {
		name   string
		header string
		status int
		msg    string
	}{
		{"missing", "", 401, services.ErrCredentialMissing.Message},
		{"expired", "Bearer " + sign(t, userID.String(), time.Now().Add(-time.Hour)), 401, services.ErrCredentialExpired.Message},
		{"bad signature", "Bearer " + sign(t, userID.String(), time.Now().Add(time.Hour)) + "x", 401, services.ErrCredentialMalformed.Message},
		{"valid", "Bearer " + sign(t, userID.String(), time.Now().Add(time.Hour)), 200, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.status == 200 {
				b, _ := io.ReadAll(resp.Body)
				assert.Equal(t, userID.String(), string(b))
				return
			}
			assert.Equal(t, tc.msg, decodeError(t, resp.Body).Error)
		})
	}
}

func TestJWTProtected_RejectsEveryEditedSignatureCharacter(t *testing.T) {
	cfg := testConfig()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(cfg)})
	app.Get("/me", JWTProtected(cfg), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	token := sign(t, uuid.NewString(), time.Now().Add(time.Hour))
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := parts[2]

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	for i := 0; i < len(sig); i++ {
		for _, r := range alphabet {
			if byte(r) == sig[i] {
				continue
			}
			req := httptest.NewRequest("GET", "/me", nil)
			req.Header.Set("Authorization", "Bearer "+parts[0]+"."+parts[1]+"."+sig[:i]+string(r)+sig[i+1:])
			resp, err := app.Test(req)
			require.NoError(t, err)
			if !assert.Equal(t, 401, resp.StatusCode, "pos %d %q->%q", i, sig[i], r) {
				return
			}
		}
	}

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}

func TestAdminRequired(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.AdminToken = "root-token"

	st := store.NewMemoryStore()
	admin := &models.User{ID: uuid.New(), Nickname: "admin", Role: models.RoleAdmin}
	user := &models.User{ID: uuid.New(), Nickname: "user", Role: models.RoleUser}
	require.NoError(t, st.CreateUser(ctx, admin))
	require.NoError(t, st.CreateUser(ctx, user))

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(cfg)})
	app.Post("/reset", OptionalJWT(cfg), AdminRequired(st, cfg), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	do := func(header, value string) int {
		req := httptest.NewRequest("POST", "/reset", nil)
		if header != "" {
			req.Header.Set(header, value)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	exp := time.Now().Add(time.Hour)
	assert.Equal(t, 401, do("", ""))
	assert.Equal(t, 204, do("X-Admin-Token", "root-token"))
	assert.Equal(t, 401, do("X-Admin-Token", "wrong"))
	assert.Equal(t, 204, do("Authorization", "Bearer "+sign(t, admin.ID.String(), exp)))
	assert.Equal(t, 403, do("Authorization", "Bearer "+sign(t, user.ID.String(), exp)))

	cfg.AppEnv = "development"
	assert.Equal(t, 204, do("", ""))
}
