package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/seed"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	maxNicknameLen   = 64
	maxSecretCodeLen = 128
	maxAvatarLen     = 64
	maxColorLen      = 16

	defaultAvatar = "fas fa-user"
	defaultColor  = "#ffcfe1"
)

// Claims is the session credential payload. Only Subject is authoritative;
// the profile fields are a convenience snapshot taken at issue time.
type Claims struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Color    string `json:"color"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type IdentityService struct {
	users  store.UserStore
	seeds  *seed.Registry
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewIdentityService(users store.UserStore, seeds *seed.Registry, cfg *config.Config) *IdentityService {
	return &IdentityService{
		users:  users,
		seeds:  seeds,
		secret: []byte(cfg.JWTSecret),
		expiry: cfg.JWTExpiry,
		now:    time.Now,
	}
}

// Authenticate resolves a secret code to a user, provisioning seed users on
// their first login.
func (s *IdentityService) Authenticate(ctx context.Context, secretCode string) (*dto.AuthResponse, error) {
	if secretCode == "" {
		return nil, Validation("secret code is required")
	}

	hash := HashSecret(secretCode)
	user, err := s.users.GetUserBySecret(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		user, err = s.provision(ctx, secretCode, hash)
	}
	if err != nil {
		return nil, err
	}

	return s.authResponse(user)
}

func (s *IdentityService) provision(ctx context.Context, secretCode, hash string) (*models.User, error) {
	seedUser, ok := s.seeds.Lookup(secretCode)
	if !ok {
		return nil, ErrInvalidCredential
	}

	user := &models.User{
		ID:         uuid.New(),
		Nickname:   seedUser.Nickname,
		SecretHash: &hash,
		Avatar:     orDefault(seedUser.Avatar, defaultAvatar),
		Color:      orDefault(seedUser.Color, defaultColor),
		Role:       seedUser.Role,
	}
	err := s.users.CreateUser(ctx, user)
	if errors.Is(err, store.ErrDuplicate) {
		// A concurrent login provisioned the same code first.
		existing, getErr := s.users.GetUserBySecret(ctx, hash)
		if getErr == nil {
			return existing, nil
		}
		return nil, Conflict("nickname of this seed user is already taken")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}

	slog.Info("seed user provisioned", "user_id", user.ID.String(), "role", user.Role)
	return user, nil
}

func (s *IdentityService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" || req.SecretCode == "" {
		return nil, Validation("nickname and secret code are required")
	}
	if utf8.RuneCountInString(nickname) > maxNicknameLen {
		return nil, Validation("nickname must be at most %d characters", maxNicknameLen)
	}
	if len(req.SecretCode) > maxSecretCodeLen {
		return nil, Validation("secret code must be at most %d characters", maxSecretCodeLen)
	}
	if err := CheckPublicName("nickname", nickname); err != nil {
		return nil, err
	}
	if _, reserved := s.seeds.Lookup(req.SecretCode); reserved {
		return nil, Conflict("a user with this nickname or secret code already exists")
	}
	if _, reserved := s.seeds.NicknameOwner(nickname); reserved {
		return nil, Conflict("a user with this nickname or secret code already exists")
	}

	hash := HashSecret(req.SecretCode)
	user := &models.User{
		ID:         uuid.New(),
		Nickname:   nickname,
		SecretHash: &hash,
		Avatar:     orDefault(clip(req.Avatar, maxAvatarLen), defaultAvatar),
		Color:      orDefault(clip(req.Color, maxColorLen), defaultColor),
		Role:       models.RoleUser,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, Conflict("a user with this nickname or secret code already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.authResponse(user)
}

func (s *IdentityService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the well-formed fields of req. When none are
// well-formed the current profile is returned unchanged.
func (s *IdentityService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.AuthResponse, error) {
	var update store.UserUpdate
	if v, ok := wellFormed(req.Nickname, maxNicknameLen); ok {
		if err := CheckPublicName("nickname", v); err != nil {
			return nil, err
		}
		if err := s.checkReservedNickname(ctx, userID, v); err != nil {
			return nil, err
		}
		update.Nickname = &v
	}
	if v, ok := wellFormed(req.Avatar, maxAvatarLen); ok {
		update.Avatar = &v
	}
	if v, ok := wellFormed(req.Color, maxColorLen); ok {
		update.Color = &v
	}

	var (
		user *models.User
		err  error
	)
	if update.Empty() {
		user, err = s.GetProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		return s.authResponse(user)
	}

	user, err = s.users.UpdateUser(ctx, userID, update)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, NotFound("user not found")
	case errors.Is(err, store.ErrDuplicate):
		return nil, Conflict("nickname is already taken")
	case err != nil:
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.authResponse(user)
}

// checkReservedNickname refuses seed and system nicknames unless userID is
// the seed user the nickname belongs to.
func (s *IdentityService) checkReservedNickname(ctx context.Context, userID uuid.UUID, nickname string) error {
	owner, reserved := s.seeds.NicknameOwner(nickname)
	if !reserved {
		return nil
	}
	if owner != "" {
		user, err := s.GetProfile(ctx, userID)
		if err != nil {
			return err
		}
		if user.SecretHash != nil && *user.SecretHash == HashSecret(owner) {
			return nil
		}
	}
	return Conflict("nickname is already taken")
}

// IssueCredential signs a session credential for user.
func (s *IdentityService) IssueCredential(user *models.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:   user.ID.String(),
		Nickname: user.Nickname,
		Avatar:   user.Avatar,
		Color:    user.Color,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateCredential verifies signature and expiry and returns the user id.
func (s *IdentityService) ValidateCredential(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrCredentialMissing
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithStrictDecoding(), jwt.WithTimeFunc(s.now))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return uuid.Nil, ErrCredentialExpired
	}
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrCredentialMalformed
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrCredentialMalformed
	}
	return userID, nil
}

func (s *IdentityService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.IssueCredential(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &dto.AuthResponse{
		Success: true,
		Token:   token,
		User:    dto.NewUserResponse(user),
	}, nil
}

// HashSecret returns the lookup digest stored in place of a secret code.
func HashSecret(secretCode string) string {
	h := sha256.Sum256([]byte(secretCode))
	return fmt.Sprintf("%x", h)
}

func wellFormed(v *string, maxLen int) (string, bool) {
	if v == nil {
		return "", false
	}
	s := strings.TrimSpace(*v)
	if s == "" || utf8.RuneCountInString(s) > maxLen {
		return "", false
	}
	return s, true
}

func clip(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxLen {
		return ""
	}
	return s
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
