package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/fintrack/internal/auth"
	"github.com/geocoder89/fintrack/internal/config"
	"github.com/geocoder89/fintrack/internal/domain/user"
	"github.com/geocoder89/fintrack/internal/security"
)

type UserReader interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, username, passwordHash string) (user.User, error)
}

type PasswordRotator interface {
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	rotator    PasswordRotator
	jwt        *auth.Manager
	cfg        config.Config
}

func NewAuthHandler(users UserReader, userWriter UserWriter, rotator PasswordRotator, jwtManager *auth.Manager, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		rotator:    rotator,
		jwt:        jwtManager,
		cfg:        cfg,
	}
}

func safeUser(u user.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"username":  u.Username,
		"createdAt": u.CreatedAt,
	}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	if reason := user.CredentialsProblem(req.Username, req.Password); reason != "" {
		RespondBadRequest(ctx, reason, nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.userWriter.Create(cctx, req.Username, hash)

	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			RespondConflict(ctx, "username_taken", "Username already exists")
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"user": safeUser(u),
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}
	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByUsername(cctx, strings.TrimSpace(req.Username))
	if err != nil {
		// deliberately generic: never say which field was wrong
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password, h.cfg.LegacySecret)

	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	// Upgrade imported legacy digests to bcrypt on the first good login.
	if security.NeedsRehash(foundUser.PasswordHash) && h.rotator != nil {
		if newHash, hashErr := security.HashPassword(req.Password); hashErr == nil {
			_ = h.rotator.UpdatePasswordHash(cctx, foundUser.ID, newHash)
		}
	}

	accessToken, err := h.jwt.GenerateAccessToken(foundUser.ID, foundUser.Username)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"accessToken": accessToken,
		"user":        safeUser(foundUser),
	})
}
