package auth

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/crickpro/config"
	"github.com/DhavalSuthar-24/crickpro/internal/middleware"
	"github.com/DhavalSuthar-24/crickpro/internal/telemetry"
	"github.com/DhavalSuthar-24/crickpro/internal/user"
	"github.com/DhavalSuthar-24/crickpro/pkg/matchresponse"
	"github.com/DhavalSuthar-24/crickpro/pkg/token"
	putils "github.com/DhavalSuthar-24/crickpro/pkg/utils"
	"github.com/DhavalSuthar-24/crickpro/utils"
)

// DefaultUserRole is given to every self-registered account.
const DefaultUserRole = user.RoleScorer

type AuthController struct {
	repo   AuthRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, cfg *config.Config) *AuthController {
	return &AuthController{repo: repo, config: cfg}
}

func (ac *AuthController) generateAndSaveTokens(userID uint, roles []string) (TokenPair, error) {
	role := DefaultUserRole
	for _, r := range roles {
		if r == user.RoleAdmin {
			role = r
		}
	}
	accessToken, err := token.GenerateJWT(userID, role, ac.config.JWT.AccessTokenSecret, ac.config.AccessTokenTTL())
	if err != nil {
		return TokenPair{}, fmt.Errorf("access token generation failed: %w", err)
	}

	refreshTokenString, err := putils.GenerateRefreshToken(userID, ac.config.JWT.RefreshTokenSecret, ac.config.RefreshTokenTTL())
	if err != nil {
		return TokenPair{}, fmt.Errorf("refresh token generation failed: %w", err)
	}

	refreshToken := &user.RefreshToken{
		UserID:    userID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().Add(ac.config.RefreshTokenTTL()),
	}
	if err := ac.repo.SaveRefreshToken(refreshToken); err != nil {
		return TokenPair{}, fmt.Errorf("failed to save refresh token: %w", err)
	}
	return TokenPair{AccessToken: accessToken, RefreshToken: refreshTokenString}, nil
}

// Register godoc
// @Summary      Register a scorer
// @Description  Creates an account with the scorer role and returns a token pair.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user body RegisterRequest true "New account"
// @Success      201 {object} matchresponse.SuccessBody{data=AuthResponse}
// @Failure      400 {object} matchresponse.ErrorBody
// @Failure      409 {object} matchresponse.ErrorBody "Email or username taken"
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := ac.repo.GetUserByEmail(email); !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Database error")
			return
		}
		matchresponse.ErrorResponse(c, http.StatusConflict, "User with this email already exists")
		return
	}
	if _, err := ac.repo.GetUserByUsername(req.Username); !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Database error")
			return
		}
		matchresponse.ErrorResponse(c, http.StatusConflict, "User with this username already exists")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Error hashing password")
		return
	}

	newUser := &user.User{
		Name:       req.Name,
		Username:   req.Username,
		Email:      email,
		Password:   hashedPassword,
		LastActive: time.Now(),
	}
	if err := ac.repo.CreateUser(newUser); err != nil {
		telemetry.Errorf("auth: create user %s failed: %v", req.Username, err)
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "User creation failed")
		return
	}
	if err := ac.repo.AssignRoleToUser(newUser.ID, DefaultUserRole); err != nil {
		telemetry.Errorf("auth: assign role %s to user %d failed: %v", DefaultUserRole, newUser.ID, err)
	}

	roles := []string{DefaultUserRole}
	pair, err := ac.generateAndSaveTokens(newUser.ID, roles)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	matchresponse.SuccessResponse(c, http.StatusCreated, AuthResponse{
		TokenPair: pair,
		User:      FilterUserRecord(newUser, roles),
	})
}

// Login godoc
// @Summary      Login
// @Description  Authenticates with email or username and password.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body LoginRequest true "Login credentials"
// @Success      200 {object} matchresponse.SuccessBody{data=AuthResponse}
// @Failure      400 {object} matchresponse.ErrorBody
// @Failure      401 {object} matchresponse.ErrorBody "Invalid credentials"
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}

	foundUser, err := ac.repo.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.LoginIdentifier)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		foundUser, err = ac.repo.GetUserByUsername(req.LoginIdentifier)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Database error")
		return
	}

	if !utils.CheckPassword(foundUser.Password, req.Password) {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	roles, err := ac.repo.GetUserRoles(foundUser.ID)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	pair, err := ac.generateAndSaveTokens(foundUser.ID, roles)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	foundUser.LastActive = time.Now()
	if err := ac.repo.UpdateUser(foundUser); err != nil {
		telemetry.Warnf("auth: updating last active for user %d: %v", foundUser.ID, err)
	}

	matchresponse.SuccessResponse(c, http.StatusOK, AuthResponse{
		TokenPair: pair,
		User:      FilterUserRecord(foundUser, roles),
	})
}

// RefreshToken godoc
// @Summary      Refresh tokens
// @Description  Exchanges a valid refresh token for a new pair. The old refresh token is revoked.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} matchresponse.SuccessBody{data=TokenPair}
// @Failure      400 {object} matchresponse.ErrorBody
// @Failure      401 {object} matchresponse.ErrorBody "Invalid or expired refresh token"
// @Router       /auth/refresh-token [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}

	userID, err := putils.VerifyRefreshToken(req.RefreshToken, ac.config.JWT.RefreshTokenSecret)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}
	rt, err := ac.repo.GetRefreshToken(req.RefreshToken)
	if err != nil || rt.UserID != userID {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}
	if err := ac.repo.InvalidateRefreshToken(req.RefreshToken); err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to rotate refresh token")
		return
	}

	roles, err := ac.repo.GetUserRoles(userID)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	pair, err := ac.generateAndSaveTokens(userID, roles)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Token generation failed")
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, pair)
}

// GetProfile godoc
// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Success      200 {object} matchresponse.SuccessBody{data=UserResponse}
// @Failure      401 {object} matchresponse.ErrorBody
// @Failure      404 {object} matchresponse.ErrorBody
// @Security     ApiKeyAuth
// @Router       /auth/me [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized: "+err.Error())
		return
	}

	currentUser, err := ac.repo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			matchresponse.ErrorResponse(c, http.StatusNotFound, "User not found")
			return
		}
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve profile")
		return
	}
	roles, err := ac.repo.GetUserRoles(userID)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, FilterUserRecord(currentUser, roles))
}

// Logout godoc
// @Summary      Logout
// @Description  Revokes the given refresh token, or every session of the user.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LogoutRequest false "Tokens to revoke"
// @Success      200 {object} matchresponse.SuccessBody
// @Failure      401 {object} matchresponse.ErrorBody
// @Security     ApiKeyAuth
// @Router       /auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized: "+err.Error())
		return
	}

	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}

	if req.RefreshToken != "" {
		if err := ac.repo.InvalidateRefreshToken(req.RefreshToken); err != nil {
			matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to invalidate refresh token")
			return
		}
	}
	if req.InvalidateAllSessions {
		if err := ac.repo.InvalidateAllRefreshTokensForUser(userID); err != nil {
			matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to invalidate all sessions")
			return
		}
	}

	matchresponse.SuccessResponse(c, http.StatusOK, gin.H{
		"message":                  "Logged out successfully",
		"all_sessions_invalidated": req.InvalidateAllSessions,
	})
}
