package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nadart/gallery/internal/service"
)

type loginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type googleLoginPayload struct {
	Credential string `json:"credential" binding:"required"`
}

type changePasswordPayload struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type forgotPasswordPayload struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordPayload struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// Login verifies email/password credentials and returns a bearer token.
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "email and password are required") {
		return
	}

	result, err := a.auth.Login(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GoogleLogin verifies a Google credential and returns a bearer token for the
// allow-listed admin account.
func (a *API) GoogleLogin(c *gin.Context) {
	var payload googleLoginPayload
	if !bindJSON(c, &payload, "credential is required") {
		return
	}

	identity, err := a.google.Verify(c.Request.Context(), payload.Credential)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid google credential")
		return
	}

	result, err := a.auth.GoogleLogin(identity.Subject, identity.Email)
	if err != nil {
		if errors.Is(err, service.ErrEmailNotAllowed) {
			respondError(c, http.StatusForbidden, "this account is not allowed to sign in")
			return
		}
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Me returns the authenticated user's identity.
func (a *API) Me(c *gin.Context) {
	user, err := a.auth.GetUser(currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": service.UserInfo{ID: user.ID, Email: user.Email}})
}

// Logout acknowledges a logout. Tokens are stateless, so the client simply
// discards its copy.
func (a *API) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// ChangePassword replaces the authenticated user's password.
func (a *API) ChangePassword(c *gin.Context) {
	var payload changePasswordPayload
	if !bindJSON(c, &payload, "currentPassword and newPassword are required") {
		return
	}

	err := a.auth.ChangePassword(currentUserID(c), payload.CurrentPassword, payload.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, "current password is incorrect")
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusUnauthorized, "authentication required")
		default:
			respondError(c, http.StatusInternalServerError, "failed to change password")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// ForgotPassword starts a password reset. The response is identical whether or
// not the email exists.
func (a *API) ForgotPassword(c *gin.Context) {
	var payload forgotPasswordPayload
	if !bindJSON(c, &payload, "email is required") {
		return
	}

	if _, err := a.auth.RequestPasswordReset(payload.Email); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to process request")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "if the email exists, a reset link has been sent"})
}

// ResetPassword completes a password reset with a single-use token.
func (a *API) ResetPassword(c *gin.Context) {
	var payload resetPasswordPayload
	if !bindJSON(c, &payload, "token and newPassword are required") {
		return
	}

	if err := a.auth.ResetPassword(payload.Token, payload.NewPassword); err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) {
			respondError(c, http.StatusBadRequest, "invalid or expired reset token")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to reset password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
