package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nadart/gallery/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	bcryptCost    = 12
	resetTokenTTL = time.Hour
)

var (
	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotAllowed    = errors.New("this email is not allowed to access the admin panel")
	ErrUserNotFound       = errors.New("user not found")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
)

// AuthService handles credential verification, the allow-listed Google login
// and the password reset lifecycle.
type AuthService struct {
	db         *gorm.DB
	tokens     *TokenManager
	adminEmail string
}

// UserInfo is the public identity slice returned with a login.
type UserInfo struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// LoginResult bundles a signed token with the authenticated user.
type LoginResult struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// NewAuthService creates an AuthService instance. adminEmail is the only
// address allowed through federated login.
func NewAuthService(gdb *gorm.DB, tokens *TokenManager, adminEmail string) *AuthService {
	return &AuthService{db: gdb, tokens: tokens, adminEmail: adminEmail}
}

// Login verifies an email/password pair and issues a token.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	var user db.User
	if err := s.db.Where("email = ?", strings.TrimSpace(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 空哈希表示仅 Google 登录的账号，密码登录一律拒绝
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.loginResult(&user)
}

// GoogleLogin accepts an externally verified Google identity. Only the
// allow-listed admin email may pass; the first sight creates the account,
// later logins link the Google id to it.
func (s *AuthService) GoogleLogin(googleID, email string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if !strings.EqualFold(email, s.adminEmail) {
		return nil, ErrEmailNotAllowed
	}

	var user db.User
	err := s.db.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = db.User{Email: email, GoogleID: googleID}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case user.GoogleID == "":
		if err := s.db.Model(&user).Update("google_id", googleID).Error; err != nil {
			return nil, err
		}
	}

	return s.loginResult(&user)
}

// GetUser fetches a user by id.
func (s *AuthService) GetUser(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if user.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	return s.db.Model(user).Update("password_hash", string(hashed)).Error
}

// RequestPasswordReset stores a time-boxed single-use token on the user row
// and returns it. An unknown email returns an empty token and no error so the
// endpoint never reveals which accounts exist.
func (s *AuthService) RequestPasswordReset(email string) (string, error) {
	var user db.User
	if err := s.db.Where("email = ?", strings.TrimSpace(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	token := uuid.NewString()
	expires := time.Now().Add(resetTokenTTL)
	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"reset_token":         token,
		"reset_token_expires": expires,
	}).Error; err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword consumes a reset token: the new hash is stored and the token
// cleared in one update, so a token never works twice.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrResetTokenInvalid
	}

	var user db.User
	if err := s.db.
		Where("reset_token = ? AND reset_token_expires > ?", token, time.Now()).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}

	return s.db.Model(&user).Updates(map[string]interface{}{
		"password_hash":       string(hashed),
		"reset_token":         nil,
		"reset_token_expires": nil,
	}).Error
}

func (s *AuthService) loginResult(user *db.User) (*LoginResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token: token,
		User:  UserInfo{ID: user.ID, Email: user.Email},
	}, nil
}
