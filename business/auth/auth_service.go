package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"caseAssist/domain"
	"caseAssist/pkg/logger"
	"caseAssist/pkg/utils"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrTokenNotFound      = errors.New("token not found or expired")
	ErrUserExists         = errors.New("username or email already registered")
	ErrInvalidUser        = errors.New("invalid user")
)

const TokenTypeBearer = "bearer"

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// TokenStore contract interface
type TokenStore interface {
	StoreToken(ctx context.Context, userID, token string, data domain.TokenData, ttl time.Duration) error
	ValidateToken(ctx context.Context, token string) (string, error)
	DeleteToken(ctx context.Context, userID, token string) error
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ClientInfo describes where a login came from.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

type authService struct {
	userRepo UserRepository
	tokens   TokenStore
	validate *validator.Validate
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(userRepo UserRepository, tokens TokenStore, validate *validator.Validate, ttl time.Duration) *authService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		validate: validate,
		ttl:      ttl,
		now:      time.Now,
	}
}

type NewUser struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Role     string `validate:"required,oneof=admin case_worker"`
}

// CreateUser registers an account. Accounts are provisioned out of band, so
// this is only reachable from the CLI.
func (s *authService) CreateUser(ctx context.Context, in NewUser) (domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}

	if existing, err := s.userRepo.FindByUsername(ctx, in.Username); err == nil && existing.ID > 0 {
		return domain.User{}, ErrUserExists
	}
	if existing, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil && existing.ID > 0 {
		return domain.User{}, ErrUserExists
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
		Role:     in.Role,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		logger.Error("Failed to create user", "error", err)
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	user.Password = ""
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string, info ClientInfo) (Token, error) {
	if err := ctx.Err(); err != nil {
		return Token{}, fmt.Errorf("context error: %w", err)
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Login for unknown user", "username", username)
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, fmt.Errorf("failed to get user: %w", err)
	}

	if !utils.CheckPassword(password, user.Password) {
		logger.Warn("User password incorrect", "user_id", user.ID)
		return Token{}, ErrInvalidCredentials
	}

	userID := strconv.FormatUint(uint64(user.ID), 10)
	token, err := utils.GenerateJWT(userID, user.Role)
	if err != nil {
		logger.Error("Failed to generate token", "error", err)
		return Token{}, fmt.Errorf("failed to generate token: %w", err)
	}

	issued := s.now().UTC()
	data := domain.TokenData{
		UserID:    userID,
		Role:      user.Role,
		Token:     token,
		IssuedAt:  issued,
		ExpiresAt: issued.Add(s.ttl),
		IPAddress: info.IPAddress,
		UserAgent: info.UserAgent,
	}
	if err := s.tokens.StoreToken(ctx, userID, token, data, s.ttl); err != nil {
		logger.Error("Failed to store token", "user_id", userID, "error", err)
		return Token{}, fmt.Errorf("failed to store token: %w", err)
	}

	logger.Info("User logged in", "user_id", userID, "role", user.Role)
	return Token{AccessToken: token, TokenType: TokenTypeBearer}, nil
}

func (s *authService) Logout(ctx context.Context, userID uint, token string) error {
	id := strconv.FormatUint(uint64(userID), 10)
	if err := s.tokens.DeleteToken(ctx, id, token); err != nil {
		logger.Error("Failed to delete token", "user_id", id, "error", err)
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// ValidateTokenFromRedis returns the user id the token was issued to.
func (s *authService) ValidateTokenFromRedis(ctx context.Context, token string) (string, error) {
	userID, err := s.tokens.ValidateToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenNotFound, err)
	}
	return userID, nil
}
