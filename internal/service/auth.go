package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mbela/lookbook/internal/config"
	"github.com/mbela/lookbook/internal/domain"
	"github.com/mbela/lookbook/internal/logger"
)

// UserStore provides the account lookups AuthService needs.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// TokenPair is an access token plus the refresh token that renews it.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Claims is the JWT payload carried by both token kinds.
type Claims struct {
	UserID uint        `json:"uid"`
	Role   domain.Role `json:"role"`
	Kind   string      `json:"kind"` // access or refresh
	jwt.RegisteredClaims
}

// RegisterInput holds the fields required to create an account.
type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

// AuthService handles registration, login and JWT issuance.
type AuthService struct {
	users  UserStore
	logger *logger.Logger

	secret          []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// NewAuthService creates an AuthService.
func NewAuthService(users UserStore, cfg *config.AuthConfig, log *logger.Logger) *AuthService {
	return &AuthService{
		users:           users,
		logger:          log.WithField(logger.FieldComponent, "auth_service"),
		secret:          []byte(cfg.Secret),
		accessTokenTTL:  time.Duration(cfg.AccessTokenTTL) * time.Minute,
		refreshTokenTTL: time.Duration(cfg.RefreshTokenTTL) * 24 * time.Hour,
	}
}

// Register creates a new account with a bcrypt-hashed password.
// Returns:
//   - *domain.User: the created account.
//   - error: ErrUserExists when the username or email is taken.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*domain.User, error) {
	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hash),
		FullName: input.FullName,
		IsActive: true,
		Role:     domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.CtxInfo(ctx, "user registered", logger.Fields{logger.FieldUserID: user.ID})
	return user, nil
}

// Login verifies credentials and issues a token pair. The username field also
// accepts the account email.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.users.GetByEmail(ctx, username)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	s.logger.CtxInfo(ctx, "user logged in", logger.Fields{logger.FieldUserID: user.ID})
	return pair, nil
}

// Refresh validates a refresh token and issues a fresh token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Kind != "refresh" {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	return s.issueTokens(user)
}

// GetProfile returns the account behind a user ID.
func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ParseToken validates a signed token and returns its claims.
// Returns:
//   - *Claims: token payload.
//   - error: ErrInvalidToken for any signature, expiry or format problem.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) issueTokens(user *domain.User) (*TokenPair, error) {
	access, err := s.signToken(user, "access", s.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := s.signToken(user, "refresh", s.refreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTokenTTL.Seconds()),
	}, nil
}

func (s *AuthService) signToken(user *domain.User, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
