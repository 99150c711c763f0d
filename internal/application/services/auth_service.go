package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/permissions"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/config"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/logger"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "token"

// DefaultTokenTTL is how long an issued token stays valid
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrMissingSecret is returned when no signing secret is configured
var ErrMissingSecret = errors.New("JWT secret is not configured")

// Claims represents the JWT claims
type Claims struct {
	UserID string        `json:"userId"`
	Email  string        `json:"email"`
	Role   entities.Role `json:"role"`
	Name   string        `json:"name"`
	jwt.RegisteredClaims
}

// AuthService handles authentication operations
type AuthService struct {
	users         ports.UserRepository
	jwtConfig     config.JWTConfig
	secureCookies bool
	logger        *logger.Logger
	now           ports.Clock
}

// NewAuthService creates a new auth service. It refuses to start without a
// signing secret.
func NewAuthService(users ports.UserRepository, jwtConfig config.JWTConfig, secureCookies bool, log *logger.Logger) (*AuthService, error) {
	if jwtConfig.Secret == "" {
		return nil, ErrMissingSecret
	}
	if jwtConfig.ExpiresIn <= 0 {
		jwtConfig.ExpiresIn = DefaultTokenTTL
	}
	if jwtConfig.BcryptCost == 0 {
		jwtConfig.BcryptCost = 12
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &AuthService{
		users:         users,
		jwtConfig:     jwtConfig,
		secureCookies: secureCookies,
		logger:        log.WithComponent("auth"),
		now:           time.Now,
	}, nil
}

// Register creates a user account with the default role and signs it in
func (s *AuthService) Register(ctx context.Context, req ports.RegisterRequest) (*ports.AuthResponse, error) {
	if err := entities.Validate(req); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Add(ctx, &entities.User{
		Name:        req.Name,
		Email:       req.Email,
		Password:    hash,
		Role:        entities.RoleUser,
		Permissions: permissions.DefaultPermissions(entities.RoleUser),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infow("User registered successfully", "user_id", user.ID, "email", user.Email)
	return s.respond(user)
}

// Login checks credentials and issues a token
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest) (*ports.AuthResponse, error) {
	if err := entities.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, entities.ErrNotFound) {
		s.logger.Warnw("Login attempt with non-existent email", "email", req.Email)
		return nil, entities.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !s.ComparePassword(user.Password, req.Password) {
		s.logger.Warnw("Login attempt with invalid password", "email", req.Email, "user_id", user.ID)
		return nil, entities.ErrInvalidCredentials
	}

	s.logger.Infow("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return s.respond(user)
}

func (s *AuthService) respond(user *entities.User) (*ports.AuthResponse, error) {
	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResponse{Token: token, User: user}, nil
}

// GenerateToken signs an HS256 token carrying the user's identity
func (s *AuthService) GenerateToken(user *entities.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.jwtConfig.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.ExpiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken returns the token's claims, or nil when the token is malformed,
// expired or signed with another key.
func (s *AuthService) VerifyToken(tokenString string) *ports.Claims {
	if tokenString == "" {
		return nil
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	return &ports.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
		Name:   claims.Name,
	}
}

// HashPassword hashes with the configured bcrypt cost
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.jwtConfig.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches hash. A malformed hash
// never matches.
func (s *AuthService) ComparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SessionCookie wraps token in the session cookie
func (s *AuthService) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.jwtConfig.ExpiresIn.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearSessionCookie expires the session cookie
func (s *AuthService) ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}
