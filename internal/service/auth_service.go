package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"bench_monitor/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrUserExists      = errors.New("user already exists")
	ErrInvalidUsername = errors.New("username must be 1-64 letters, digits, '.', '_' or '-'")
	ErrWeakPassword    = fmt.Errorf("password must be at least %d characters", minPasswordLen)
)

const (
	tokenIssuer    = "bench-monitor"
	maxUsernameLen = 64
	minPasswordLen = 6
)

// AuthService registers operators and issues the tokens that gate commands,
// threshold edits and log access.
type AuthService struct {
	authRepo   repository.Authorization
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewAuthService(repo repository.Authorization, signingKey string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		authRepo:   repo,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

// Claims is the token payload. UserID duplicates the subject as a number.
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// SignUp creates an operator with a bcrypt-hashed password.
func (s *AuthService) SignUp(username, password string) (int, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return 0, err
	}
	if len([]rune(password)) < minPasswordLen {
		return 0, ErrWeakPassword
	}

	existing, err := s.authRepo.GetByUsername(username)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	id, err := s.authRepo.Create(username, string(hash))
	if errors.Is(err, repository.ErrDuplicate) {
		return 0, ErrUserExists
	}
	return id, err
}

// GenerateToken checks the credentials and returns a signed token.
func (s *AuthService) GenerateToken(username, password string) (string, error) {
	u, err := s.authRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID: u.ID,
	})
	return token.SignedString(s.signingKey)
}

// ParseToken validates a token issued by GenerateToken and returns the operator id.
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(accessToken, claims,
		func(*jwt.Token) (interface{}, error) { return s.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID <= 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

func normalizeUsername(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || len(name) > maxUsernameLen {
		return "", ErrInvalidUsername
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return "", ErrInvalidUsername
		}
	}
	return name, nil
}
