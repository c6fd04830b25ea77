package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
	"github.com/RohanLambture/InteractiveQ/internal/repository"
	"github.com/RohanLambture/InteractiveQ/internal/service"
	"github.com/RohanLambture/InteractiveQ/pkg/errors"
	"github.com/RohanLambture/InteractiveQ/pkg/logger"
)

// Service implements service.AuthService with bcrypt credentials and HS256
// session tokens. It is a thin collaborator of the room core: the rest of
// the system only ever sees the user ID a token resolves to.
type Service struct {
	users    repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	logger   *logger.Logger
}

// NewService creates a new auth service
func NewService(users repository.UserRepository, secret string, tokenTTL time.Duration, logger *logger.Logger) service.AuthService {
	return &Service{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Signup registers a new account and returns a session token
func (s *Service) Signup(ctx context.Context, fullName, email, password string, termsAccepted bool) (string, *domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))

	if fullName == "" {
		return "", nil, errors.NewValidationError("Full name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return "", nil, errors.NewValidationError("Valid email is required")
	}
	if len(password) < 6 {
		return "", nil, errors.NewValidationError("Password must be at least 6 characters")
	}
	if !termsAccepted {
		return "", nil, errors.NewValidationError("Terms must be accepted")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, errors.NewInternalError("Failed to check email", err)
	}
	if existing != nil {
		return "", nil, errors.NewConflictError("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, errors.NewInternalError("Failed to hash password", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", nil, errors.NewInternalError("Failed to create user", err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("User registered")
	return token, user, nil
}

// Signin checks credentials and returns a session token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Signin(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, errors.NewValidationError("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, errors.NewInternalError("Failed to get user", err)
	}
	if user == nil {
		return "", nil, errors.NewAuthenticationError("Invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, errors.NewAuthenticationError("Invalid credentials")
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ValidateToken resolves a bearer token to the user ID it was issued for
func (s *Service) ValidateToken(ctx context.Context, tokenStr string) (string, error) {
	if tokenStr == "" {
		return "", errors.NewAuthenticationError("Token is required")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.NewAuthenticationError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.NewAuthenticationError("Invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.NewAuthenticationError("Invalid token claims")
	}
	return sub, nil
}

// GetUser retrieves the account behind a validated identity
func (s *Service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("User not found")
	}
	return user, nil
}

func (s *Service) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
		"iss": "interactiveq",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.NewInternalError("Failed to sign token", err)
	}
	return signed, nil
}
