package service

import (
	"context"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Signup registers a new account and returns a session token
	Signup(ctx context.Context, fullName, email, password string, termsAccepted bool) (string, *domain.User, error)

	// Signin checks credentials and returns a session token
	Signin(ctx context.Context, email, password string) (string, *domain.User, error)

	// ValidateToken resolves a bearer token to the user ID it was issued for
	ValidateToken(ctx context.Context, token string) (string, error)

	// GetUser retrieves the account behind a validated identity
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// Services aggregates the application services
type Services struct {
	Auth      AuthService
	Rooms     *RoomService
	Questions *QuestionService
	Polls     *PollService
	Snapshots *SnapshotService
}
