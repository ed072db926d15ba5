package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/socialgraph/internal/models"
)

// UserServiceInterface defines the contract for user operations.
type UserServiceInterface interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, newPasswordHash string) error
	Search(ctx context.Context, query string, limit, offset int) ([]models.UserSearchResult, error)
}

// AuthServiceInterface defines the contract for authentication operations.
type AuthServiceInterface interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hash, password string) bool
	IssueToken(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateToken(ctx context.Context, token string) (*models.User, error)
	RevokeToken(ctx context.Context, token string) error
}

// FriendServiceInterface defines the contract for friend-request operations.
type FriendServiceInterface interface {
	SendRequest(ctx context.Context, fromUser *models.User, toUsername string) (*models.FriendRequest, error)
	Respond(ctx context.Context, toUser *models.User, fromUsername string, action models.RespondAction) error
	ListFriends(ctx context.Context, userID uuid.UUID) ([]string, error)
	ListPending(ctx context.Context, userID uuid.UUID) ([]string, error)
}
