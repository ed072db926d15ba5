package handlers

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/socialgraph/internal/models"
)

// mockUserService implements services.UserServiceInterface with injectable
// behavior per method.
type mockUserService struct {
	CreateFunc         func(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	GetByUsernameFunc  func(ctx context.Context, username string) (*models.User, error)
	UpdatePasswordFunc func(ctx context.Context, userID uuid.UUID, newPasswordHash string) error
	SearchFunc         func(ctx context.Context, query string, limit, offset int) ([]models.UserSearchResult, error)
}

func (m *mockUserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) UpdatePassword(ctx context.Context, userID uuid.UUID, newPasswordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, userID, newPasswordHash)
	}
	return errors.New("not implemented")
}

func (m *mockUserService) Search(ctx context.Context, query string, limit, offset int) ([]models.UserSearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, limit, offset)
	}
	return nil, errors.New("not implemented")
}

// mockAuthService implements services.AuthServiceInterface.
type mockAuthService struct {
	HashPasswordFunc   func(password string) (string, error)
	VerifyPasswordFunc func(hash, password string) bool
	IssueTokenFunc     func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFunc  func(ctx context.Context, token string) (*models.User, error)
	RevokeTokenFunc    func(ctx context.Context, token string) error
}

func (m *mockAuthService) HashPassword(password string) (string, error) {
	if m.HashPasswordFunc != nil {
		return m.HashPasswordFunc(password)
	}
	return "$2a$12$mockhash", nil
}

func (m *mockAuthService) VerifyPassword(hash, password string) bool {
	if m.VerifyPasswordFunc != nil {
		return m.VerifyPasswordFunc(hash, password)
	}
	return false
}

func (m *mockAuthService) IssueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.IssueTokenFunc != nil {
		return m.IssueTokenFunc(ctx, userID)
	}
	return "mock-token", nil
}

func (m *mockAuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) RevokeToken(ctx context.Context, token string) error {
	if m.RevokeTokenFunc != nil {
		return m.RevokeTokenFunc(ctx, token)
	}
	return nil
}

// mockFriendService implements services.FriendServiceInterface.
type mockFriendService struct {
	SendRequestFunc func(ctx context.Context, fromUser *models.User, toUsername string) (*models.FriendRequest, error)
	RespondFunc     func(ctx context.Context, toUser *models.User, fromUsername string, action models.RespondAction) error
	ListFriendsFunc func(ctx context.Context, userID uuid.UUID) ([]string, error)
	ListPendingFunc func(ctx context.Context, userID uuid.UUID) ([]string, error)
}

func (m *mockFriendService) SendRequest(ctx context.Context, fromUser *models.User, toUsername string) (*models.FriendRequest, error) {
	if m.SendRequestFunc != nil {
		return m.SendRequestFunc(ctx, fromUser, toUsername)
	}
	return nil, errors.New("not implemented")
}

func (m *mockFriendService) Respond(ctx context.Context, toUser *models.User, fromUsername string, action models.RespondAction) error {
	if m.RespondFunc != nil {
		return m.RespondFunc(ctx, toUser, fromUsername, action)
	}
	return errors.New("not implemented")
}

func (m *mockFriendService) ListFriends(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if m.ListFriendsFunc != nil {
		return m.ListFriendsFunc(ctx, userID)
	}
	return []string{}, nil
}

func (m *mockFriendService) ListPending(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx, userID)
	}
	return []string{}, nil
}
