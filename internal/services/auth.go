package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/HammerMeetNail/socialgraph/internal/models"
)

const (
	bcryptCost     = 12
	tokenDuration  = 30 * 24 * time.Hour
	tokenKeyPrefix = "token:"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenExpired       = errors.New("token expired")
	ErrPasswordTooLong    = errors.New("password too long")
)

// AuthService hashes passwords and issues opaque bearer tokens. Tokens live
// in redis keyed by their SHA-256 hash; postgres is the fallback store when
// redis is down.
type AuthService struct {
	db DBConn
	kv KVStore
}

func NewAuthService(db DBConn, kv KVStore) *AuthService {
	return &AuthService{db: db, kv: kv}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateToken returns a fresh opaque token and the hash it is stored under.
// Only the hash is ever persisted.
func (s *AuthService) GenerateToken() (token string, hash string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("generating random bytes: %w", err)
	}

	token = hex.EncodeToString(bytes)
	return token, s.hashToken(token), nil
}

func (s *AuthService) hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IssueToken creates a bearer token for userID.
func (s *AuthService) IssueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token, tokenHash, err := s.GenerateToken()
	if err != nil {
		return "", err
	}

	err = s.kv.Set(ctx, tokenKeyPrefix+tokenHash, userID.String(), tokenDuration)
	if err != nil {
		// Redis unavailable; fall back to the sessions table.
		_, err = s.db.Exec(ctx,
			"INSERT INTO sessions (user_id, token_hash, expires_at) VALUES ($1, $2, $3)",
			userID, tokenHash, time.Now().Add(tokenDuration),
		)
		if err != nil {
			return "", fmt.Errorf("storing token: %w", err)
		}
	}

	return token, nil
}

// ValidateToken resolves a bearer token to its user.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	tokenHash := s.hashToken(token)

	userIDStr, err := s.kv.Get(ctx, tokenKeyPrefix+tokenHash)
	if err == nil {
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return nil, fmt.Errorf("parsing user id: %w", err)
		}
		return s.getUserByID(ctx, userID)
	}

	var session models.Session
	err = s.db.QueryRow(ctx,
		`SELECT id, user_id, token_hash, expires_at, created_at
		 FROM sessions WHERE token_hash = $1`,
		tokenHash,
	).Scan(&session.ID, &session.UserID, &session.TokenHash, &session.ExpiresAt, &session.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		s.db.Exec(ctx, "DELETE FROM sessions WHERE id = $1", session.ID)
		return nil, ErrTokenExpired
	}

	return s.getUserByID(ctx, session.UserID)
}

// RevokeToken invalidates a bearer token in both stores.
func (s *AuthService) RevokeToken(ctx context.Context, token string) error {
	tokenHash := s.hashToken(token)

	_ = s.kv.Del(ctx, tokenKeyPrefix+tokenHash)

	_, err := s.db.Exec(ctx, "DELETE FROM sessions WHERE token_hash = $1", tokenHash)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (s *AuthService) getUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1",
		id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}
