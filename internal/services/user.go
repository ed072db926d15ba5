package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HammerMeetNail/socialgraph/internal/models"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

const userColumns = "id, username, email, password_hash, created_at, updated_at"

type UserService struct {
	db DBConn
}

func NewUserService(db DBConn) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	var emailTaken, usernameTaken bool
	err := s.db.QueryRow(ctx,
		`SELECT
		   EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1)),
		   EXISTS(SELECT 1 FROM users WHERE username = $2)`,
		params.Email, params.Username,
	).Scan(&emailTaken, &usernameTaken)
	if err != nil {
		return nil, fmt.Errorf("checking user existence: %w", err)
	}
	if emailTaken {
		return nil, ErrEmailAlreadyExists
	}
	if usernameTaken {
		return nil, ErrUsernameAlreadyExists
	}

	user := &models.User{}
	err = s.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING `+userColumns,
		params.Username, params.Email, params.PasswordHash,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	// The existence check above races with concurrent registrations; the
	// unique indexes are the authority.
	if isUniqueViolation(err, "users_email_key") {
		return nil, ErrEmailAlreadyExists
	}
	if isUniqueViolation(err, "users_username_key") {
		return nil, ErrUsernameAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE LOWER(email) = LOWER($1)", email)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, newPasswordHash string) error {
	result, err := s.db.Exec(ctx,
		"UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2",
		newPasswordHash, userID,
	)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Search finds users by email or username. A query that parses as an email
// address matches the email exactly (case-insensitive); anything else is a
// case-insensitive substring match on username.
func (s *UserService) Search(ctx context.Context, query string, limit, offset int) ([]models.UserSearchResult, error) {
	query = strings.TrimSpace(query)

	var (
		rows Rows
		err  error
	)
	if isEmailAddress(query) {
		rows, err = s.db.Query(ctx,
			`SELECT username, email FROM users
			 WHERE LOWER(email) = LOWER($1)
			 ORDER BY username
			 LIMIT $2 OFFSET $3`,
			query, limit, offset,
		)
	} else {
		rows, err = s.db.Query(ctx,
			`SELECT username, email FROM users
			 WHERE username ILIKE $1
			 ORDER BY username
			 LIMIT $2 OFFSET $3`,
			"%"+escapeLike(query)+"%", limit, offset,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	defer rows.Close()

	results := []models.UserSearchResult{}
	for rows.Next() {
		var u models.UserSearchResult
		if err := rows.Scan(&u.Username, &u.Email); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		results = append(results, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading users: %w", err)
	}

	return results, nil
}

func (s *UserService) getOne(ctx context.Context, sql string, arg any) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx, sql, arg).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

// isEmailAddress reports whether q is a bare, syntactically valid address.
func isEmailAddress(q string) bool {
	addr, err := mail.ParseAddress(q)
	return err == nil && addr.Address == q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters so a query like "b_b" matches
// the literal string instead of acting as a wildcard pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
