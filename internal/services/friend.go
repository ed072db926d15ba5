package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HammerMeetNail/socialgraph/internal/models"
)

var (
	ErrCannotFriendSelf = errors.New("cannot send friend request to yourself")
	ErrRequestExists    = errors.New("friend request already exists")
	ErrRequestNotFound  = errors.New("friend request not found")
	ErrRateLimited      = errors.New("friend request rate limit exceeded")
	ErrInvalidResponse  = errors.New("invalid response action")
)

// SendLimiter is the counter contract the engine throttles senders with.
type SendLimiter interface {
	Check(ctx context.Context, key string) (int64, error)
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// FriendService enforces the friend-request state machine:
// pending --accept--> accepted (row retained, terminal);
// pending --reject--> row deleted (the pair may be re-sent).
type FriendService struct {
	db      DBConn
	limiter SendLimiter
	limit   int64
	window  time.Duration
}

func NewFriendService(db DBConn, limiter SendLimiter, limit int, window time.Duration) *FriendService {
	return &FriendService{
		db:      db,
		limiter: limiter,
		limit:   int64(limit),
		window:  window,
	}
}

// SendRequest creates a pending request from fromUser to the named user.
// The sender's counter is bumped only after the insert succeeds, so failed
// sends consume no quota.
func (s *FriendService) SendRequest(ctx context.Context, fromUser *models.User, toUsername string) (*models.FriendRequest, error) {
	toUserID, err := s.resolveUsername(ctx, toUsername)
	if err != nil {
		return nil, err
	}

	if fromUser.ID == toUserID {
		return nil, ErrCannotFriendSelf
	}

	count, err := s.limiter.Check(ctx, limitKey(fromUser.ID))
	if err != nil {
		return nil, fmt.Errorf("checking rate limit: %w", err)
	}
	if count >= s.limit {
		return nil, ErrRateLimited
	}

	// Advisory only; the unique constraint below is the real enforcement.
	var exists bool
	err = s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM friend_requests WHERE from_user_id = $1 AND to_user_id = $2)",
		fromUser.ID, toUserID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking request existence: %w", err)
	}
	if exists {
		return nil, ErrRequestExists
	}

	request := &models.FriendRequest{}
	err = s.db.QueryRow(ctx,
		`INSERT INTO friend_requests (from_user_id, to_user_id)
		 VALUES ($1, $2)
		 RETURNING id, from_user_id, to_user_id, is_accepted, created_at`,
		fromUser.ID, toUserID,
	).Scan(&request.ID, &request.FromUserID, &request.ToUserID, &request.IsAccepted, &request.CreatedAt)
	if isUniqueViolation(err, "friend_requests_pair_key") {
		// Lost the race against a concurrent send of the same pair.
		return nil, ErrRequestExists
	}
	if err != nil {
		return nil, fmt.Errorf("creating friend request: %w", err)
	}

	// The counter is advisory throttling; a failed bump must not undo a
	// persisted request.
	if _, err := s.limiter.Increment(ctx, limitKey(fromUser.ID), s.window); err != nil {
		return request, nil
	}

	return request, nil
}

// Respond applies the recipient's decision to the pending request from the
// named sender. Accept flips is_accepted in place and is idempotent: it does
// not inspect the current flag, so re-accepting rewrites true to true and
// succeeds. Reject deletes the row; a later respond on the pair reports
// ErrRequestNotFound and the pair becomes sendable again.
func (s *FriendService) Respond(ctx context.Context, toUser *models.User, fromUsername string, action models.RespondAction) error {
	if !action.Valid() {
		return ErrInvalidResponse
	}

	fromUserID, err := s.resolveUsername(ctx, fromUsername)
	if err != nil {
		return err
	}

	var requestID uuid.UUID
	err = s.db.QueryRow(ctx,
		"SELECT id FROM friend_requests WHERE from_user_id = $1 AND to_user_id = $2",
		fromUserID, toUser.ID,
	).Scan(&requestID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRequestNotFound
	}
	if err != nil {
		return fmt.Errorf("getting friend request: %w", err)
	}

	switch action {
	case models.RespondAccept:
		_, err = s.db.Exec(ctx,
			"UPDATE friend_requests SET is_accepted = true WHERE id = $1",
			requestID,
		)
		if err != nil {
			return fmt.Errorf("accepting friend request: %w", err)
		}
	case models.RespondReject:
		_, err = s.db.Exec(ctx,
			"DELETE FROM friend_requests WHERE id = $1",
			requestID,
		)
		if err != nil {
			return fmt.Errorf("rejecting friend request: %w", err)
		}
	}

	return nil
}

// ListFriends returns the usernames on the other side of accepted requests
// in either direction. UNION deduplicates mutual edges.
func (s *FriendService) ListFriends(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT u.username
		   FROM friend_requests fr
		   JOIN users u ON u.id = fr.to_user_id
		  WHERE fr.from_user_id = $1 AND fr.is_accepted
		 UNION
		 SELECT u.username
		   FROM friend_requests fr
		   JOIN users u ON u.id = fr.from_user_id
		  WHERE fr.to_user_id = $1 AND fr.is_accepted
		 ORDER BY 1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}
	defer rows.Close()

	return scanUsernames(rows)
}

// ListPending returns sender usernames of pending requests addressed to
// userID, in creation order.
func (s *FriendService) ListPending(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT u.username
		   FROM friend_requests fr
		   JOIN users u ON u.id = fr.from_user_id
		  WHERE fr.to_user_id = $1 AND NOT fr.is_accepted
		  ORDER BY fr.created_at, fr.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing pending requests: %w", err)
	}
	defer rows.Close()

	return scanUsernames(rows)
}

func (s *FriendService) resolveUsername(ctx context.Context, username string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRow(ctx, "SELECT id FROM users WHERE username = $1", username).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrUserNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolving username: %w", err)
	}
	return id, nil
}

func limitKey(userID uuid.UUID) string {
	return userID.String()
}

func scanUsernames(rows Rows) ([]string, error) {
	usernames := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning username: %w", err)
		}
		usernames = append(usernames, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading usernames: %w", err)
	}
	return usernames, nil
}
