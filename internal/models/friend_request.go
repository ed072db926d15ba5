package models

import (
	"time"

	"github.com/google/uuid"
)

// FriendRequest is a directed proposal from one user to another. A row with
// IsAccepted=true doubles as the friendship edge; rejection deletes the row
// outright, so there is no separate friendship entity.
type FriendRequest struct {
	ID         uuid.UUID `json:"id"`
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	IsAccepted bool      `json:"is_accepted"`
	CreatedAt  time.Time `json:"created_at"`
}

// RespondAction is the recipient's decision on a pending request.
type RespondAction string

const (
	RespondAccept RespondAction = "accept"
	RespondReject RespondAction = "reject"
)

func (a RespondAction) Valid() bool {
	return a == RespondAccept || a == RespondReject
}
