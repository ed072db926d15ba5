package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/HammerMeetNail/socialgraph/internal/models"
	"github.com/HammerMeetNail/socialgraph/internal/services"
)

type FriendHandler struct {
	friendService services.FriendServiceInterface
}

func NewFriendHandler(friendService services.FriendServiceInterface) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

type RespondRequest struct {
	Username string `json:"username"`
	Response string `json:"response"`
}

type FriendsResponse struct {
	Friends []string `json:"friends"`
}

type PendingResponse struct {
	Pending []string `json:"pending"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// SendRequest handles POST /api/friend-requests/send/{username}.
func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	toUsername := strings.TrimSpace(r.PathValue("username"))
	if toUsername == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	_, err := h.friendService.SendRequest(r.Context(), user, toUsername)
	if errors.Is(err, services.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "User with this username does not exist")
		return
	}
	if errors.Is(err, services.ErrCannotFriendSelf) {
		writeError(w, http.StatusBadRequest, "Cannot send friend request to yourself")
		return
	}
	if errors.Is(err, services.ErrRateLimited) {
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "Cannot send more than 3 friend requests within a minute")
		return
	}
	if errors.Is(err, services.ErrRequestExists) {
		writeError(w, http.StatusConflict, "Friend request already sent")
		return
	}
	if err != nil {
		log.Printf("Error sending friend request: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{Message: "Friend request sent successfully"})
}

// Respond handles POST /api/friend-requests/respond with
// {username, response: accept|reject}.
func (h *FriendHandler) Respond(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	action := models.RespondAction(strings.ToLower(strings.TrimSpace(req.Response)))
	if !action.Valid() {
		writeError(w, http.StatusBadRequest, "Response must be accept or reject")
		return
	}

	err := h.friendService.Respond(r.Context(), user, strings.TrimSpace(req.Username), action)
	if errors.Is(err, services.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "User with this username does not exist")
		return
	}
	if errors.Is(err, services.ErrRequestNotFound) {
		writeError(w, http.StatusNotFound, "Friend request not found")
		return
	}
	if err != nil {
		log.Printf("Error responding to friend request: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if action == models.RespondAccept {
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Friend request accepted"})
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Friend request rejected"})
}

// ListFriends handles GET /api/friends.
func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	friends, err := h.friendService.ListFriends(r.Context(), user.ID)
	if err != nil {
		log.Printf("Error listing friends: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, FriendsResponse{Friends: friends})
}

// ListPending handles GET /api/friend-requests/pending.
func (h *FriendHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	pending, err := h.friendService.ListPending(r.Context(), user.ID)
	if err != nil {
		log.Printf("Error listing pending requests: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, PendingResponse{Pending: pending})
}
