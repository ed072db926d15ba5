package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/HammerMeetNail/socialgraph/internal/models"
	"github.com/HammerMeetNail/socialgraph/internal/services"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type UserHandler struct {
	userService services.UserServiceInterface
}

func NewUserHandler(userService services.UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

type UserSearchResponse struct {
	Users    []models.UserSearchResult `json:"users"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
}

// Search looks up users by the "search" query parameter. An email-shaped
// query matches the email exactly; anything else matches usernames by
// substring. Results are paginated with page/page_size.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("search"))
	page := parsePositiveInt(r.URL.Query().Get("page"), 1)
	pageSize := parsePositiveInt(r.URL.Query().Get("page_size"), defaultPageSize)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	users, err := h.userService.Search(r.Context(), query, pageSize, (page-1)*pageSize)
	if err != nil {
		log.Printf("Error searching users: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, UserSearchResponse{
		Users:    users,
		Page:     page,
		PageSize: pageSize,
	})
}

func parsePositiveInt(s string, defaultValue int) int {
	if s == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return defaultValue
	}
	return n
}
