package handlers

import (
	"context"
	"net/http"
	"time"

	"zenithAPI/middleware"
	"zenithAPI/services"
)

// AuthHandler serves the auth-check endpoint clients hit on app start. The
// response body is deliberately small: the gamification middleware merges
// the streak badge and experience into it on the way out.
type AuthHandler struct {
	userService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

func (h *AuthHandler) AuthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	u, err := h.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"userId":        u.ID,
		"username":      u.Username,
	})
}
