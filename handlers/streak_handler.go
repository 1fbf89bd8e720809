package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"zenithAPI/internal/streak"
	"zenithAPI/middleware"
	"zenithAPI/services"
)

type StreakHandler struct {
	streakService *services.StreakService
	userService   *services.UserService
}

func NewStreakHandler(streakService *services.StreakService, userService *services.UserService) *StreakHandler {
	return &StreakHandler{
		streakService: streakService,
		userService:   userService,
	}
}

// GetStreak returns the caller's login streak for the profile screen. A user
// who has never checked in gets a zeroed record rather than an error.
func (h *StreakHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	userID, err := h.userService.ResolveUserID(ctx, clerkID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	st, err := h.streakService.GetStreak(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if st == nil {
		st = &streak.Streak{UserID: userID}
	}

	respondWithJSON(w, http.StatusOK, st)
}
