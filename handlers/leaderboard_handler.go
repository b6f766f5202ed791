package handlers

import (
	"context"
	"net/http"

	"healthChallengeAPI/internal/apperrors"
	"healthChallengeAPI/middleware"
	"healthChallengeAPI/services"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// GetLeaderboard recomputes the caller's weekly totals, writes their row and
// returns the current week's ranking.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithServiceError(w, apperrors.ErrAuthenticationRequired)
		return
	}

	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = "steps"
	}

	board, err := h.leaderboardService.UpdateLeaderboard(ctx, userID, metric)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, board)
}
