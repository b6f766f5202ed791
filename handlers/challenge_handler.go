package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"healthChallengeAPI/internal/apperrors"
	"healthChallengeAPI/internal/types/challenge"
	"healthChallengeAPI/middleware"
	"healthChallengeAPI/services"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
}

func NewChallengeHandler(challengeService *services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
	}
}

func (h *ChallengeHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	challenges, err := h.challengeService.ListChallenges(ctx)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, challenges)
}

func (h *ChallengeHandler) JoinChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithServiceError(w, apperrors.ErrAuthenticationRequired)
		return
	}

	var req challenge.JoinChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChallengeID == "" {
		respondWithError(w, http.StatusBadRequest, "challenge_id required")
		return
	}

	active, err := h.challengeService.Join(ctx, userID, req.ChallengeID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, active)
}

func (h *ChallengeHandler) GetUserChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithServiceError(w, apperrors.ErrAuthenticationRequired)
		return
	}

	resp, err := h.challengeService.GetUserChallenges(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// RefreshChallenges runs one coordinator cycle (expire, then evaluate) and
// returns the resulting sets. Clients call it on foreground and on explicit
// pull-to-refresh; there is no push channel from the health store.
func (h *ChallengeHandler) RefreshChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithServiceError(w, apperrors.ErrAuthenticationRequired)
		return
	}

	resp, err := h.challengeService.RefreshChallenges(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}
