package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/iraycd/sway-backend/internal/services/oauth"
	"github.com/iraycd/sway-backend/internal/store"
	"github.com/iraycd/sway-backend/pkg/httpext"
)

// use a single instance of Validate, it caches struct info
var validate = validator.New(validator.WithRequiredStructEnabled())

type TokenRequest struct {
	ProviderType string `json:"provider_type" validate:"required,oneof=google apple"`
	IDToken      string `json:"id_token" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
}

// HandleToken exchanges a provider id_token for a backend access
// token, creating the account on first sign-in.
func HandleToken(authService *oauth.Service, db *store.Store, w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed token request")
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		log.Warn().Err(err).Msg("Token request validation failed")
		httpext.JsonError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	identity, err := authService.VerifyProviderToken(r.Context(), req.ProviderType, req.IDToken)
	if err != nil {
		if errors.Is(err, oauth.ErrUnsupportedProvider) {
			httpext.JsonError(w, "Unsupported provider type", http.StatusBadRequest)
			return
		}
		httpext.JsonError(w, "Invalid authentication token", http.StatusUnauthorized)
		return
	}

	user, err := db.GetOrCreateUserByProvider(r.Context(), identity.Provider, identity.Subject, identity.Email, "")
	if err != nil {
		log.Error().Err(err).Msg("Failed to resolve user for verified identity")
		httpext.JsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	accessToken, _, err := authService.IssueAccessToken(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue access token")
		httpext.JsonError(w, "Error creating token", http.StatusInternalServerError)
		return
	}

	log.Info().Str("user_id", user.ID.String()).Str("provider", identity.Provider).Msg("Access token issued")

	httpext.JsonResponse(w, http.StatusOK, TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		UserID:      user.ID.String(),
	})
}
