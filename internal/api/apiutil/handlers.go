package apiutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hostfolio/hostfolio/internal/source"
)

// DecodeJSON decodes a request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

// RespondJSON writes a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode response")
	}
}

// RespondError maps the engine's error taxonomy onto HTTP statuses:
// rejected credentials are 401, rejected payloads 422, everything else 502
// (the upstream is the usual culprit for the remainder).
func RespondError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logger := log.Ctx(r.Context())
	switch {
	case errors.Is(err, source.ErrUnauthenticated):
		logger.Warn().Err(err).Msg(msg)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, source.ErrInvalidPayload):
		logger.Warn().Err(err).Msg(msg)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		logger.Error().Err(err).Msg(msg)
		http.Error(w, msg, http.StatusBadGateway)
	}
}
