package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pisfinance/pis-vault/internal/types"
)

// callerHeader carries the caller's address. It is trusted as is, so the
// server must run behind a proxy that authenticates callers and sets it.
const callerHeader = "X-Caller"

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// wrap turns a handler returning an error into an http.HandlerFunc. A
// *types.Error is answered with its status and code, anything else with 500.
func wrap(f handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}

		var apiErr *types.Error
		if !errors.As(err, &apiErr) {
			apiErr = types.NewInternalServiceError(err)
		}

		logger := log.Ctx(r.Context())
		if apiErr.StatusCode >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		} else {
			logger.Debug().Err(err).Str("path", r.URL.Path).Msg("request rejected")
		}

		message := apiErr.Error()
		if apiErr.StatusCode >= http.StatusInternalServerError {
			message = "internal service error"
		}
		writeJSON(w, apiErr.StatusCode, ErrorResponse{
			ErrorCode: apiErr.ErrorCode.String(),
			Message:   message,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func ok(w http.ResponseWriter, v any) error {
	writeJSON(w, http.StatusOK, v)
	return nil
}

func decode(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return types.NewBadRequestError("invalid request body: %v", err)
	}
	return nil
}
