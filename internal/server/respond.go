package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kavish/inventory-insight/internal/database"
	"github.com/kavish/inventory-insight/internal/logging"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("encode JSON response")
	}
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// writeStoreError maps the store error taxonomy onto HTTP statuses.
// Validation failures carry the offending field back to the caller.
func writeStoreError(w http.ResponseWriter, err error) {
	var validationErr *database.ValidationError
	switch {
	case errors.As(err, &validationErr):
		WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
	case errors.Is(err, database.ErrProductNotFound),
		errors.Is(err, database.ErrCategoryNotFound),
		errors.Is(err, database.ErrSaleNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrInsufficientStock),
		errors.Is(err, database.ErrDuplicateCategory):
		WriteError(w, http.StatusConflict, err.Error())
	default:
		logging.Error().Err(err).Msg("store operation failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
