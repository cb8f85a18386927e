package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/iho/fintech/internal/adapter/http/dto"
	"github.com/iho/fintech/internal/domain"
	"github.com/iho/fintech/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status of its kind. Internal
// details are not exposed to the client.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	kind := usecase.ErrorKind(err)
	details := err.Error()
	if kind == usecase.KindInternal {
		details = ""
	}

	writeJSON(w, mapDomainError(err), dto.ErrorResponse{
		Error:   message,
		Kind:    kind,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch usecase.ErrorKind(err) {
	case usecase.KindInsufficientBalance:
		return http.StatusUnprocessableEntity
	case usecase.KindValidation:
		return http.StatusBadRequest
	case usecase.KindNotFound:
		return http.StatusNotFound
	case usecase.KindConcurrencyConflict, usecase.KindReferentialIntegrity:
		return http.StatusConflict
	case usecase.KindTimeout, usecase.KindCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return nil
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) (int, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidPagination, key)
	}
	return i, nil
}

// parseBoolQuery parses a boolean query parameter, false when absent.
func parseBoolQuery(r *http.Request, key string) (bool, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", domain.ErrValidation, key)
	}
	return b, nil
}

// parsePage reads the page and page_size query parameters.
func parsePage(r *http.Request) (page, pageSize int, err error) {
	page, err = parseIntQuery(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	pageSize, err = parseIntQuery(r, "page_size", domain.DefaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}
