package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"codegen/internal/config"
	"codegen/internal/domain"
	"codegen/internal/domain/models"
	"codegen/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Unknown errors are
// logged and reported without detail.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := domain.StatusCode(err)
	if status == http.StatusInternalServerError {
		httputil.LoggerFrom(r.Context(), logger).Error("request failed", "error", err)
		httputil.RespondError(w, status, "internal server error")
		return
	}

	httputil.RespondError(w, status, err.Error())
}

// requireUserID returns the caller id set by the auth middleware
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}

// pathID reads the {id} path segment
func pathID(w http.ResponseWriter, r *http.Request, kind string) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, kind+" ID is required")
		return "", false
	}
	return id, true
}

// parsePage reads skip/limit. skip must be >= 0 and limit within 1..MaxPageLimit.
func parsePage(r *http.Request) (models.Page, error) {
	skip, err := httputil.QueryInt(r, "skip", 0)
	if err != nil {
		return models.Page{}, err
	}
	limit, err := httputil.QueryInt(r, "limit", models.DefaultPageLimit)
	if err != nil {
		return models.Page{}, err
	}

	page := models.Page{Skip: skip, Limit: limit}
	if err := page.Validate(); err != nil {
		return models.Page{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return page, nil
}

// parseVariables decodes a JSON object of placeholder values. An empty body
// is allowed only when optional is set.
func parseVariables(w http.ResponseWriter, r *http.Request, optional bool) (map[string]interface{}, error) {
	if optional && r.ContentLength == 0 {
		return map[string]interface{}{}, nil
	}

	var variables map[string]interface{}
	if err := httputil.ParseJSON(w, r, &variables, config.MaxRequestBodyBytes); err != nil {
		return nil, err
	}
	if variables == nil {
		variables = map[string]interface{}{}
	}
	return variables, nil
}
