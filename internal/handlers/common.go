package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"orienteering-backend/internal/bundle"
	"orienteering-backend/internal/models"
	"orienteering-backend/internal/services"
	"orienteering-backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve models in annotations.
type Quest = models.Quest
type Question = models.Question
type MergeResult = services.MergeResult

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error, notFoundMsg string) {
	status := http.StatusInternalServerError
	msg := err.Error()

	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
		if notFoundMsg != "" {
			msg = notFoundMsg
		}
	case errors.Is(err, bundle.ErrMalformed),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrQuestionTextRequired),
		errors.Is(err, services.ErrInvalidLocation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrQRTooLarge):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrDuplicateCode):
		status = http.StatusConflict
	case errors.Is(err, services.ErrAllocationExhausted):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
		if errors.Is(err, services.ErrImportFailed) {
			msg = "failed to import quest: " + err.Error()
		}
	}
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{Error: msg})
}

func parseID(c *gin.Context, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + what + " id"})
		return 0, false
	}
	return uint(id), true
}
