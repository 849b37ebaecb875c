package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BenjiKandl/apertif/internal/domain"
	"github.com/BenjiKandl/apertif/pkg/logger"
	"github.com/BenjiKandl/apertif/pkg/middleware"
	"github.com/BenjiKandl/apertif/pkg/response"
)

// respondError maps a domain error onto the HTTP error envelope
func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidationError(err):
		response.ValidationError(c, err.Error())
	case errors.Is(err, domain.ErrEventNotFound):
		response.NotFound(c, "Event not found")
	case errors.Is(err, domain.ErrCapacityExceeded):
		response.Conflict(c, response.ErrCodeCapacityExceeded, "This dinner is full")
	case errors.Is(err, domain.ErrDuplicateRSVP):
		response.Conflict(c, response.ErrCodeDuplicateRSVP, "You have already RSVP'd to this dinner")
	case domain.IsStorageError(err):
		logger.Get().Error("Storage unavailable",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		response.ServiceUnavailable(c, response.ErrCodeStorageUnavailable, "Storage is unavailable, please try again")
	default:
		logger.Get().Error("Unhandled error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal Server Error", "")
	}
}

func bindingError(c *gin.Context, err error) {
	response.ValidationError(c, "Invalid request body: "+err.Error())
}
