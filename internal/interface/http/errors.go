package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-postboard/internal/application"
	"github.com/oksasatya/go-postboard/pkg/response"
)

// writeError maps service errors onto HTTP responses. Unknown errors are
// logged and reported as a bare 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidEmail),
		errors.Is(err, application.ErrInvalidPassword),
		errors.Is(err, application.ErrDuplicateEmail):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, application.ErrInvalidInput):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, application.ErrAuthenticationFailed),
		errors.Is(err, application.ErrUnauthorized):
		response.Error[any](c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	default:
		logger.WithError(err).
			WithField("request_id", c.GetString("request_id")).
			WithField("path", c.FullPath()).
			Error("request failed")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}
