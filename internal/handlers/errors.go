package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	dom "tasks/internal/domain"
	"tasks/internal/dto"
	"tasks/internal/repo"
)

// writeError translates service errors into HTTP responses. Domain errors keep
// their message; infrastructure errors are logged and hidden behind a 500.
func writeError(c *gin.Context, logger log.FieldLogger, err error) {
	var (
		invalid  *dom.ValidationError
		notFound *dom.NotFoundError
	)
	switch {
	case errors.As(err, &invalid):
		respond(c, http.StatusBadRequest, invalid.Message)
	case errors.As(err, &notFound):
		respond(c, http.StatusNotFound, notFound.Error())
	case errors.Is(err, repo.ErrForeignKey):
		logger.WithError(err).WithField("path", c.Request.URL.Path).Warn("storage constraint rejected write")
		respond(c, http.StatusConflict, "task list reference no longer exists")
	default:
		logger.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
		respond(c, http.StatusInternalServerError, "internal server error")
	}
}

func respond(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Status:  status,
		Message: message,
		Details: "uri=" + c.Request.URL.Path,
	})
}

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respond(c, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
