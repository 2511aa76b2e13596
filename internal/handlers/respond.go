package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"portfolio-backend/internal/errs"
	"portfolio-backend/internal/models"
)

// writeError renders err with the status of its kind. The message is the
// raw error text.
func writeError(c *gin.Context, logger zerolog.Logger, err error) {
	status := errs.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	_ = c.Error(err)
	c.JSON(status, models.ErrorResponse{
		Error:   errs.KindOf(err).String(),
		Message: err.Error(),
	})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return uuid.Nil, false
	}
	return id, true
}

// formBool accepts the values an HTML checkbox or a client may send.
func formBool(value string) bool {
	switch value {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}
