package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"portfolio-backend/internal/models"
)

type Diagnostics interface {
	Run(ctx context.Context, probe bool) *models.DiagnosticsResponse
}

// DiagnosticsHandler godoc
// @Summary     Check store and bucket configuration
// @Description Reports which settings are present, whether the projects table and the image bucket are reachable, and optionally writes and removes a probe object.
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Param       probe query bool false "Upload and remove a probe object"
// @Success     200 {object} models.DiagnosticsResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /admin/diagnostics [get]
func DiagnosticsHandler(diagnostics Diagnostics) gin.HandlerFunc {
	return func(c *gin.Context) {
		probe := formBool(c.Query("probe"))
		c.JSON(http.StatusOK, diagnostics.Run(c.Request.Context(), probe))
	}
}
