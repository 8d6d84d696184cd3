package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-hq/inkwell/internal/utils"
)

// Health handles GET /health, the liveness probe.
func Health(c *gin.Context) {
	utils.Respond(c, http.StatusOK, "ok", gin.H{
		"status": "up",
	})
}
