package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"whisper-api/internal/api/v1/dto"
)

// Health handles GET /api/v1/health. It never touches the speech model.
//
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
