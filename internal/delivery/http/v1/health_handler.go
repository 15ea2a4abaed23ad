package v1

import (
	"net/http"

	"jobs-admin-backend/internal/delivery/http/response"
	"jobs-admin-backend/internal/usecase"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Pings Postgres, and Redis when configured.
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /health [get]
func healthHandler(healthUC usecase.HealthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, healthy := healthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", result)
			return
		}
		response.Success(c, http.StatusOK, "System operational", result)
	}
}
