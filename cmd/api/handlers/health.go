package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler godoc
// @Summary      헬스 체크
// @Tags         health
// @Produce      json
// @Success      200  {object}  object{status=string,sessions=int}
// @Router       /health [get]
func HealthHandler(liveSessions func() int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": liveSessions()})
	}
}
