package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	revenuedomain "github.com/lankaconnect/eventpricing/internal/revenue/domain"
)

func (s *Server) CalculateBreakdown(c *gin.Context) {
	var req revenuedomain.BreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.revenueSvc.Breakdown(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCommissionSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.revenueSvc.Settings(c.Request.Context())})
}
