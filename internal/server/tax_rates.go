package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListTaxRates(c *gin.Context) {
	items, err := s.taxRateSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetTaxRate(c *gin.Context) {
	item, err := s.taxRateSvc.Get(c.Request.Context(), c.Param("state"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}
