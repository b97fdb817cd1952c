package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	pricingdomain "github.com/lankaconnect/eventpricing/internal/pricing/domain"
)

type validatePricingResponse struct {
	Valid  bool                       `json:"valid"`
	Errors []pricingdomain.FieldError `json:"errors"`
}

func (s *Server) ValidatePricing(c *gin.Context) {
	var req pricingdomain.TicketPricing
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	errs := s.pricingSvc.Validate(c.Request.Context(), req)
	if errs == nil {
		errs = []pricingdomain.FieldError{}
	}
	c.JSON(http.StatusOK, gin.H{"data": validatePricingResponse{
		Valid:  len(errs) == 0,
		Errors: errs,
	}})
}

func (s *Server) SaveEventPricing(c *gin.Context) {
	var req pricingdomain.TicketPricing
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.pricingSvc.Save(c.Request.Context(), pricingdomain.SaveRequest{
		EventID: c.Param("event_id"),
		Pricing: req,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetEventPricing(c *gin.Context) {
	resp, err := s.pricingSvc.Get(c.Request.Context(), c.Param("event_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type quoteRequest struct {
	AttendeeCount int                         `json:"attendee_count"`
	Attendees     []pricingdomain.AgeCategory `json:"attendees"`
	State         string                      `json:"state"`
	Country       string                      `json:"country"`
}

func (s *Server) QuoteRegistration(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.pricingSvc.Quote(c.Request.Context(), pricingdomain.QuoteRequest{
		EventID:       c.Param("event_id"),
		AttendeeCount: req.AttendeeCount,
		Attendees:     req.Attendees,
		State:         req.State,
		Country:       req.Country,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
