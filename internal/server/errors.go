package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lankaconnect/eventpricing/internal/money"
	pricingdomain "github.com/lankaconnect/eventpricing/internal/pricing/domain"
	taxratedomain "github.com/lankaconnect/eventpricing/internal/taxrate/domain"
	"gorm.io/gorm"
)

type ValidationError = pricingdomain.FieldError

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

// bindError keeps typed enum decode failures (currency, pricing type, age
// category) and reports everything else as a malformed request.
func bindError(err error) error {
	if _, ok := validationField(err); ok {
		return err
	}
	return invalidRequestError()
}

func newValidationError(field, code, message string) error {
	return &pricingdomain.ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if field, ok := validationField(err); ok {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   field,
					Code:    err.Error(),
					Message: validationErrorMessage(err),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, pricingdomain.ErrNoApplicablePrice):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "no_applicable_price",
			Message: "no price applies to this registration",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *pricingdomain.ValidationErrors {
	var vErr *pricingdomain.ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

// validationField maps single-code domain errors to the request field they
// refer to.
func validationField(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "request", true
	case errors.Is(err, pricingdomain.ErrInvalidEventID):
		return "event_id", true
	case errors.Is(err, pricingdomain.ErrInvalidPricingType):
		return "type", true
	case errors.Is(err, pricingdomain.ErrInvalidAgeCategory):
		return "attendees", true
	case errors.Is(err, pricingdomain.ErrInvalidAttendees):
		return "attendee_count", true
	case errors.Is(err, money.ErrInvalidCurrency):
		return "currency", true
	case errors.Is(err, taxratedomain.ErrInvalidState):
		return "state", true
	default:
		return "", false
	}
}

func validationErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid request"
	case errors.Is(err, pricingdomain.ErrInvalidAttendees):
		return "attendee count must be positive and match the attendee list"
	default:
		return "invalid value"
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, pricingdomain.ErrNotFound),
		errors.Is(err, taxratedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// classifyErrorForLog feeds the request logger the same type/code the client sees.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}
