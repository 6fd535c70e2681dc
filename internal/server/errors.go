package server

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/billhub/internal/auth/domain"
	"github.com/smallbiznis/billhub/internal/authorization"
	billdomain "github.com/smallbiznis/billhub/internal/bill/domain"
	billimportdomain "github.com/smallbiznis/billhub/internal/billimport/domain"
	"github.com/smallbiznis/billhub/internal/clock"
	"github.com/smallbiznis/billhub/internal/ratelimit"
	subscriberdomain "github.com/smallbiznis/billhub/internal/subscriber/domain"
)

// StatusClientClosedRequest is reported when the caller went away mid-request.
const StatusClientClosedRequest = 499

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`

	BillID       *snowflake.ID `json:"billId,omitempty"`
	SubscriberNo string        `json:"subscriberNo,omitempty"`
	Limit        int           `json:"limit,omitempty"`
	Day          string        `json:"day,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrCSVRequired    = errors.New("csv_required")
)

// messageError replaces the caller-facing message of err without changing its classification.
type messageError struct {
	err     error
	message string
}

func (e *messageError) Error() string { return e.message }

func (e *messageError) Unwrap() error { return e.err }

func withMessage(err error, message string) error {
	if err == nil {
		return nil
	}
	return &messageError{err: err, message: message}
}

func ErrorHandlingMiddleware(clk clock.Clock) gin.HandlerFunc {
	if clk == nil {
		clk = clock.New()
	}
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		var limitErr *ratelimit.LimitExceededError
		if errors.As(lastErr.Err, &limitErr) {
			seconds := int64(math.Ceil(limitErr.RetryAfter(clk.Now()).Seconds()))
			c.Header("Retry-After", strconv.FormatInt(seconds, 10))
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

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
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
			Message: firstMessage(vErr.Errors),
			Errors:  vErr.Errors,
		}
	}

	if detail, ok := validationDetail(err); ok {
		detail.Message = messageOf(err, detail.Message)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: detail.Message,
			Errors:  []ValidationError{detail},
		}
	}

	var limitErr *ratelimit.LimitExceededError
	if errors.As(err, &limitErr) {
		return http.StatusTooManyRequests, errorPayload{
			Type:         "rate_limit_exceeded",
			Message:      limitErr.Error(),
			SubscriberNo: limitErr.SubscriberNo,
			Limit:        limitErr.Limit,
			Day:          limitErr.Day.Format("2006-01-02"),
		}
	}

	var dupErr *billdomain.DuplicateBillError
	if errors.As(err, &dupErr) {
		existing := dupErr.ExistingID
		return http.StatusConflict, errorPayload{
			Type:    "duplicate_bill",
			Message: dupErr.Error(),
			BillID:  &existing,
		}
	}

	switch {
	case errors.Is(err, billdomain.ErrPaymentInProgress):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "A payment for this bill is already in progress.",
		}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrMissingToken),
		errors.Is(err, authdomain.ErrInvalidToken):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden),
		errors.Is(err, authorization.ErrInvalidRole),
		errors.Is(err, authorization.ErrInvalidObject),
		errors.Is(err, authorization.ErrInvalidAction):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: messageOf(err, "not found"),
		}
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, errorPayload{
			Type:    "canceled",
			Message: "request canceled",
		}
	case errors.Is(err, billimportdomain.ErrProcessingFailed):
		return http.StatusInternalServerError, errorPayload{
			Type:    "processing_failed",
			Message: "Batch import could not be processed.",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog feeds the request logger with the mapped error type and code.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	if len(payload.Errors) > 0 {
		return payload.Type, payload.Errors[0].Code
	}
	return payload.Type, strconv.Itoa(status)
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func validationDetail(err error) (ValidationError, bool) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return ValidationError{Field: "request", Code: "invalid_request", Message: "invalid request"}, true
	case errors.Is(err, ErrCSVRequired),
		errors.Is(err, billimportdomain.ErrEmptyInput):
		return ValidationError{Field: "file", Code: "required", Message: "CSV file is required."}, true
	case errors.Is(err, billdomain.ErrInvalidAmount):
		return ValidationError{Field: "amount", Code: "invalid_amount", Message: "Amount must be greater than zero."}, true
	case errors.Is(err, billdomain.ErrInvalidPeriod):
		return ValidationError{Field: "period", Code: "invalid_period", Message: "Year must be between 2000 and 2100 and Month between 1 and 12."}, true
	case errors.Is(err, billdomain.ErrInvalidSubscriberNo),
		errors.Is(err, subscriberdomain.ErrInvalidSubscriberNo),
		errors.Is(err, ratelimit.ErrInvalidSubscriberNo):
		return ValidationError{Field: "subscriberNo", Code: "invalid_subscriber_no", Message: "SubscriberNo is required."}, true
	case errors.Is(err, subscriberdomain.ErrInvalidName):
		return ValidationError{Field: "name", Code: "invalid_name", Message: "Name is required."}, true
	case errors.Is(err, subscriberdomain.ErrInvalidEmail):
		return ValidationError{Field: "email", Code: "invalid_email", Message: "Email is invalid."}, true
	case errors.Is(err, authdomain.ErrInvalidClientType):
		return ValidationError{Field: "clientType", Code: "invalid_client_type", Message: "ClientType must be one of: mobile, bank, admin."}, true
	case errors.Is(err, authdomain.ErrInvalidUsername):
		return ValidationError{Field: "username", Code: "invalid_username", Message: "Username is required."}, true
	default:
		return ValidationError{}, false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, billdomain.ErrBillNotFound),
		errors.Is(err, subscriberdomain.ErrNotFound):
		return true
	default:
		return false
	}
}

// messageOf prefers a message attached by the handler, then the typed domain error text.
func messageOf(err error, fallback string) string {
	var msgErr *messageError
	if errors.As(err, &msgErr) {
		return msgErr.message
	}
	var notFound *billdomain.NotFoundError
	if errors.As(err, &notFound) {
		return notFound.Error()
	}
	return fallback
}

func firstMessage(errs []ValidationError) string {
	if len(errs) == 0 || errs[0].Message == "" {
		return "validation error"
	}
	return errs[0].Message
}
