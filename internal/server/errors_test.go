package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	authdomain "github.com/smallbiznis/billhub/internal/auth/domain"
	billdomain "github.com/smallbiznis/billhub/internal/bill/domain"
	"github.com/smallbiznis/billhub/internal/ratelimit"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		typ    string
	}{
		{billdomain.ErrInvalidAmount, http.StatusBadRequest, "validation_error"},
		{fmt.Errorf("wrapped: %w", billdomain.ErrInvalidPeriod), http.StatusBadRequest, "validation_error"},
		{ErrCSVRequired, http.StatusBadRequest, "validation_error"},
		{&billdomain.DuplicateBillError{ExistingID: 9}, http.StatusConflict, "duplicate_bill"},
		{fmt.Errorf("rate: %w", &ratelimit.LimitExceededError{SubscriberNo: "1", Limit: 3}), http.StatusTooManyRequests, "rate_limit_exceeded"},
		{billdomain.ErrBillNotFound, http.StatusNotFound, "not_found"},
		{authdomain.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
		{ErrForbidden, http.StatusForbidden, "forbidden"},
		{context.Canceled, StatusClientClosedRequest, "canceled"},
		{assert.AnError, http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.typ, payload.Type)
		})
	}
}

func TestMapErrorKeepsInternalDetailPrivate(t *testing.T) {
	_, payload := mapError(fmt.Errorf("dial tcp 10.0.0.5:5432: connection refused"))
	assert.Equal(t, "internal server error", payload.Message)
}

func TestClassifyErrorForLog(t *testing.T) {
	typ, code := classifyErrorForLog(billdomain.ErrInvalidAmount)
	assert.Equal(t, "validation_error", typ)
	assert.Equal(t, "invalid_amount", code)

	typ, code = classifyErrorForLog(billdomain.ErrBillNotFound)
	assert.Equal(t, "not_found", typ)
	assert.Equal(t, "404", code)
}

func TestBearerTokenParsing(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"Bearer":       "",
		"":             "",
	}
	for header, want := range cases {
		ctx, _ := newGinContext(header)
		assert.Equal(t, want, bearerToken(ctx), header)
	}
}
