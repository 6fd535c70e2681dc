package server

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type billPeriodQuery struct {
	SubscriberNo string
	Year         int
	Month        int
}

func parseBillPeriodQuery(c *gin.Context) (billPeriodQuery, error) {
	subscriberNo := strings.TrimSpace(c.Query("subscriberNo"))
	if subscriberNo == "" {
		return billPeriodQuery{}, newValidationError("subscriberNo", "required", "SubscriberNo is required.")
	}

	year, err := parseRequiredInt(c.Query("year"))
	if err != nil {
		return billPeriodQuery{}, newValidationError("year", "invalid_year", "Year must be an integer.")
	}
	month, err := parseRequiredInt(c.Query("month"))
	if err != nil {
		return billPeriodQuery{}, newValidationError("month", "invalid_month", "Month must be an integer.")
	}

	return billPeriodQuery{
		SubscriberNo: subscriberNo,
		Year:         year,
		Month:        month,
	}, nil
}

func parseRequiredInt(value string) (int, error) {
	parsed, err := parseOptionalInt(value)
	if err != nil {
		return 0, err
	}
	if parsed == nil {
		return 0, errors.New("required")
	}
	return *parsed, nil
}

func parseOptionalInt(value string) (*int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func intOrZero(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
