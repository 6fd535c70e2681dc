package domain

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidPeriod       = errors.New("invalid_period")
	ErrInvalidSubscriberNo = errors.New("invalid_subscriber_no")
	ErrBillNotFound        = errors.New("bill_not_found")
	ErrDuplicateBill       = errors.New("duplicate_bill")
	ErrPaymentInProgress   = errors.New("payment_in_progress")
)

// DuplicateBillError carries the id of the bill already occupying the period.
type DuplicateBillError struct {
	ExistingID snowflake.ID
}

func (e *DuplicateBillError) Error() string {
	return "Bill already exists for this subscriber and month."
}

func (e *DuplicateBillError) Is(target error) bool {
	return target == ErrDuplicateBill
}

type NotFoundError struct {
	SubscriberNo string
	Year         int
	Month        int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Bill not found for subscriber %s %04d-%02d", e.SubscriberNo, e.Year, e.Month)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrBillNotFound
}
