package domain

import (
	"context"
	"errors"
)

type EnsureSubscriberRequest struct {
	SubscriberNo string
	Name         string
	Email        string
}

//go:generate mockgen -source=service.go -destination=./mocks/mock_service.go -package=mocks
type Service interface {
	GetByNumber(ctx context.Context, subscriberNo string) (Subscriber, error)
	// FindByNumbers resolves many numbers at once. The result is keyed by NormalizeNumber.
	FindByNumbers(ctx context.Context, subscriberNos []string) (map[string]Subscriber, error)
	Ensure(ctx context.Context, req EnsureSubscriberRequest) (Subscriber, error)
}

var (
	ErrInvalidSubscriberNo = errors.New("invalid_subscriber_no")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrNotFound            = errors.New("subscriber_not_found")
)
