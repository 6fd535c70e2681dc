package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
)

//go:generate mockgen -source=service.go -destination=./mocks/mock_service.go -package=mocks
type Service interface {
	// ImportBatch reads newline separated rows of SubscriberNo,Year,Month,TotalAmount.
	ImportBatch(ctx context.Context, r io.Reader) (BatchResult, error)
	ImportLines(ctx context.Context, lines []string) (BatchResult, error)
}

var (
	ErrEmptyInput       = errors.New("empty_input")
	ErrProcessingFailed = errors.New("import_processing_failed")
	// ErrCanceled also matches context.Canceled.
	ErrCanceled = fmt.Errorf("import_canceled: %w", context.Canceled)
)
