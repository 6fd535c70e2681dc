package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	billdomain "github.com/smallbiznis/billhub/internal/bill/domain"
	"github.com/smallbiznis/billhub/internal/billimport/domain"
	"github.com/smallbiznis/billhub/internal/clock"
	"github.com/smallbiznis/billhub/internal/config"
	"github.com/smallbiznis/billhub/internal/observability/logger"
	"github.com/smallbiznis/billhub/internal/observability/metrics"
	subscriberdomain "github.com/smallbiznis/billhub/internal/subscriber/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultBatchSize = 500

	sourceBatch    = "batch"
	outcomeSuccess = "success"
	outcomeError   = "error"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Cfg         config.Config
	BillRepo    billdomain.Repository
	Subscribers subscriberdomain.Service
	Clock       clock.Clock
	Metrics     *metrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	billRepo    billdomain.Repository
	subscribers subscriberdomain.Service
	clock       clock.Clock
	metrics     *metrics.Metrics
	batchSize   int
}

func New(p Params) domain.Service {
	batchSize := p.Cfg.Import.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("billimport.service"),
		genID:       p.GenID,
		billRepo:    p.BillRepo,
		subscribers: p.Subscribers,
		clock:       clk,
		metrics:     p.Metrics,
		batchSize:   batchSize,
	}
}

type periodKey struct {
	subscriberID snowflake.ID
	year         int
	month        int
}

func (s *Service) ImportBatch(ctx context.Context, r io.Reader) (domain.BatchResult, error) {
	if r == nil {
		return domain.BatchResult{}, domain.ErrEmptyInput
	}
	lines, err := readLines(ctx, r)
	if err != nil {
		if errors.Is(err, domain.ErrCanceled) {
			return domain.BatchResult{}, err
		}
		return domain.BatchResult{}, fmt.Errorf("%w: read input: %w", domain.ErrProcessingFailed, err)
	}
	return s.ImportLines(ctx, lines)
}

func (s *Service) ImportLines(ctx context.Context, lines []string) (domain.BatchResult, error) {
	if len(lines) == 0 {
		return domain.BatchResult{}, domain.ErrEmptyInput
	}
	if isHeader(lines[0]) {
		lines = lines[1:]
	}

	result := domain.BatchResult{
		BatchID:    ulid.Make().String(),
		TotalLines: len(lines),
		Errors:     []domain.RowError{},
	}
	reject := func(lineNumber int, raw, message string) {
		result.Errors = append(result.Errors, domain.RowError{
			LineNumber:   lineNumber,
			RawLine:      raw,
			ErrorMessage: message,
		})
	}

	rows := make([]row, 0, len(lines))
	for i, raw := range lines {
		if ctx.Err() != nil {
			return domain.BatchResult{}, domain.ErrCanceled
		}
		parsed, message := parseRow(i+1, raw)
		if message != "" {
			reject(i+1, raw, message)
			continue
		}
		rows = append(rows, parsed)
	}

	if ctx.Err() != nil {
		return domain.BatchResult{}, domain.ErrCanceled
	}
	subscribers, err := s.resolveSubscribers(ctx, rows)
	if err != nil {
		return domain.BatchResult{}, s.fail(ctx, err)
	}

	type candidate struct {
		row
		subscriberID snowflake.ID
	}
	candidates := make([]candidate, 0, len(rows))
	for _, r := range rows {
		sub, ok := subscribers[subscriberdomain.NormalizeNumber(r.subscriberNo)]
		if !ok {
			reject(r.lineNumber, r.raw, fmt.Sprintf(domain.MsgSubscriberNotFound, r.subscriberNo))
			continue
		}
		candidates = append(candidates, candidate{row: r, subscriberID: sub.ID})
	}

	keys := make([]periodKey, 0, len(candidates))
	for _, c := range candidates {
		keys = append(keys, periodKey{subscriberID: c.subscriberID, year: c.year, month: c.month})
	}
	if ctx.Err() != nil {
		return domain.BatchResult{}, domain.ErrCanceled
	}
	existing, err := s.existingPeriods(ctx, keys)
	if err != nil {
		return domain.BatchResult{}, s.fail(ctx, err)
	}

	now := s.clock.Now().UTC()
	bills := make([]*billdomain.Bill, 0, len(candidates))
	for _, c := range candidates {
		key := periodKey{subscriberID: c.subscriberID, year: c.year, month: c.month}
		if _, dup := existing[key]; dup {
			reject(c.lineNumber, c.raw, domain.MsgDuplicateBill)
			continue
		}
		// A later row of the same file for the same period is a duplicate as well.
		existing[key] = struct{}{}

		bills = append(bills, &billdomain.Bill{
			ID:           s.genID.Generate(),
			SubscriberID: c.subscriberID,
			Year:         c.year,
			Month:        c.month,
			TotalAmount:  c.amount,
			PaidAmount:   decimal.Zero,
			IsPaid:       false,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if ctx.Err() != nil {
		return domain.BatchResult{}, domain.ErrCanceled
	}
	if len(bills) > 0 {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.billRepo.InsertBatch(ctx, tx, bills, s.batchSize)
		})
		if err != nil {
			return domain.BatchResult{}, s.fail(ctx, err)
		}
	}

	slices.SortStableFunc(result.Errors, func(a, b domain.RowError) int {
		return a.LineNumber - b.LineNumber
	})
	result.SuccessCount = len(bills)
	result.ErrorCount = len(result.Errors)

	s.metrics.RecordBillsCreated(ctx, sourceBatch, result.SuccessCount)
	s.metrics.RecordImportRows(ctx, outcomeSuccess, result.SuccessCount)
	s.metrics.RecordImportRows(ctx, outcomeError, result.ErrorCount)
	logger.WithContext(ctx, s.log).Info("bill batch imported",
		zap.String("batch_id", result.BatchID),
		zap.Int("total_lines", result.TotalLines),
		zap.Int("success_count", result.SuccessCount),
		zap.Int("error_count", result.ErrorCount),
	)
	return result, nil
}

func (s *Service) resolveSubscribers(ctx context.Context, rows []row) (map[string]subscriberdomain.Subscriber, error) {
	if len(rows) == 0 {
		return map[string]subscriberdomain.Subscriber{}, nil
	}
	numbers := make([]string, 0, len(rows))
	for _, r := range rows {
		numbers = append(numbers, r.subscriberNo)
	}
	return s.subscribers.FindByNumbers(ctx, numbers)
}

// existingPeriods loads a superset of the stored bills and narrows it to the exact tuples.
func (s *Service) existingPeriods(ctx context.Context, keys []periodKey) (map[periodKey]struct{}, error) {
	found := make(map[periodKey]struct{})
	if len(keys) == 0 {
		return found, nil
	}

	wanted := make(map[periodKey]struct{}, len(keys))
	var (
		subscriberIDs []snowflake.ID
		years         []int
		months        []int
	)
	for _, k := range keys {
		wanted[k] = struct{}{}
		if !slices.Contains(subscriberIDs, k.subscriberID) {
			subscriberIDs = append(subscriberIDs, k.subscriberID)
		}
		if !slices.Contains(years, k.year) {
			years = append(years, k.year)
		}
		if !slices.Contains(months, k.month) {
			months = append(months, k.month)
		}
	}

	bills, err := s.billRepo.FindCandidates(ctx, s.db, subscriberIDs, years, months)
	if err != nil {
		return nil, err
	}
	for _, b := range bills {
		k := periodKey{subscriberID: b.SubscriberID, year: b.Year, month: b.Month}
		if _, ok := wanted[k]; ok {
			found[k] = struct{}{}
		}
	}
	return found, nil
}

func (s *Service) fail(ctx context.Context, cause error) error {
	if ctx.Err() != nil || errors.Is(cause, context.Canceled) {
		return domain.ErrCanceled
	}
	logger.WithContext(ctx, s.log).Error("bill batch import failed", zap.Error(cause))
	return fmt.Errorf("%w: %w", domain.ErrProcessingFailed, cause)
}
