package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/billhub/internal/bill/domain"
	"github.com/smallbiznis/billhub/internal/clock"
	"github.com/smallbiznis/billhub/internal/config"
	"github.com/smallbiznis/billhub/internal/observability/logger"
	"github.com/smallbiznis/billhub/internal/observability/metrics"
	"github.com/smallbiznis/billhub/internal/ratelimit"
	subscriberdomain "github.com/smallbiznis/billhub/internal/subscriber/domain"
	"github.com/smallbiznis/billhub/pkg/db"
	"github.com/smallbiznis/billhub/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sourceSingle = "single"

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	GenID          *snowflake.Node
	Repo           domain.Repository
	SubscriberRepo subscriberdomain.Repository
	Limiter        ratelimit.QueryLimiter
	Clock          clock.Clock
	Policy         *config.PolicyHolder
	Locker         *ratelimit.Locker `optional:"true"`
	Metrics        *metrics.Metrics  `optional:"true"`
}

type Service struct {
	db             *gorm.DB
	log            *zap.Logger
	genID          *snowflake.Node
	repo           domain.Repository
	subscriberRepo subscriberdomain.Repository
	limiter        ratelimit.QueryLimiter
	clock          clock.Clock
	policy         *config.PolicyHolder
	locker         *ratelimit.Locker
	metrics        *metrics.Metrics
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("bill.service"),
		genID:          p.GenID,
		repo:           p.Repo,
		subscriberRepo: p.SubscriberRepo,
		limiter:        p.Limiter,
		clock:          clk,
		policy:         p.Policy,
		locker:         p.Locker,
		metrics:        p.Metrics,
	}
}

func (s *Service) CreateBill(ctx context.Context, req domain.CreateBillRequest) (domain.Bill, error) {
	amount := req.TotalAmount.Round(2)
	if !amount.IsPositive() {
		return domain.Bill{}, domain.ErrInvalidAmount
	}
	if !domain.ValidPeriod(req.Year, req.Month) {
		return domain.Bill{}, domain.ErrInvalidPeriod
	}
	subscriberNo := strings.TrimSpace(req.SubscriberNo)
	if subscriberNo == "" {
		return domain.Bill{}, domain.ErrInvalidSubscriberNo
	}

	subscriber, err := s.subscriberRepo.FindByNumber(ctx, s.db, subscriberNo)
	if err != nil {
		return domain.Bill{}, err
	}
	if subscriber == nil {
		return domain.Bill{}, subscriberdomain.ErrNotFound
	}

	now := s.clock.Now().UTC()
	bill := domain.Bill{
		ID:           s.genID.Generate(),
		SubscriberID: subscriber.ID,
		Year:         req.Year,
		Month:        req.Month,
		TotalAmount:  amount,
		PaidAmount:   decimal.Zero,
		IsPaid:       false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByPeriod(ctx, tx, subscriber.ID, req.Year, req.Month, false)
		if err != nil {
			return err
		}
		if existing != nil {
			return &domain.DuplicateBillError{ExistingID: existing.ID}
		}
		return s.repo.Insert(ctx, tx, &bill)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Bill{}, s.duplicateOf(ctx, subscriber.ID, req.Year, req.Month)
		}
		return domain.Bill{}, err
	}

	s.metrics.RecordBillsCreated(ctx, sourceSingle, 1)
	logger.WithSubscriber(logger.WithContext(ctx, s.log), subscriber.SubscriberNo).Info("bill created",
		zap.String("bill_id", bill.ID.String()),
		zap.Int("year", bill.Year),
		zap.Int("month", bill.Month),
		zap.String("total_amount", bill.TotalAmount.StringFixed(2)),
	)
	return bill, nil
}

// duplicateOf re-reads the bill that won a concurrent insert.
func (s *Service) duplicateOf(ctx context.Context, subscriberID snowflake.ID, year, month int) error {
	existing, err := s.repo.FindByPeriod(ctx, s.db, subscriberID, year, month, false)
	if err != nil {
		return err
	}
	dup := &domain.DuplicateBillError{}
	if existing != nil {
		dup.ExistingID = existing.ID
	}
	return dup
}

func (s *Service) ApplyPayment(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	amount := req.Amount.Round(2)
	if !amount.IsPositive() {
		return domain.PaymentResult{}, domain.ErrInvalidAmount
	}
	subscriberNo := strings.TrimSpace(req.SubscriberNo)
	if subscriberNo == "" {
		return domain.PaymentResult{}, domain.ErrInvalidSubscriberNo
	}

	notFound := &domain.NotFoundError{SubscriberNo: subscriberNo, Year: req.Year, Month: req.Month}
	subscriber, err := s.subscriberRepo.FindByNumber(ctx, s.db, subscriberNo)
	if err != nil {
		return domain.PaymentResult{}, err
	}
	if subscriber == nil {
		return domain.PaymentResult{}, notFound
	}

	current, err := s.repo.FindByPeriod(ctx, s.db, subscriber.ID, req.Year, req.Month, false)
	if err != nil {
		return domain.PaymentResult{}, err
	}
	if current == nil {
		return domain.PaymentResult{}, notFound
	}

	release, err := s.locker.LockBill(ctx, current.ID.String())
	defer release()
	if err != nil {
		if errors.Is(err, ratelimit.ErrLockNotAcquired) {
			return domain.PaymentResult{}, domain.ErrPaymentInProgress
		}
		return domain.PaymentResult{}, fmt.Errorf("lock bill: %w", err)
	}

	var result domain.PaymentResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bill, err := s.repo.FindByPeriod(ctx, tx, subscriber.ID, req.Year, req.Month, db.SupportsRowLocking(tx))
		if err != nil {
			return err
		}
		if bill == nil {
			return notFound
		}

		if bill.IsPaid {
			result = paymentResult(bill, domain.PaymentStatusAlreadyPaid, "Bill is already fully paid.")
			return nil
		}

		bill.PaidAmount = bill.PaidAmount.Add(amount)
		status, message := domain.PaymentStatusPartial, "Partial payment completed."
		if bill.PaidAmount.GreaterThanOrEqual(bill.TotalAmount) {
			// Overpayment is clamped to the bill total.
			bill.PaidAmount = bill.TotalAmount
			bill.IsPaid = true
			status, message = domain.PaymentStatusFullyPaid, "Bill fully paid."
		}
		bill.UpdatedAt = s.clock.Now().UTC()

		if err := s.repo.UpdatePayment(ctx, tx, bill); err != nil {
			return err
		}
		result = paymentResult(bill, status, message)
		return nil
	})
	if err != nil {
		return domain.PaymentResult{}, err
	}

	s.metrics.RecordPayment(ctx, string(result.Status))
	logger.WithSubscriber(logger.WithContext(ctx, s.log), subscriber.SubscriberNo).Info("payment applied",
		zap.String("bill_id", result.BillID.String()),
		zap.String("status", string(result.Status)),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("remaining", result.RemainingAmount.StringFixed(2)),
	)
	return result, nil
}

func paymentResult(bill *domain.Bill, status domain.PaymentStatus, message string) domain.PaymentResult {
	return domain.PaymentResult{
		BillID:          bill.ID,
		Status:          status,
		Message:         message,
		TotalAmount:     bill.TotalAmount,
		PaidAmount:      bill.PaidAmount,
		RemainingAmount: bill.Remaining(),
	}
}

func (s *Service) ListUnpaidBills(ctx context.Context, subscriberNo string) ([]domain.UnpaidBill, error) {
	subscriberNo = strings.TrimSpace(subscriberNo)
	if subscriberNo == "" {
		return nil, domain.ErrInvalidSubscriberNo
	}

	unpaid := make([]domain.UnpaidBill, 0)
	subscriber, err := s.subscriberRepo.FindByNumber(ctx, s.db, subscriberNo)
	if err != nil {
		return nil, err
	}
	if subscriber == nil {
		return unpaid, nil
	}

	bills, err := s.repo.ListUnpaid(ctx, s.db, subscriber.ID)
	if err != nil {
		return nil, err
	}
	for _, bill := range bills {
		unpaid = append(unpaid, domain.UnpaidBill{
			SubscriberNo:    subscriber.SubscriberNo,
			Year:            bill.Year,
			Month:           bill.Month,
			TotalAmount:     bill.TotalAmount,
			PaidAmount:      bill.PaidAmount,
			RemainingAmount: bill.Remaining(),
		})
	}
	return unpaid, nil
}

func (s *Service) GetBillSummary(ctx context.Context, subscriberNo string, year, month int) (domain.BillSummary, error) {
	subscriberNo = strings.TrimSpace(subscriberNo)
	if subscriberNo == "" {
		return domain.BillSummary{}, domain.ErrInvalidSubscriberNo
	}
	if !domain.ValidPeriod(year, month) {
		return domain.BillSummary{}, domain.ErrInvalidPeriod
	}

	if _, err := s.limiter.CheckAndIncrement(ctx, subscriberNo, s.clock.Now()); err != nil {
		return domain.BillSummary{}, err
	}

	subscriber, bill, err := s.findBill(ctx, subscriberNo, year, month)
	if err != nil {
		return domain.BillSummary{}, err
	}
	return summaryOf(subscriber, bill), nil
}

func (s *Service) GetBillDetailed(ctx context.Context, req domain.GetBillDetailedRequest) (domain.DetailedBill, error) {
	subscriberNo := strings.TrimSpace(req.SubscriberNo)
	if subscriberNo == "" {
		return domain.DetailedBill{}, domain.ErrInvalidSubscriberNo
	}
	if !domain.ValidPeriod(req.Year, req.Month) {
		return domain.DetailedBill{}, domain.ErrInvalidPeriod
	}

	policy := s.policy.Get()
	page := pagination.Pagination{Page: req.Page, PageSize: req.PageSize}.
		Normalize(policy.DetailPageSizeDefault, policy.DetailPageSizeMax)

	subscriber, bill, err := s.findBill(ctx, subscriberNo, req.Year, req.Month)
	if err != nil {
		return domain.DetailedBill{}, err
	}

	total, err := s.repo.CountDetails(ctx, s.db, bill.ID)
	if err != nil {
		return domain.DetailedBill{}, err
	}
	details, err := s.repo.ListDetails(ctx, s.db, bill.ID, page)
	if err != nil {
		return domain.DetailedBill{}, err
	}

	items := make([]domain.BillDetailItem, 0, len(details))
	for _, detail := range details {
		items = append(items, domain.BillDetailItem{
			ID:          detail.ID,
			Description: detail.Description,
			ItemType:    detail.ItemType,
			Amount:      detail.Amount,
		})
	}

	return domain.DetailedBill{
		BillSummary:      summaryOf(subscriber, bill),
		Page:             page.Page,
		PageSize:         page.PageSize,
		TotalDetailCount: total,
		Details:          items,
	}, nil
}

func (s *Service) findBill(ctx context.Context, subscriberNo string, year, month int) (*subscriberdomain.Subscriber, *domain.Bill, error) {
	notFound := &domain.NotFoundError{SubscriberNo: subscriberNo, Year: year, Month: month}

	subscriber, err := s.subscriberRepo.FindByNumber(ctx, s.db, subscriberNo)
	if err != nil {
		return nil, nil, err
	}
	if subscriber == nil {
		return nil, nil, notFound
	}

	bill, err := s.repo.FindByPeriod(ctx, s.db, subscriber.ID, year, month, false)
	if err != nil {
		return nil, nil, err
	}
	if bill == nil {
		return nil, nil, notFound
	}
	return subscriber, bill, nil
}

func summaryOf(subscriber *subscriberdomain.Subscriber, bill *domain.Bill) domain.BillSummary {
	return domain.BillSummary{
		SubscriberNo: subscriber.SubscriberNo,
		Year:         bill.Year,
		Month:        bill.Month,
		BillTotal:    bill.TotalAmount,
		IsPaid:       bill.IsPaid,
	}
}

var _ domain.Service = (*Service)(nil)
