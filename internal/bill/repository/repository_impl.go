package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billhub/internal/bill/domain"
	"github.com/smallbiznis/billhub/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// candidateChunkSize bounds the subscriber_id IN list of one candidate query.
var candidateChunkSize = 1000

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	return db.WithContext(ctx).Create(bill).Error
}

func (r *repo) InsertBatch(ctx context.Context, db *gorm.DB, bills []*domain.Bill, batchSize int) error {
	if len(bills) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = len(bills)
	}
	return db.WithContext(ctx).CreateInBatches(bills, batchSize).Error
}

func (r *repo) InsertDetails(ctx context.Context, db *gorm.DB, details []*domain.BillDetail) error {
	if len(details) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(details).Error
}

func (r *repo) FindByPeriod(ctx context.Context, db *gorm.DB, subscriberID snowflake.ID, year, month int, forUpdate bool) (*domain.Bill, error) {
	stmt := db.WithContext(ctx).
		Where("subscriber_id = ? AND year = ? AND month = ?", subscriberID, year, month)
	if forUpdate {
		stmt = stmt.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	var bill domain.Bill
	if err := stmt.Limit(1).Find(&bill).Error; err != nil {
		return nil, err
	}
	if bill.ID == 0 {
		return nil, nil
	}
	return &bill, nil
}

func (r *repo) FindCandidates(ctx context.Context, db *gorm.DB, subscriberIDs []snowflake.ID, years, months []int) ([]*domain.Bill, error) {
	if len(subscriberIDs) == 0 || len(years) == 0 || len(months) == 0 {
		return []*domain.Bill{}, nil
	}

	bills := make([]*domain.Bill, 0)
	for start := 0; start < len(subscriberIDs); start += candidateChunkSize {
		end := min(start+candidateChunkSize, len(subscriberIDs))

		var chunk []*domain.Bill
		err := db.WithContext(ctx).
			Select("id", "subscriber_id", "year", "month").
			Where("subscriber_id IN ? AND year IN ? AND month IN ?", subscriberIDs[start:end], years, months).
			Order("id asc").
			Find(&chunk).Error
		if err != nil {
			return nil, err
		}
		bills = append(bills, chunk...)
	}
	return bills, nil
}

func (r *repo) UpdatePayment(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	return db.WithContext(ctx).
		Model(&domain.Bill{}).
		Where("id = ?", bill.ID).
		Updates(map[string]any{
			"paid_amount": bill.PaidAmount,
			"is_paid":     bill.IsPaid,
			"updated_at":  bill.UpdatedAt,
		}).Error
}

func (r *repo) ListUnpaid(ctx context.Context, db *gorm.DB, subscriberID snowflake.ID) ([]*domain.Bill, error) {
	var bills []*domain.Bill
	err := db.WithContext(ctx).
		Where("subscriber_id = ? AND is_paid = ?", subscriberID, false).
		Order("year asc, month asc").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repo) CountDetails(ctx context.Context, db *gorm.DB, billID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.BillDetail{}).
		Where("bill_id = ?", billID).
		Count(&count).Error
	return count, err
}

func (r *repo) ListDetails(ctx context.Context, db *gorm.DB, billID snowflake.ID, page pagination.Pagination) ([]*domain.BillDetail, error) {
	var details []*domain.BillDetail
	err := db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("id asc").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}
