package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billhub/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, bill *Bill) error
	InsertBatch(ctx context.Context, db *gorm.DB, bills []*Bill, batchSize int) error
	InsertDetails(ctx context.Context, db *gorm.DB, details []*BillDetail) error
	// FindByPeriod returns nil, nil when no bill exists. forUpdate adds a row lock.
	FindByPeriod(ctx context.Context, db *gorm.DB, subscriberID snowflake.ID, year, month int, forUpdate bool) (*Bill, error)
	// FindCandidates returns a superset of the bills matching any (subscriber, year, month) combination.
	FindCandidates(ctx context.Context, db *gorm.DB, subscriberIDs []snowflake.ID, years, months []int) ([]*Bill, error)
	UpdatePayment(ctx context.Context, db *gorm.DB, bill *Bill) error
	ListUnpaid(ctx context.Context, db *gorm.DB, subscriberID snowflake.ID) ([]*Bill, error)
	CountDetails(ctx context.Context, db *gorm.DB, billID snowflake.ID) (int64, error)
	ListDetails(ctx context.Context, db *gorm.DB, billID snowflake.ID, page pagination.Pagination) ([]*BillDetail, error)
}
