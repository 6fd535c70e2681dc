package seed

import (
	"context"
	"testing"

	billdomain "github.com/smallbiznis/billhub/internal/bill/domain"
	billrepository "github.com/smallbiznis/billhub/internal/bill/repository"
	subscriberdomain "github.com/smallbiznis/billhub/internal/subscriber/domain"
	subscriberrepository "github.com/smallbiznis/billhub/internal/subscriber/repository"
	subscriberservice "github.com/smallbiznis/billhub/internal/subscriber/service"
	"github.com/smallbiznis/billhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newSeeder(t *testing.T) (*Seeder, *gorm.DB) {
	t.Helper()

	db := testutil.NewDB(t, &subscriberdomain.Subscriber{}, &billdomain.Bill{}, &billdomain.BillDetail{})
	node := testutil.NewNode(t)
	subscribers := subscriberservice.New(subscriberservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  subscriberrepository.Provide(),
	})
	return New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Subscribers: subscribers,
		BillRepo:    billrepository.Provide(),
	}), db
}

func TestRunSeedsDemoData(t *testing.T) {
	ctx := context.Background()
	seeder, db := newSeeder(t)

	require.NoError(t, seeder.Run(ctx))

	var subscribers, bills, details int64
	require.NoError(t, db.Model(&subscriberdomain.Subscriber{}).Count(&subscribers).Error)
	require.NoError(t, db.Model(&billdomain.Bill{}).Count(&bills).Error)
	require.NoError(t, db.Model(&billdomain.BillDetail{}).Count(&details).Error)
	assert.EqualValues(t, 4, subscribers)
	assert.EqualValues(t, 6, bills)
	assert.EqualValues(t, 13, details)

	var unpaid []billdomain.Bill
	require.NoError(t, db.Where("is_paid = ?", false).Order("total_amount").Find(&unpaid).Error)
	require.Len(t, unpaid, 2)
	assert.Equal(t, "180", unpaid[0].TotalAmount.String())
	assert.Equal(t, "100000", unpaid[1].TotalAmount.String())
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	seeder, db := newSeeder(t)

	require.NoError(t, seeder.Run(ctx))
	require.NoError(t, seeder.Run(ctx))

	var bills, details int64
	require.NoError(t, db.Model(&billdomain.Bill{}).Count(&bills).Error)
	require.NoError(t, db.Model(&billdomain.BillDetail{}).Count(&details).Error)
	assert.EqualValues(t, 6, bills)
	assert.EqualValues(t, 13, details)
}
