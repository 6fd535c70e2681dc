package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billdomain "github.com/smallbiznis/billhub/internal/bill/domain"
	subscriberdomain "github.com/smallbiznis/billhub/internal/subscriber/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type demoSubscriber struct {
	no    string
	name  string
	email string
}

type demoDetail struct {
	description string
	itemType    string
	amount      int64
}

type demoBill struct {
	subscriberNo string
	year         int
	month        int
	total        int64
	paid         int64
	isPaid       bool
	details      []demoDetail
}

var demoSubscribers = []demoSubscriber{
	{"1001", "Ali Veli", "ali@example.com"},
	{"1002", "Ayşe Yılmaz", "ayse@example.com"},
	{"1003", "Murat Okan", "murat@example.com"},
	{"1004", "Talha Chiara", "talha@example.com"},
}

var demoBills = []demoBill{
	{"1001", 2024, 10, 300, 0, true, []demoDetail{
		{"Voice calls", billdomain.ItemTypeCall, 120},
		{"SMS", billdomain.ItemTypeSMS, 30},
		{"Internet", billdomain.ItemTypeData, 150},
	}},
	{"1001", 2024, 9, 250, 250, true, []demoDetail{
		{"Internet", billdomain.ItemTypeData, 200},
		{"Other", billdomain.ItemTypeOther, 50},
	}},
	{"1002", 2024, 10, 180, 0, false, []demoDetail{
		{"Voice calls", billdomain.ItemTypeCall, 80},
		{"Internet", billdomain.ItemTypeData, 100},
	}},
	{"1003", 2024, 10, 1800, 0, true, []demoDetail{
		{"Voice calls", billdomain.ItemTypeCall, 800},
		{"Internet", billdomain.ItemTypeData, 1000},
	}},
	{"1003", 2024, 9, 2000, 0, true, []demoDetail{
		{"Voice calls", billdomain.ItemTypeCall, 900},
		{"Internet", billdomain.ItemTypeData, 1100},
	}},
	{"1004", 2025, 9, 100000, 0, false, []demoDetail{
		{"Voice calls", billdomain.ItemTypeCall, 0},
		{"Internet", billdomain.ItemTypeData, 10000},
	}},
}

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Subscribers subscriberdomain.Service
	BillRepo    billdomain.Repository
}

// Seeder loads the demo subscribers and bills. Existing rows are left untouched.
type Seeder struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	subscribers subscriberdomain.Service
	billRepo    billdomain.Repository
}

func New(p Params) *Seeder {
	return &Seeder{
		db:          p.DB,
		log:         p.Log.Named("seed"),
		genID:       p.GenID,
		subscribers: p.Subscribers,
		billRepo:    p.BillRepo,
	}
}

func (s *Seeder) Run(ctx context.Context) error {
	if s.db == nil {
		return errors.New("seed database handle is required")
	}

	ids := make(map[string]snowflake.ID, len(demoSubscribers))
	for _, sub := range demoSubscribers {
		ensured, err := s.subscribers.Ensure(ctx, subscriberdomain.EnsureSubscriberRequest{
			SubscriberNo: sub.no,
			Name:         sub.name,
			Email:        sub.email,
		})
		if err != nil {
			return err
		}
		ids[sub.no] = ensured.ID
	}

	created := 0
	for _, bill := range demoBills {
		inserted, err := s.ensureBill(ctx, ids[bill.subscriberNo], bill)
		if err != nil {
			return err
		}
		if inserted {
			created++
		}
	}

	s.log.Info("demo data seeded",
		zap.Int("subscribers", len(demoSubscribers)),
		zap.Int("bills_created", created),
	)
	return nil
}

func (s *Seeder) ensureBill(ctx context.Context, subscriberID snowflake.ID, demo demoBill) (bool, error) {
	inserted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.billRepo.FindByPeriod(ctx, tx, subscriberID, demo.year, demo.month, false)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}

		now := time.Now().UTC()
		bill := &billdomain.Bill{
			ID:           s.genID.Generate(),
			SubscriberID: subscriberID,
			Year:         demo.year,
			Month:        demo.month,
			TotalAmount:  decimal.NewFromInt(demo.total),
			PaidAmount:   decimal.NewFromInt(demo.paid),
			IsPaid:       demo.isPaid,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.billRepo.Insert(ctx, tx, bill); err != nil {
			return err
		}

		details := make([]*billdomain.BillDetail, 0, len(demo.details))
		for _, d := range demo.details {
			details = append(details, &billdomain.BillDetail{
				ID:          s.genID.Generate(),
				BillID:      bill.ID,
				Description: d.description,
				ItemType:    d.itemType,
				Amount:      decimal.NewFromInt(d.amount),
				CreatedAt:   now,
			})
		}
		if err := s.billRepo.InsertDetails(ctx, tx, details); err != nil {
			return err
		}
		inserted = true
		return nil
	})
	return inserted, err
}
