package ratelimit

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billhub/pkg/db"
	"gorm.io/gorm"
)

type dbStore struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewDBStore(conn *gorm.DB, genID *snowflake.Node) Store {
	return &dbStore{db: conn, genID: genID}
}

func (s *dbStore) Increment(ctx context.Context, key string, day time.Time, limit int) (int, bool, error) {
	count, allowed, err := s.increment(ctx, key, day, limit)
	if err != nil && db.IsDuplicateKeyErr(err) {
		// Lost the race to create today's row; the row exists now.
		count, allowed, err = s.increment(ctx, key, day, limit)
	}
	return count, allowed, err
}

func (s *dbStore) increment(ctx context.Context, key string, day time.Time, limit int) (int, bool, error) {
	var (
		count   int
		allowed bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&QueryLimitLog{}).
			Where("subscriber_no = ? AND date = ? AND count < ?", key, day, limit).
			Updates(map[string]any{
				"count":      gorm.Expr("count + 1"),
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}

		var existing QueryLimitLog
		if err := tx.Where("subscriber_no = ? AND date = ?", key, day).
			Limit(1).
			Find(&existing).Error; err != nil {
			return err
		}

		if res.RowsAffected > 0 {
			count, allowed = existing.Count, true
			return nil
		}
		if existing.ID != 0 {
			count, allowed = existing.Count, false
			return nil
		}

		row := QueryLimitLog{
			ID:           s.genID.Generate(),
			SubscriberNo: key,
			Date:         day,
			Count:        1,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		count, allowed = 1, true
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return count, allowed, nil
}

func (s *dbStore) Purge(ctx context.Context, before time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("date < ?", Day(before)).
		Delete(&QueryLimitLog{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

var _ Store = (*dbStore)(nil)
