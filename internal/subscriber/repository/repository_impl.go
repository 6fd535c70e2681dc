package repository

import (
	"context"

	"github.com/smallbiznis/billhub/internal/subscriber/domain"
	"gorm.io/gorm"
)

// lookupChunkSize keeps IN lists below the bind-parameter limits of every dialect.
const lookupChunkSize = 1000

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, subscriber *domain.Subscriber) error {
	return db.WithContext(ctx).Create(subscriber).Error
}

func (r *repo) UpdateProfile(ctx context.Context, db *gorm.DB, subscriber *domain.Subscriber) error {
	return db.WithContext(ctx).
		Model(&domain.Subscriber{}).
		Where("id = ?", subscriber.ID).
		Updates(map[string]any{
			"name":       subscriber.Name,
			"email":      subscriber.Email,
			"updated_at": subscriber.UpdatedAt,
		}).Error
}

func (r *repo) FindByNumber(ctx context.Context, db *gorm.DB, subscriberNo string) (*domain.Subscriber, error) {
	var subscriber domain.Subscriber
	err := db.WithContext(ctx).
		Where("LOWER(subscriber_no) = ?", domain.NormalizeNumber(subscriberNo)).
		Limit(1).
		Find(&subscriber).Error
	if err != nil {
		return nil, err
	}
	if subscriber.ID == 0 {
		return nil, nil
	}
	return &subscriber, nil
}

func (r *repo) FindByNumbers(ctx context.Context, db *gorm.DB, subscriberNos []string) ([]*domain.Subscriber, error) {
	keys := make([]string, 0, len(subscriberNos))
	seen := make(map[string]struct{}, len(subscriberNos))
	for _, no := range subscriberNos {
		key := domain.NormalizeNumber(no)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	subscribers := make([]*domain.Subscriber, 0, len(keys))
	for start := 0; start < len(keys); start += lookupChunkSize {
		end := min(start+lookupChunkSize, len(keys))

		var chunk []*domain.Subscriber
		err := db.WithContext(ctx).
			Where("LOWER(subscriber_no) IN ?", keys[start:end]).
			Order("id asc").
			Find(&chunk).Error
		if err != nil {
			return nil, err
		}
		subscribers = append(subscribers, chunk...)
	}
	return subscribers, nil
}
