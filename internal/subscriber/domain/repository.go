package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, subscriber *Subscriber) error
	UpdateProfile(ctx context.Context, db *gorm.DB, subscriber *Subscriber) error
	FindByNumber(ctx context.Context, db *gorm.DB, subscriberNo string) (*Subscriber, error)
	FindByNumbers(ctx context.Context, db *gorm.DB, subscriberNos []string) ([]*Subscriber, error)
}
