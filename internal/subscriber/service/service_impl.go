package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billhub/internal/subscriber/domain"
	"github.com/smallbiznis/billhub/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("subscriber.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) GetByNumber(ctx context.Context, subscriberNo string) (domain.Subscriber, error) {
	if strings.TrimSpace(subscriberNo) == "" {
		return domain.Subscriber{}, domain.ErrInvalidSubscriberNo
	}

	item, err := s.repo.FindByNumber(ctx, s.db, subscriberNo)
	if err != nil {
		return domain.Subscriber{}, err
	}
	if item == nil {
		return domain.Subscriber{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) FindByNumbers(ctx context.Context, subscriberNos []string) (map[string]domain.Subscriber, error) {
	items, err := s.repo.FindByNumbers(ctx, s.db, subscriberNos)
	if err != nil {
		return nil, err
	}

	resolved := make(map[string]domain.Subscriber, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		resolved[domain.NormalizeNumber(item.SubscriberNo)] = *item
	}
	return resolved, nil
}

func (s *Service) Ensure(ctx context.Context, req domain.EnsureSubscriberRequest) (domain.Subscriber, error) {
	subscriberNo := strings.TrimSpace(req.SubscriberNo)
	if subscriberNo == "" {
		return domain.Subscriber{}, domain.ErrInvalidSubscriberNo
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Subscriber{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Subscriber{}, domain.ErrInvalidEmail
	}

	var result domain.Subscriber
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByNumber(ctx, tx, subscriberNo)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if existing != nil {
			result = *existing
			if existing.Name == name && existing.Email == email {
				return nil
			}
			result.Name = name
			result.Email = email
			result.UpdatedAt = now
			return s.repo.UpdateProfile(ctx, tx, &result)
		}

		result = domain.Subscriber{
			ID:           s.genID.Generate(),
			SubscriberNo: subscriberNo,
			Name:         name,
			Email:        email,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return s.repo.Insert(ctx, tx, &result)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			// A concurrent Ensure won the insert.
			return s.GetByNumber(ctx, subscriberNo)
		}
		return domain.Subscriber{}, err
	}

	s.log.Debug("subscriber ensured", zap.String("subscriber_no", result.SubscriberNo))
	return result, nil
}
