package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/billhub/internal/auth/domain"
	"github.com/smallbiznis/billhub/internal/auth/token"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Issuer *token.Issuer
}

type Service struct {
	log    *zap.Logger
	issuer *token.Issuer
}

func New(p Params) domain.Service {
	return &Service{
		log:    p.Log.Named("auth.service"),
		issuer: p.Issuer,
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResult, error) {
	role, ok := domain.ParseRole(req.ClientType)
	if !ok {
		return domain.LoginResult{}, domain.ErrInvalidClientType
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return domain.LoginResult{}, domain.ErrInvalidUsername
	}

	signed, expiresAt, err := s.issuer.Issue(username, role)
	if err != nil {
		return domain.LoginResult{}, err
	}

	s.log.Info("token issued", zap.String("role", string(role)), zap.Time("expires_at", expiresAt))
	return domain.LoginResult{Token: signed, ExpiresAt: expiresAt}, nil
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (domain.Principal, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return domain.Principal{}, domain.ErrMissingToken
	}

	claims, err := s.issuer.Verify(rawToken)
	if err != nil {
		s.log.Debug("token rejected", zap.Error(err))
		return domain.Principal{}, domain.ErrInvalidToken
	}
	role, ok := domain.ParseRole(string(claims.Role))
	if !ok {
		return domain.Principal{}, domain.ErrInvalidToken
	}
	return domain.Principal{Subject: claims.Subject, Role: role}, nil
}
