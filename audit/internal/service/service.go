package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Astemirdum/lending-ledger/audit/internal/model"
	"github.com/Astemirdum/lending-ledger/audit/internal/repository"
	"github.com/Astemirdum/lending-ledger/pkg/kafka"
)

type Service struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewService(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log,
		repo: repo,
	}
}

func (s *Service) Store(ctx context.Context, event kafka.LendingEvent) error {
	return s.repo.Store(ctx, event)
}

func (s *Service) ListEvents(ctx context.Context, page, size int) (model.EventFeed, error) {
	return s.repo.ListEvents(ctx, page, size)
}
