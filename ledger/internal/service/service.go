package service

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/lending-ledger/ledger/config"
	"github.com/Astemirdum/lending-ledger/ledger/internal/errs"
	"github.com/Astemirdum/lending-ledger/ledger/internal/model"
	"github.com/Astemirdum/lending-ledger/ledger/internal/repository"
	"github.com/Astemirdum/lending-ledger/pkg/circuit_breaker"
)

// UserDirectory is the outbound contract to the external user service.
type UserDirectory interface {
	CB() circuit_breaker.CircuitBreaker
	GetUser(ctx context.Context, userID int64) (model.User, int, error)
}

type Service struct {
	log    *zap.Logger
	repo   repository.Repository
	users  UserDirectory
	policy config.LendingPolicy
}

func NewService(repo repository.Repository, users UserDirectory, policy config.LendingPolicy, log *zap.Logger) *Service {
	return &Service{
		log:    log,
		repo:   repo,
		users:  users,
		policy: policy,
	}
}

// Borrow runs the lending policy and, if it passes, reserves a copy and
// creates the loan as one atomic unit.
func (s *Service) Borrow(ctx context.Context, userID, bookID int64) (model.Loan, error) {
	if err := s.userExists(ctx, userID); err != nil {
		return model.Loan{}, err
	}
	if _, err := s.repo.GetBook(ctx, bookID); err != nil {
		return model.Loan{}, err
	}

	active, err := s.repo.CountActive(ctx, userID)
	if err != nil {
		return model.Loan{}, err
	}
	if active >= s.policy.MaxActiveLoans {
		return model.Loan{}, errs.ErrLimitExceeded
	}

	has, err := s.repo.HasActiveLoan(ctx, userID, bookID)
	if err != nil {
		return model.Loan{}, err
	}
	if has {
		return model.Loan{}, errs.ErrAlreadyBorrowed
	}

	now := time.Now().UTC()
	return s.repo.CreateLoan(ctx, userID, bookID, now, now.Add(s.policy.LoanPeriod()))
}

// Return is idempotent at the workflow level: a second call on the same loan
// surfaces AlreadyReturned without touching stock. Authorization of the
// requester happens at the boundary, not here.
func (s *Service) Return(ctx context.Context, loanID int64) (model.Loan, error) {
	return s.repo.ReturnLoan(ctx, loanID)
}

func (s *Service) GetLoan(ctx context.Context, loanID int64) (model.LoanView, error) {
	loan, err := s.repo.GetLoan(ctx, loanID)
	if err != nil {
		return model.LoanView{}, err
	}
	views, err := s.decorate(ctx, []model.Loan{loan})
	if err != nil {
		return model.LoanView{}, err
	}
	return views[0], nil
}

// ListLoans returns decorated loan history. userID 0 means all users.
func (s *Service) ListLoans(ctx context.Context, userID int64, page, size int) (model.LoanHistory, error) {
	loans, err := s.repo.ListLoans(ctx, userID, page, size)
	if err != nil {
		return model.LoanHistory{}, err
	}
	views, err := s.decorate(ctx, loans.Items)
	if err != nil {
		return model.LoanHistory{}, err
	}
	return model.LoanHistory{
		Paging: loans.Paging,
		Items:  views,
	}, nil
}

// SweepOverdue transitions expired loans in bulk and returns them. A failed
// sweep is non-fatal: the next run re-selects whatever is still pending.
func (s *Service) SweepOverdue(ctx context.Context) ([]model.Loan, error) {
	swept, err := s.repo.SweepOverdue(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.log.Info("overdue sweep", zap.Int("transitioned", len(swept)))
	return swept, nil
}

func (s *Service) GetBook(ctx context.Context, bookID int64) (model.Book, error) {
	return s.repo.GetBook(ctx, bookID)
}

func (s *Service) ListBooks(ctx context.Context, showAll bool, page, size int) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, showAll, page, size)
}

func (s *Service) AdjustTotal(ctx context.Context, bookID int64, newTotal int) (model.Book, error) {
	return s.repo.AdjustTotal(ctx, bookID, newTotal)
}

func (s *Service) userExists(ctx context.Context, userID int64) error {
	return s.users.CB().Call(func() error {
		_, code, err := s.users.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if code == http.StatusNotFound {
			return errs.ErrUserNotFound
		}
		if code >= http.StatusBadRequest {
			return errors.Errorf("user directory: status %d", code)
		}
		return nil
	})
}

// decorate joins book and user lookups onto loans at the response boundary.
// The user directory is best-effort here: a degraded directory must not take
// loan listings down with it.
func (s *Service) decorate(ctx context.Context, loans []model.Loan) ([]model.LoanView, error) {
	views := make([]model.LoanView, len(loans))
	for i := range loans {
		views[i].Loan = loans[i]
	}

	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		cache := make(map[int64]model.Book, len(views))
		for i := range views {
			book, ok := cache[views[i].BookID]
			if !ok {
				var err error
				book, err = s.repo.GetBook(ctx, views[i].BookID)
				if errors.Is(err, errs.ErrBookNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				cache[views[i].BookID] = book
			}
			b := book
			views[i].Book = &b
		}
		return nil
	})
	gg.Go(func() error {
		cache := make(map[int64]model.User, len(views))
		for i := range views {
			user, ok := cache[views[i].UserID]
			if !ok {
				var (
					u    model.User
					code int
				)
				err := s.users.CB().Call(func() error {
					var err error
					u, code, err = s.users.GetUser(ctx, views[i].UserID)
					return err
				})
				if err != nil || code != http.StatusOK {
					s.log.Warn("decorate: user lookup skipped",
						zap.Int64("user_id", views[i].UserID), zap.Error(err))
					continue
				}
				user = u
				cache[views[i].UserID] = user
			}
			u := user
			views[i].User = &u
		}
		return nil
	})
	if err := gg.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}
