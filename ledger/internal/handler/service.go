package handler

import (
	"context"

	"github.com/Astemirdum/lending-ledger/ledger/internal/model"
	"github.com/Astemirdum/lending-ledger/ledger/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var _ LedgerService = (*service.Service)(nil)

type LedgerService interface {
	Borrow(ctx context.Context, userID, bookID int64) (model.Loan, error)
	Return(ctx context.Context, loanID int64) (model.Loan, error)
	GetLoan(ctx context.Context, loanID int64) (model.LoanView, error)
	ListLoans(ctx context.Context, userID int64, page, size int) (model.LoanHistory, error)
	SweepOverdue(ctx context.Context) ([]model.Loan, error)

	GetBook(ctx context.Context, bookID int64) (model.Book, error)
	ListBooks(ctx context.Context, showAll bool, page, size int) (model.ListBooks, error)
	AdjustTotal(ctx context.Context, bookID int64, newTotal int) (model.Book, error)
}

type Enqueuer interface {
	Enqueue(topic string, v any) error
}
