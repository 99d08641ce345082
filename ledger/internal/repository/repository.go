package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-ledger/ledger/internal/model"
)

type Repository interface {
	// catalog
	GetBook(ctx context.Context, bookID int64) (model.Book, error)
	ListBooks(ctx context.Context, showAll bool, page, size int) (model.ListBooks, error)
	AdjustTotal(ctx context.Context, bookID int64, newTotal int) (model.Book, error)

	// lending: compound operations, each a single transaction
	CreateLoan(ctx context.Context, userID, bookID int64, borrowedAt, due time.Time) (model.Loan, error)
	ReturnLoan(ctx context.Context, loanID int64) (model.Loan, error)

	// loan reads
	GetLoan(ctx context.Context, loanID int64) (model.Loan, error)
	ListLoans(ctx context.Context, userID int64, page, size int) (model.ListLoans, error)
	CountActive(ctx context.Context, userID int64) (int, error)
	HasActiveLoan(ctx context.Context, userID, bookID int64) (bool, error)

	SweepOverdue(ctx context.Context, now time.Time) ([]model.Loan, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName = `books`
	loansTableName = `loans`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const loanColumns = `id, user_id, book_id, borrow_date, due_date, return_date, status, created_at, updated_at`

func (r *repository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func isPgErrCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
