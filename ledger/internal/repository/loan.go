package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-ledger/ledger/internal/errs"
	"github.com/Astemirdum/lending-ledger/ledger/internal/model"
)

// CreateLoan reserves a copy and writes the loan record as one transaction.
// A rollback restores the reservation, so no copy can be lost to a failed
// borrow attempt.
func (r *repository) CreateLoan(ctx context.Context, userID, bookID int64, borrowedAt, due time.Time) (model.Loan, error) {
	var loan model.Loan
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.reserveCopy(ctx, tx, bookID); err != nil {
			return err
		}

		q, args, err := qb.Insert(loansTableName).
			Columns("user_id", "book_id", "borrow_date", "due_date", "status").
			Values(userID, bookID, borrowedAt, due, model.StatusBorrowed).
			Suffix("returning " + loanColumns).
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &loan, q, args...); err != nil {
			if isPgErrCode(err, pgerrcode.UniqueViolation) {
				return errs.ErrAlreadyBorrowed
			}
			r.log.Error("CreateLoan", zap.String("q", q), zap.Any("args", args))
			return err
		}
		return nil
	})
	if err != nil {
		return model.Loan{}, err
	}
	return loan, nil
}

// ReturnLoan flips the loan to RETURNED and releases its copy as one
// transaction. The status predicate on the update makes retried returns
// observe AlreadyReturned instead of double-releasing stock.
func (r *repository) ReturnLoan(ctx context.Context, loanID int64) (model.Loan, error) {
	var loan model.Loan
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		q := `update loans
	set status = 'RETURNED', return_date = now(), updated_at = now()
	where id = $1 and status <> 'RETURNED'
	returning ` + loanColumns

		if err := tx.GetContext(ctx, &loan, q, loanID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				var exists bool
				if err := tx.GetContext(ctx, &exists,
					`select exists(select 1 from loans where id = $1)`, loanID); err != nil {
					return err
				}
				if !exists {
					return errs.ErrLoanNotFound
				}
				return errs.ErrAlreadyReturned
			}
			return err
		}

		return r.releaseCopy(ctx, tx, loan.BookID)
	})
	if err != nil {
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *repository) GetLoan(ctx context.Context, loanID int64) (model.Loan, error) {
	query, args, err := qb.Select(loanColumns).
		From(loansTableName).
		Where(sq.Eq{"id": loanID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrLoanNotFound
		}
		return model.Loan{}, err
	}
	return loan, nil
}

// ListLoans returns loan history, newest first. userID 0 means all users.
func (r *repository) ListLoans(ctx context.Context, userID int64, page, size int) (model.ListLoans, error) {
	q := qb.Select(loanColumns).
		From(loansTableName).
		OrderBy("id desc")

	if userID != 0 {
		q = q.Where(sq.Eq{"user_id": userID})
	}
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListLoans{}, err
	}

	var loans []model.Loan
	if err := r.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return model.ListLoans{}, err
	}

	return model.ListLoans{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(loans),
		},
		Items: loans,
	}, nil
}

func (r *repository) CountActive(ctx context.Context, userID int64) (int, error) {
	q := `
	select count(*) from loans
	where user_id = $1 and status in ('BORROWED', 'OVERDUE')
`
	var count int
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) HasActiveLoan(ctx context.Context, userID, bookID int64) (bool, error) {
	q := `
	select exists(
		select 1 from loans
		where user_id = $1 and book_id = $2 and status in ('BORROWED', 'OVERDUE'))
`
	var has bool
	if err := r.db.QueryRowContext(ctx, q, userID, bookID).Scan(&has); err != nil {
		return false, err
	}
	return has, nil
}

// SweepOverdue transitions expired BORROWED loans to OVERDUE in bulk.
// Idempotent by its own predicate: rows already transitioned are not
// re-selected, and no inventory is touched.
func (r *repository) SweepOverdue(ctx context.Context, now time.Time) ([]model.Loan, error) {
	q := `update loans
	set status = 'OVERDUE', updated_at = now()
	where status = 'BORROWED' and due_date < $1
	returning ` + loanColumns

	var loans []model.Loan
	if err := r.db.SelectContext(ctx, &loans, q, now); err != nil {
		return nil, err
	}
	return loans, nil
}
