package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-ledger/ledger/internal/errs"
	"github.com/Astemirdum/lending-ledger/ledger/internal/model"
)

const bookColumns = `id, title, author, isbn, publisher, description, category, total_copies, available_copies, created_at, updated_at`

func (r *repository) GetBook(ctx context.Context, bookID int64) (model.Book, error) {
	query, args, err := qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.Eq{"id": bookID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, err
	}

	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, showAll bool, page, size int) (model.ListBooks, error) {
	q := qb.Select(bookColumns).
		From(booksTableName).
		OrderBy("id")

	if !showAll {
		q = q.Where(sq.Gt{"available_copies": 0})
	}
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(books),
		},
		Items: books,
	}, nil
}

// AdjustTotal changes total_copies and shifts available_copies by the same
// delta, clamped at zero. The row lock spans the read and the write so a
// concurrent reservation cannot interleave.
func (r *repository) AdjustTotal(ctx context.Context, bookID int64, newTotal int) (model.Book, error) {
	var book model.Book
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var cur struct {
			Total     int `db:"total_copies"`
			Available int `db:"available_copies"`
		}
		err := tx.GetContext(ctx, &cur,
			`select total_copies, available_copies from books where id = $1 for update`, bookID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrBookNotFound
			}
			return err
		}

		newAvailable := cur.Available + newTotal - cur.Total
		if newAvailable < 0 {
			r.log.Warn("AdjustTotal clamped availability at zero",
				zap.Int64("book_id", bookID),
				zap.Int("new_total", newTotal),
				zap.Int("on_loan", cur.Total-cur.Available))
			newAvailable = 0
		}

		q := `update books
	set total_copies = $2, available_copies = $3, updated_at = now()
	where id = $1
	returning ` + bookColumns
		return tx.GetContext(ctx, &book, q, bookID, newTotal, newAvailable)
	})
	if err != nil {
		return model.Book{}, err
	}
	return book, nil
}

// reserveCopy is the atomic check-and-decrement: it succeeds only if a copy
// is available at the moment of the update. Runs inside the caller's tx.
func (r *repository) reserveCopy(ctx context.Context, ext sqlx.ExtContext, bookID int64) error {
	const q = `
update books
    set available_copies = available_copies - 1, updated_at = now()
where id = $1 and available_copies > 0`

	res, err := ext.ExecContext(ctx, q, bookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := sqlx.GetContext(ctx, ext, &exists,
			`select exists(select 1 from books where id = $1)`, bookID); err != nil {
			return err
		}
		if !exists {
			return errs.ErrBookNotFound
		}
		return errs.ErrOutOfStock
	}
	return nil
}

// releaseCopy increments availability, capped at total_copies. Idempotence of
// return is the workflow's job; the allocator always performs the increment.
func (r *repository) releaseCopy(ctx context.Context, ext sqlx.ExtContext, bookID int64) error {
	const q = `
update books
    set available_copies = least(available_copies + 1, total_copies), updated_at = now()
where id = $1`

	res, err := ext.ExecContext(ctx, q, bookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrBookNotFound
	}
	return nil
}
