package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-ledger/audit/internal/model"
	"github.com/Astemirdum/lending-ledger/pkg/kafka"
)

type Repository interface {
	Store(ctx context.Context, event kafka.LendingEvent) error
	ListEvents(ctx context.Context, page, size int) (model.EventFeed, error)
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

// Store is idempotent on event_uid: the same message redelivered by the
// broker lands exactly once.
func (r *repository) Store(ctx context.Context, event kafka.LendingEvent) error {
	q := `insert into events (event_uid, timestamp, event_type, user_id, book_id, loan_id)
	values (@event_uid, @timestamp, @event_type, @user_id, @book_id, @loan_id)
	on conflict (event_uid) do nothing`
	args := pgx.NamedArgs{
		"event_uid":  event.EventID,
		"timestamp":  event.Timestamp,
		"event_type": event.EventType,
		"user_id":    event.UserID,
		"book_id":    event.BookID,
		"loan_id":    event.LoanID,
	}
	_, err := r.db.Exec(ctx, q, args)
	return err
}

func (r *repository) ListEvents(ctx context.Context, page, size int) (model.EventFeed, error) {
	q := `
	select id, event_uid, timestamp, event_type, user_id, book_id, loan_id, created_at
	from events
	order by timestamp desc, id desc
`
	args := pgx.NamedArgs{}
	if page != 0 && size != 0 {
		q += ` limit @limit offset @offset`
		args["limit"] = size
		args["offset"] = (page - 1) * size
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return model.EventFeed{}, err
	}
	defer rows.Close()
	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Event])
	if err != nil {
		return model.EventFeed{}, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return model.EventFeed{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(events),
		},
		Items: events,
	}, nil
}
