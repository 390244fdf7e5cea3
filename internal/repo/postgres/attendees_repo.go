package postgres

import (
	"context"
	"errors"

	"github.com/attendly/attendly/internal/domain/attendee"
	"github.com/attendly/attendly/internal/domain/event"
	"github.com/attendly/attendly/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AttendeesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAttendeesRepo(pool *pgxpool.Pool, prom *observability.Prom) *AttendeesRepo {
	return &AttendeesRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *AttendeesRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (repo *AttendeesRepo) registerTx(ctx context.Context, tx pgx.Tx, eventID int64, req attendee.CreateAttendeeRequest) (a attendee.Attendee, err error) {
	// 1) lock the event row, read capacity + current headcount.
	// The lock holds for the rest of the transaction, so the
	// count-then-insert window cannot race a concurrent registration.
	var capacity int
	var current int

	err = repo.observe("attendees.register_tx.capacity_lock", func() error {
		return tx.QueryRow(ctx, `
		SELECT e.max_capacity,
			(SELECT COUNT(*) FROM attendees a WHERE a.event_id = e.id) AS current
		FROM events e
		WHERE e.id = $1
		FOR UPDATE
	`, eventID).Scan(&capacity, &current)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = event.ErrNotFound
		}

		return
	}

	// capacity is checked ahead of the duplicate scan: a repeat email
	// against a full event reports "full", which callers observe
	if current >= capacity {
		err = attendee.ErrEventFull
		return
	}

	// 2) duplicate email for this event (case-sensitive match)
	var exists bool

	err = repo.observe("attendees.register_tx.duplicate_check", func() error {
		return tx.QueryRow(ctx, `SELECT EXISTS(
			SELECT 1 FROM attendees
			WHERE event_id = $1 AND email = $2
		)`, eventID, req.Email).Scan(&exists)
	})

	if err != nil {
		return
	}

	if exists {
		err = attendee.ErrAlreadyRegistered
		return
	}

	a = attendee.Attendee{
		Name:    req.Name,
		Email:   req.Email,
		EventID: eventID,
	}

	err = repo.observe("attendees.register_tx.insert", func() error {
		return tx.QueryRow(ctx, `
		INSERT INTO attendees (name, email, event_id)
		VALUES ($1,$2,$3)
		RETURNING id
	`, a.Name, a.Email, a.EventID).Scan(&a.ID)
	})

	if err != nil {
		// unique constraint is the backstop for a writer that slipped
		// between the scan and the insert
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "attendees_event_email_uniq" {
			err = attendee.ErrAlreadyRegistered
			return
		}
		return
	}

	return
}

// Register enforces capacity and per-event email uniqueness inside a
// single transaction; a failed attempt leaves no partial state behind.
func (repo *AttendeesRepo) Register(ctx context.Context, eventID int64, req attendee.CreateAttendeeRequest) (a attendee.Attendee, err error) {
	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	a, err = repo.registerTx(ctx, tx, eventID, req)

	if err != nil {
		return
	}

	err = tx.Commit(ctx)

	if err != nil {
		return
	}

	return
}

// ListByEvent pages through an event's attendees id-ascending and
// reports the unsliced total.
func (repo *AttendeesRepo) ListByEvent(ctx context.Context, eventID int64, skip, limit int) (attendees []attendee.Attendee, total int, err error) {
	var rows pgx.Rows

	err = repo.observe("attendees.list_by_event", func() error {
		rows, err = repo.pool.Query(ctx,
			`
	SELECT id, name, email, event_id, COUNT(*) OVER() AS total
	FROM attendees
	WHERE event_id = $1
	ORDER BY id ASC
	LIMIT $2 OFFSET $3
	`,
			eventID, limit, skip,
		)
		return err
	})

	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	attendees = make([]attendee.Attendee, 0, limit)

	for rows.Next() {
		var a attendee.Attendee
		var t int

		e := rows.Scan(&a.ID, &a.Name, &a.Email, &a.EventID, &t)

		if e != nil {
			return nil, 0, e
		}

		total = t
		attendees = append(attendees, a)
	}

	e := rows.Err()

	if e != nil {
		if repo.prom != nil {
			repo.prom.DbErrorsTotal.WithLabelValues("attendees.list_by_event", "rows_err").Inc()
		}
		return nil, 0, e
	}

	if len(attendees) == 0 {
		err = repo.observe("attendees.count_for_event", func() error {
			return repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attendees WHERE event_id = $1`, eventID).Scan(&total)
		})

		if err != nil {
			return nil, 0, err
		}
	}

	return attendees, total, nil
}
