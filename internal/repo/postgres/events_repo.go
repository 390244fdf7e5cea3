package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/attendly/attendly/internal/domain/event"
	"github.com/attendly/attendly/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

// constructor function

func NewEventsRepo(pool *pgxpool.Pool, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *EventsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *EventsRepo) Create(ctx context.Context, e event.Event) (event.Event, error) {
	err := r.observe("events.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO events (name, location, start_time, end_time, max_capacity)
			 VALUES ($1,$2,$3,$4,$5)
			 RETURNING id`,
			e.Name, e.Location, e.StartTime, e.EndTime, e.MaxCapacity,
		).Scan(&e.ID)
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "events_name_uniq" {
			return event.Event{}, event.ErrNameTaken
		}
		return event.Event{}, err
	}

	return e, nil
}

// ListUpcoming returns the [skip, skip+limit) slice of events that end
// after now, id-ascending, plus the unsliced match count.
func (r *EventsRepo) ListUpcoming(ctx context.Context, now time.Time, skip, limit int) ([]event.Event, int, error) {
	var rows pgx.Rows
	var err error

	err = r.observe("events.list_upcoming", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT id,
				name,
				location,
				start_time,
				end_time,
				max_capacity,
				COUNT(*) OVER() AS total
			FROM events
			WHERE end_time > $1
			ORDER BY id ASC
			LIMIT $2 OFFSET $3`,
			now, limit, skip,
		)
		return err
	})

	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	output := make([]event.Event, 0, limit)
	total := 0

	for rows.Next() {
		var e event.Event
		var t int

		err = rows.Scan(&e.ID, &e.Name, &e.Location, &e.StartTime, &e.EndTime, &e.MaxCapacity, &t)

		if err != nil {
			return nil, 0, err
		}

		total = t
		output = append(output, e)
	}

	err = rows.Err()

	if err != nil {
		return nil, 0, err
	}

	// a page past the end carries no window total; count separately so
	// total still reflects the full match count
	if len(output) == 0 {
		err = r.observe("events.count_upcoming", func() error {
			return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE end_time > $1`, now).Scan(&total)
		})

		if err != nil {
			return nil, 0, err
		}
	}

	return output, total, nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id int64) (event.Event, error) {
	var e event.Event

	err := r.observe("events.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, name, location, start_time, end_time, max_capacity FROM events WHERE id = $1`,
			id,
		).Scan(&e.ID, &e.Name, &e.Location, &e.StartTime, &e.EndTime, &e.MaxCapacity)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}

	return e, nil
}
