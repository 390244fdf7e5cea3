package memory

import (
	"context"
	"sync"

	"github.com/attendly/attendly/internal/domain/attendee"
)

type AttendeesRepo struct {
	mu      sync.Mutex
	seq     int64
	byEvent map[int64][]attendee.Attendee
	events  *EventsRepo
}

func NewAttendeesRepo(events *EventsRepo) *AttendeesRepo {
	return &AttendeesRepo{
		byEvent: make(map[int64][]attendee.Attendee),
		events:  events,
	}
}

// Register holds the store lock for the whole check+insert, the same
// role the row lock plays in the postgres repo. Precedence matches:
// existence, capacity, duplicate, insert.
func (r *AttendeesRepo) Register(ctx context.Context, eventID int64, req attendee.CreateAttendeeRequest) (attendee.Attendee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.events.GetByID(ctx, eventID)

	if err != nil {
		return attendee.Attendee{}, err
	}

	regs := r.byEvent[eventID]

	if len(regs) >= e.MaxCapacity {
		return attendee.Attendee{}, attendee.ErrEventFull
	}

	for _, a := range regs {
		if a.Email == req.Email {
			return attendee.Attendee{}, attendee.ErrAlreadyRegistered
		}
	}

	r.seq++
	a := attendee.Attendee{
		ID:      r.seq,
		Name:    req.Name,
		Email:   req.Email,
		EventID: eventID,
	}

	r.byEvent[eventID] = append(regs, a)

	return a, nil
}

func (r *AttendeesRepo) ListByEvent(_ context.Context, eventID int64, skip, limit int) ([]attendee.Attendee, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs := r.byEvent[eventID]
	total := len(regs)

	if skip >= total {
		return []attendee.Attendee{}, total, nil
	}

	end := skip + limit
	if end > total {
		end = total
	}

	page := make([]attendee.Attendee, end-skip)
	copy(page, regs[skip:end])

	return page, total, nil
}

func (r *AttendeesRepo) CountForEvent(_ context.Context, eventID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.byEvent[eventID]), nil
}
