package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/attendly/attendly/internal/domain/event"
)

// EventsRepo mirrors the postgres repo's behavior against a map; it
// backs tests and storage-free dev runs.
type EventsRepo struct {
	mu    sync.RWMutex
	seq   int64
	items map[int64]event.Event
}

func NewEventsRepo() *EventsRepo {
	return &EventsRepo{
		items: make(map[int64]event.Event),
	}
}

func (r *EventsRepo) Create(_ context.Context, e event.Event) (event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Name == e.Name {
			return event.Event{}, event.ErrNameTaken
		}
	}

	r.seq++
	e.ID = r.seq
	r.items[e.ID] = e

	return e, nil
}

func (r *EventsRepo) ListUpcoming(_ context.Context, now time.Time, skip, limit int) ([]event.Event, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matching := make([]event.Event, 0, len(r.items))

	for _, e := range r.items {
		if e.EndTime.After(now) {
			matching = append(matching, e)
		}
	}

	sort.Slice(matching, func(i, j int) bool { return matching[i].ID < matching[j].ID })

	total := len(matching)

	if skip >= total {
		return []event.Event{}, total, nil
	}

	end := skip + limit
	if end > total {
		end = total
	}

	page := make([]event.Event, end-skip)
	copy(page, matching[skip:end])

	return page, total, nil
}

func (r *EventsRepo) GetByID(_ context.Context, id int64) (event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]

	if !ok {
		return event.Event{}, event.ErrNotFound
	}

	return e, nil
}
