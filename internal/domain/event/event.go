package event

import (
	"errors"
	"time"
)

type Event struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	MaxCapacity int       `json:"max_capacity"`
}

var ErrNotFound = errors.New("event not found")

// error if another event already holds the name
var ErrNameTaken = errors.New("event name already exists")

// Incoming timestamps stay strings until the validation pipeline has
// parsed and normalized them; see ValidateCreate.
type CreateEventRequest struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	MaxCapacity int    `json:"max_capacity" binding:"required"`
	Timezone    string `json:"timezone" binding:"omitempty"`
}
