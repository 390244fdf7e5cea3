package attendee

import "errors"

type Attendee struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	EventID int64  `json:"event_id"`
}

// if this email already holds a spot for the event
var ErrAlreadyRegistered = errors.New("attendee already registered")

// error if the event is at max capacity
var ErrEventFull = errors.New("event is full")

type CreateAttendeeRequest struct {
	Name  string `json:"name" binding:"required,notblank,min=2"`
	Email string `json:"email" binding:"required,email"`
}
