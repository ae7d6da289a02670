package models

import "time"

// NATS subjects
const (
	SubjectEventCreated          = "event.created"
	SubjectEventUpdated          = "event.updated"
	SubjectEventDeleted          = "event.deleted"
	SubjectRegistrationCreated   = "registration.created"
	SubjectRegistrationCancelled = "registration.cancelled"
)

// EventChangedMessage is published on every admin write to an event
type EventChangedMessage struct {
	EventID   int64     `json:"event_id"`
	Title     string    `json:"title,omitempty"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// RegistrationCreatedMessage represents a registration creation
type RegistrationCreatedMessage struct {
	RegistrationID int64     `json:"registration_id"`
	EventID        int64     `json:"event_id"`
	UserID         *int64    `json:"user_id"`
	Email          string    `json:"email"`
	TicketID       string    `json:"ticket_id"`
	Timestamp      time.Time `json:"timestamp"`
}

// RegistrationCancelledMessage represents a cancellation
type RegistrationCancelledMessage struct {
	RegistrationID int64     `json:"registration_id"`
	EventID        int64     `json:"event_id"`
	CancelledBy    int64     `json:"cancelled_by"`
	Timestamp      time.Time `json:"timestamp"`
}
