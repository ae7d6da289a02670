package models

import (
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	RegistrationConfirmed = "confirmed"
	RegistrationCancelled = "cancelled"
)

// User represents an account that can log in
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// IsAdmin reports whether the user may manage events.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Event represents a listed event. Date is YYYY-MM-DD, times are HH:MM.
type Event struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Date        string    `json:"date" db:"date"`
	StartTime   string    `json:"start_time" db:"start_time"`
	EndTime     string    `json:"end_time" db:"end_time"`
	Location    string    `json:"location" db:"location"`
	Address     string    `json:"address" db:"address"`
	Category    string    `json:"category" db:"category"`
	Capacity    int       `json:"capacity" db:"capacity"`
	Price       float64   `json:"price" db:"price"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Registration links an attendee to an event
type Registration struct {
	ID                  int64     `json:"id" db:"id"`
	EventID             int64     `json:"event_id" db:"event_id"`
	EventTitle          string    `json:"event_title,omitempty" db:"event_title"`
	UserID              *int64    `json:"user_id,omitempty" db:"user_id"`
	FirstName           string    `json:"first_name" db:"first_name"`
	LastName            string    `json:"last_name" db:"last_name"`
	Email               string    `json:"email" db:"email"`
	Phone               string    `json:"phone" db:"phone"`
	Organization        string    `json:"organization" db:"organization"`
	DietaryRestrictions string    `json:"dietary_restrictions" db:"dietary_restrictions"`
	Status              string    `json:"status" db:"status"`
	RegistrationDate    time.Time `json:"registration_date" db:"registration_date"`
	TicketID            *string   `json:"ticket_id" db:"ticket_id"`
}

// EventFilter narrows GET /api/events
type EventFilter struct {
	Query    string
	Category string
}

// IsZero reports whether the filter matches every event.
func (f EventFilter) IsZero() bool {
	return f.Query == "" && f.Category == ""
}
