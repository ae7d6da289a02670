package repository

import (
	"techzeon/internal/database"
)

type Repositories struct {
	Events        *EventRepository
	Registrations *RegistrationRepository
	Users         *UserRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Events:        NewEventRepository(db),
		Registrations: NewRegistrationRepository(db),
		Users:         NewUserRepository(db),
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
