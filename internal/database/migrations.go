package database

import (
	"fmt"
	"log/slog"
)

// Constraint names referenced by repositories when mapping unique violations.
const (
	ConstraintTicketID  = "registrations_ticket_id_key"
	ConstraintUserEmail = "users_email_key"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createEventsTable,
		createRegistrationsTable,
		createRegistrationsEventIndex,
		createRegistrationsUserIndex,
	}

	for i, migration := range migrations {
		slog.Debug("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully", "count", len(migrations))
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    email VARCHAR(255) NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    name VARCHAR(255) NOT NULL DEFAULT '',
    role VARCHAR(20) NOT NULL DEFAULT 'user',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CONSTRAINT users_email_key UNIQUE (email),
    CHECK (role IN ('admin', 'user'))
);`

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id SERIAL PRIMARY KEY,
    title VARCHAR(500) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    date DATE NOT NULL,
    start_time TIME NOT NULL,
    end_time TIME NOT NULL,
    location VARCHAR(255) NOT NULL DEFAULT '',
    address VARCHAR(500) NOT NULL DEFAULT '',
    category VARCHAR(100) NOT NULL DEFAULT '',
    capacity INTEGER NOT NULL DEFAULT 0,
    price NUMERIC(10,2) NOT NULL DEFAULT 0,
    image_url TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (capacity >= 0),
    CHECK (price >= 0)
);`

// ticket_id stays nullable so rows written by the legacy two-step insert
// survive the migration; the backfill job assigns them a ticket.
const createRegistrationsTable = `
CREATE TABLE IF NOT EXISTS registrations (
    id SERIAL PRIMARY KEY,
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    user_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL,
    email VARCHAR(255) NOT NULL,
    phone VARCHAR(50) NOT NULL DEFAULT '',
    organization VARCHAR(255) NOT NULL DEFAULT '',
    dietary_restrictions TEXT NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
    registration_date TIMESTAMP NOT NULL DEFAULT NOW(),
    ticket_id VARCHAR(32),

    CONSTRAINT registrations_ticket_id_key UNIQUE (ticket_id),
    CHECK (status IN ('confirmed', 'cancelled'))
);`

const createRegistrationsEventIndex = `
CREATE INDEX IF NOT EXISTS registrations_event_id_idx
ON registrations (event_id);`

const createRegistrationsUserIndex = `
CREATE INDEX IF NOT EXISTS registrations_user_id_idx
ON registrations (user_id);`
