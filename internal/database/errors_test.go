package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	ticketDup := &pq.Error{Code: "23505", Constraint: "registrations_ticket_id_key"}

	assert.True(t, IsUniqueViolation(ticketDup, ""))
	assert.True(t, IsUniqueViolation(ticketDup, "registrations_ticket_id_key"))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", ticketDup), "registrations_ticket_id_key"))
	assert.False(t, IsUniqueViolation(ticketDup, "users_email_key"))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
	assert.False(t, IsUniqueViolation(nil, ""))
}

func TestConfigDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "techzeon_events", SSLMode: "disable"}
	assert.Equal(t, "host='db' port=5432 user='u' password='p' dbname='techzeon_events' sslmode='disable'", cfg.DSN())
}

func TestConfigDSNQuotesSpecialCharacters(t *testing.T) {
	cfg := Config{Host: "db", Port: 5432, User: "u", Password: `it's a \secret`, DBName: "techzeon_events", SSLMode: "disable"}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, `password='it\'s a \\secret'`)

	_, err := pq.NewConnector(dsn)
	assert.NoError(t, err)
}
