package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"techzeon/internal/database"
	apperrors "techzeon/internal/errors"
	"techzeon/internal/models"
)

const registrationColumns = `
		r.id, r.event_id, e.title, r.user_id, r.first_name, r.last_name, r.email,
		r.phone, r.organization, r.dietary_restrictions, r.status,
		r.registration_date, r.ticket_id`

type RegistrationRepository struct {
	db *database.DB
}

func NewRegistrationRepository(db *database.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func scanRegistration(row rowScanner) (*models.Registration, error) {
	reg := &models.Registration{}
	err := row.Scan(
		&reg.ID,
		&reg.EventID,
		&reg.EventTitle,
		&reg.UserID,
		&reg.FirstName,
		&reg.LastName,
		&reg.Email,
		&reg.Phone,
		&reg.Organization,
		&reg.DietaryRestrictions,
		&reg.Status,
		&reg.RegistrationDate,
		&reg.TicketID,
	)
	return reg, err
}

func (r *RegistrationRepository) query(ctx context.Context, where string, args ...any) ([]models.Registration, error) {
	query := `SELECT` + registrationColumns + `
		FROM registrations r
		JOIN events e ON r.event_id = e.id` + where + `
		ORDER BY r.registration_date DESC, r.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registrations := []models.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		registrations = append(registrations, *reg)
	}

	return registrations, rows.Err()
}

// List returns every registration joined with its event title.
func (r *RegistrationRepository) List(ctx context.Context) ([]models.Registration, error) {
	return r.query(ctx, "")
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID int64) ([]models.Registration, error) {
	return r.query(ctx, "\n\t\tWHERE r.user_id = $1", userID)
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*models.Registration, error) {
	query := `SELECT` + registrationColumns + `
		FROM registrations r
		JOIN events e ON r.event_id = e.id
		WHERE r.id = $1`

	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return reg, nil
}

// Create persists reg with a ticket id in a single transaction. The event row
// is locked so the capacity check and the insert cannot interleave with
// another registration for the same event. A ticket id collision restarts
// the transaction with the next id from nextTicket, up to maxAttempts times.
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration, nextTicket func() string, maxAttempts int) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ticketID := nextTicket()

		err := r.createOnce(ctx, reg, ticketID)
		if err == nil {
			return nil
		}

		if !database.IsUniqueViolation(err, database.ConstraintTicketID) {
			return err
		}

		slog.Warn("Ticket id collision, retrying",
			"ticket_id", ticketID, "attempt", attempt, "max_attempts", maxAttempts)
	}

	return apperrors.ErrTicketExhausted
}

func (r *RegistrationRepository) createOnce(ctx context.Context, reg *models.Registration, ticketID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var capacity int
	var title string
	err = tx.QueryRowContext(ctx,
		`SELECT capacity, title FROM events WHERE id = $1 FOR UPDATE`, reg.EventID,
	).Scan(&capacity, &title)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock event: %w", err)
	}

	// capacity 0 means the event is not capped
	if capacity > 0 {
		var taken int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = $2`,
			reg.EventID, models.RegistrationConfirmed,
		).Scan(&taken)
		if err != nil {
			return fmt.Errorf("failed to count registrations: %w", err)
		}
		if taken >= capacity {
			return apperrors.ErrEventFull
		}
	}

	query := `
		INSERT INTO registrations (event_id, user_id, first_name, last_name, email, phone,
			organization, dietary_restrictions, status, registration_date, ticket_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), $10)
		RETURNING id, registration_date`

	err = tx.QueryRowContext(ctx, query,
		reg.EventID,
		reg.UserID,
		reg.FirstName,
		reg.LastName,
		reg.Email,
		reg.Phone,
		reg.Organization,
		reg.DietaryRestrictions,
		models.RegistrationConfirmed,
		ticketID,
	).Scan(&reg.ID, &reg.RegistrationDate)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}

	reg.Status = models.RegistrationConfirmed
	reg.EventTitle = title
	reg.TicketID = &ticketID
	return nil
}

// Cancel marks a confirmed registration cancelled. It returns
// ErrAlreadyCancelled when no confirmed row with that id exists.
func (r *RegistrationRepository) Cancel(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE registrations SET status = $1 WHERE id = $2 AND status = $3`,
		models.RegistrationCancelled, id, models.RegistrationConfirmed)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrAlreadyCancelled
	}

	return nil
}

// ListMissingTickets returns ids of registrations that never got a ticket.
func (r *RegistrationRepository) ListMissingTickets(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id
		FROM registrations
		WHERE ticket_id IS NULL
		ORDER BY id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// AssignTicket sets ticketID on a registration that has none. The unique
// violation of a colliding id is returned unchanged so callers can retry.
func (r *RegistrationRepository) AssignTicket(ctx context.Context, id int64, ticketID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE registrations SET ticket_id = $1 WHERE id = $2 AND ticket_id IS NULL`,
		ticketID, id)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}
