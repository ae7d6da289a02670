package repository

import (
	"context"
	"database/sql"
	"fmt"

	"techzeon/internal/database"
	apperrors "techzeon/internal/errors"
	"techzeon/internal/models"
)

const eventColumns = `
		id, title, description,
		to_char(date, 'YYYY-MM-DD'), to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
		location, address, category, capacity, price, image_url, created_at, updated_at`

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.StartTime,
		&event.EndTime,
		&event.Location,
		&event.Address,
		&event.Category,
		&event.Capacity,
		&event.Price,
		&event.ImageURL,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	return event, err
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (title, description, date, start_time, end_time,
			location, address, category, capacity, price, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		event.Title,
		event.Description,
		event.Date,
		event.StartTime,
		event.EndTime,
		event.Location,
		event.Address,
		event.Category,
		event.Capacity,
		event.Price,
		event.ImageURL,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT` + eventColumns + `
		FROM events
		WHERE id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return event, nil
}

// List returns events ordered by date, optionally narrowed by a title
// substring and an exact category.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	var args []any
	argIndex := 1

	sqlQuery := `SELECT` + eventColumns + `
		FROM events
		WHERE 1=1`

	if filter.Query != "" {
		sqlQuery += fmt.Sprintf(" AND title ILIKE '%%' || $%d || '%%'", argIndex)
		args = append(args, filter.Query)
		argIndex++
	}

	if filter.Category != "" {
		sqlQuery += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, filter.Category)
	}

	sqlQuery += " ORDER BY date ASC, start_time ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}

	return events, rows.Err()
}

// Update overwrites every field of the event with event.ID.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, date = $3, start_time = $4, end_time = $5,
		    location = $6, address = $7, category = $8, capacity = $9, price = $10,
		    image_url = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		event.Title,
		event.Description,
		event.Date,
		event.StartTime,
		event.EndTime,
		event.Location,
		event.Address,
		event.Category,
		event.Capacity,
		event.Price,
		event.ImageURL,
		event.ID,
	).Scan(&event.CreatedAt, &event.UpdatedAt)

	if err == sql.ErrNoRows {
		return apperrors.ErrNotFound
	}
	return err
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Categories returns the distinct non-empty categories in use.
func (r *EventRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT category
		FROM events
		WHERE category <> ''
		ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}
