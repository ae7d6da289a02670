package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techzeon/internal/database"
	apperrors "techzeon/internal/errors"
	"techzeon/internal/models"
)

var eventRowColumns = []string{"id", "title", "description", "date", "start_time", "end_time",
	"location", "address", "category", "capacity", "price", "image_url", "created_at", "updated_at"}

func newMockEventRepo(t *testing.T) (*EventRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return NewEventRepository(&database.DB{DB: sqlDB}), mock
}

func sampleEvent() *models.Event {
	return &models.Event{
		Title:     "Tech Innovation 2025",
		Date:      "2025-02-27",
		StartTime: "09:00",
		EndTime:   "18:00",
		Location:  "TechZeon Campus, Building A",
		Category:  "Conference",
		Capacity:  300,
		Price:     49.5,
	}
}

func TestEventCreate_ReturnsGeneratedID(t *testing.T) {
	repo, mock := newMockEventRepo(t)
	now := time.Now()
	e := sampleEvent()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO events")).
		WithArgs(e.Title, e.Description, e.Date, e.StartTime, e.EndTime, e.Location, e.Address, e.Category, e.Capacity, e.Price, e.ImageURL).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(21, now, now))

	require.NoError(t, repo.Create(context.Background(), e))
	assert.Equal(t, int64(21), e.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventGetByID_Missing(t *testing.T) {
	repo, mock := newMockEventRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events")).WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	event, err := repo.GetByID(context.Background(), 404)
	assert.NoError(t, err)
	assert.Nil(t, event)
}

func TestEventGetByID_ScansPrice(t *testing.T) {
	repo, mock := newMockEventRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM events")).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(eventRowColumns).
			AddRow(1, "Tech", "", "2025-02-27", "09:00", "18:00", "", "", "Conference", 300, []byte("49.50"), "", now, now))

	event, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 49.5, event.Price)
	assert.Equal(t, "09:00", event.StartTime)
}

func TestEventList_AppliesFilter(t *testing.T) {
	repo, mock := newMockEventRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("AND title ILIKE '%' || $1 || '%' AND category = $2")).
		WithArgs("tech", "Workshop").
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	events, err := repo.List(context.Background(), models.EventFilter{Query: "tech", Category: "Workshop"})
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventUpdate_NotFound(t *testing.T) {
	repo, mock := newMockEventRepo(t)
	e := sampleEvent()
	e.ID = 99

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE events")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

	assert.ErrorIs(t, repo.Update(context.Background(), e), apperrors.ErrNotFound)
}

func TestEventDelete_TwiceReturnsNotFound(t *testing.T) {
	repo, mock := newMockEventRepo(t)
	deleteSQL := regexp.QuoteMeta(`DELETE FROM events WHERE id = $1`)

	mock.ExpectExec(deleteSQL).WithArgs(int64(8)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteSQL).WithArgs(int64(8)).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), 8))
	assert.ErrorIs(t, repo.Delete(context.Background(), 8), apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventCategories(t *testing.T) {
	repo, mock := newMockEventRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT category")).
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("Conference").AddRow("Workshop"))

	categories, err := repo.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Conference", "Workshop"}, categories)
}
