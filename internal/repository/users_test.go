package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techzeon/internal/database"
	apperrors "techzeon/internal/errors"
	"techzeon/internal/models"
)

func newMockUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return NewUserRepository(&database.DB{DB: sqlDB}), mock
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: database.ConstraintUserEmail})

	err := repo.Create(context.Background(), &models.User{Email: "ada@example.com", Role: models.RoleUser})
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestUserGetByEmail(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE email = $1")).WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "role", "created_at"}).
			AddRow(3, "ada@example.com", "$2a$10$hash", "Ada", "user", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE email = $1")).WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "role", "created_at"}))

	user, err := repo.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, models.RoleUser, user.Role)

	user, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserUpsertAdmin(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (email) DO UPDATE")).
		WithArgs("admin@techzeon.com", "$2a$10$hash", "Administrator").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))

	admin := &models.User{Email: "admin@techzeon.com", PasswordHash: "$2a$10$hash", Name: "Administrator"}
	require.NoError(t, repo.UpsertAdmin(context.Background(), admin))
	assert.Equal(t, int64(1), admin.ID)
	assert.True(t, admin.IsAdmin())
}
