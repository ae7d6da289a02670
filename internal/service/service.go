package service

import (
	"context"
	"time"

	"techzeon/internal/auth"
	"techzeon/internal/metrics"
	"techzeon/internal/models"
	"techzeon/internal/repository"
	"techzeon/internal/ticket"
)

// EventStore is the persistence the event service needs.
type EventStore interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id int64) error
	Categories(ctx context.Context) ([]string, error)
}

type RegistrationStore interface {
	List(ctx context.Context) ([]models.Registration, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Registration, error)
	GetByID(ctx context.Context, id int64) (*models.Registration, error)
	Create(ctx context.Context, reg *models.Registration, nextTicket func() string, maxAttempts int) error
	Cancel(ctx context.Context, id int64) error
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpsertAdmin(ctx context.Context, user *models.User) error
}

// Cache is the Valkey side channel. Nil disables caching and token revocation.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	// Version is bumped by every InvalidateEvent. Read it before loading
	// from the store and pass it to SetJSONIfVersion.
	Version(ctx context.Context) (int64, error)
	SetJSONIfVersion(ctx context.Context, key string, version int64, value any) (bool, error)
	InvalidateEvent(ctx context.Context, id int64) error
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// Searcher is the full-text index. Nil makes listing use SQL only.
type Searcher interface {
	Search(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	IndexEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, id int64) error
}

// Publisher sends domain notifications. Nil disables publishing.
type Publisher interface {
	Publish(subject string, data any) error
}

// Options carries the optional collaborators of the services.
type Options struct {
	Cache             Cache
	Search            Searcher
	Publisher         Publisher
	Metrics           *metrics.Metrics
	Tokens            *auth.TokenManager
	Tickets           *ticket.Generator
	TicketMaxAttempts int
}

type Services struct {
	Events        *EventService
	Registrations *RegistrationService
	Auth          *AuthService
}

func NewServices(repos *repository.Repositories, opts Options) *Services {
	return &Services{
		Events:        NewEventService(repos.Events, opts.Cache, opts.Search, opts.Publisher),
		Registrations: NewRegistrationService(repos.Registrations, opts.Tickets, opts.TicketMaxAttempts, opts.Publisher, opts.Metrics),
		Auth:          NewAuthService(repos.Users, opts.Tokens, opts.Cache),
	}
}
