// Package servicetest provides in-memory stand-ins for the stores and side
// channels of package service. Each fake has function fields that, when set,
// replace the in-memory behaviour of one method.
package servicetest

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "techzeon/internal/errors"
	"techzeon/internal/models"
)

type EventStore struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]models.Event

	ListFn   func(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	CreateFn func(ctx context.Context, event *models.Event) error
	Calls    int
}

func NewEventStore(seed ...models.Event) *EventStore {
	s := &EventStore{events: map[int64]models.Event{}}
	for _, e := range seed {
		if e.ID > s.nextID {
			s.nextID = e.ID
		}
		s.events[e.ID] = e
	}
	return s
}

func (s *EventStore) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	s.mu.Lock()
	s.Calls++
	s.mu.Unlock()
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	events := []models.Event{}
	for _, e := range s.events {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.Query != "" && !containsFold(e.Title, filter.Query) {
			continue
		}
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (s *EventStore) GetByID(_ context.Context, id int64) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	e, ok := s.events[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *EventStore) Create(ctx context.Context, event *models.Event) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, event)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	event.ID = s.nextID
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	s.events[event.ID] = *event
	return nil
}

func (s *EventStore) Update(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.events[event.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	event.CreatedAt = old.CreatedAt
	event.UpdatedAt = time.Now()
	s.events[event.ID] = *event
	return nil
}

func (s *EventStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *EventStore) Categories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	categories := []string{}
	for _, e := range s.events {
		if e.Category != "" && !seen[e.Category] {
			seen[e.Category] = true
			categories = append(categories, e.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// RegistrationStore keeps registrations in memory and enforces event
// capacity and ticket uniqueness like the SQL store does.
type RegistrationStore struct {
	mu      sync.Mutex
	nextID  int64
	regs    map[int64]models.Registration
	tickets map[string]bool

	Events *EventStore

	CreateFn func(ctx context.Context, reg *models.Registration, nextTicket func() string, maxAttempts int) error
}

func NewRegistrationStore(events *EventStore) *RegistrationStore {
	return &RegistrationStore{
		regs:    map[int64]models.Registration{},
		tickets: map[string]bool{},
		Events:  events,
	}
}

// Seed stores reg as is, without capacity or ticket checks.
func (s *RegistrationStore) Seed(reg models.Registration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reg.ID > s.nextID {
		s.nextID = reg.ID
	}
	s.regs[reg.ID] = reg
}

func (s *RegistrationStore) sorted(keep func(models.Registration) bool) []models.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Registration{}
	for _, r := range s.regs {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *RegistrationStore) List(_ context.Context) ([]models.Registration, error) {
	return s.sorted(func(models.Registration) bool { return true }), nil
}

func (s *RegistrationStore) ListByUser(_ context.Context, userID int64) ([]models.Registration, error) {
	return s.sorted(func(r models.Registration) bool {
		return r.UserID != nil && *r.UserID == userID
	}), nil
}

func (s *RegistrationStore) GetByID(_ context.Context, id int64) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.regs[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *RegistrationStore) Create(ctx context.Context, reg *models.Registration, nextTicket func() string, maxAttempts int) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, reg, nextTicket, maxAttempts)
	}

	event, _ := s.Events.GetByID(ctx, reg.EventID)
	if event == nil {
		return apperrors.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if event.Capacity > 0 {
		taken := 0
		for _, r := range s.regs {
			if r.EventID == reg.EventID && r.Status == models.RegistrationConfirmed {
				taken++
			}
		}
		if taken >= event.Capacity {
			return apperrors.ErrEventFull
		}
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		ticketID := nextTicket()
		if s.tickets[ticketID] {
			continue
		}
		s.tickets[ticketID] = true
		s.nextID++
		reg.ID = s.nextID
		reg.Status = models.RegistrationConfirmed
		reg.EventTitle = event.Title
		reg.RegistrationDate = time.Now()
		reg.TicketID = &ticketID
		s.regs[reg.ID] = *reg
		return nil
	}

	return apperrors.ErrTicketExhausted
}

func (s *RegistrationStore) Cancel(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.regs[id]
	if !ok || r.Status != models.RegistrationConfirmed {
		return apperrors.ErrAlreadyCancelled
	}
	r.Status = models.RegistrationCancelled
	s.regs[id] = r
	return nil
}

type UserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User

	GetByEmailFn func(ctx context.Context, email string) (*models.User, error)
	Upserts      int
}

func NewUserStore(seed ...models.User) *UserStore {
	s := &UserStore{users: map[int64]models.User{}}
	for _, u := range seed {
		if u.ID > s.nextID {
			s.nextID = u.ID
		}
		s.users[u.ID] = u
	}
	return s
}

func (s *UserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.GetByEmailFn != nil {
		return s.GetByEmailFn(ctx, email)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailTaken
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) UpsertAdmin(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Upserts++
	user.Role = models.RoleAdmin
	for id, u := range s.users {
		if u.Email == user.Email {
			user.ID = id
			user.CreatedAt = u.CreatedAt
			s.users[id] = *user
			return nil
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

// Cache is a map-backed Valkey stand-in.
type Cache struct {
	mu      sync.Mutex
	values  map[string][]byte
	revoked map[string]time.Duration
	version int64

	Err error
}

func NewCache() *Cache {
	return &Cache{values: map[string][]byte{}, revoked: map[string]time.Duration{}}
}

func (c *Cache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return false, c.Err
	}
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *Cache) Version(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return 0, c.Err
	}
	return c.version, nil
}

func (c *Cache) SetJSONIfVersion(_ context.Context, key string, version int64, value any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return false, c.Err
	}
	if version != c.version {
		return false, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	c.values[key] = raw
	return true, nil
}

func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}

func (c *Cache) InvalidateEvent(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	for key := range c.values {
		delete(c.values, key)
	}
	return c.Err
}

func (c *Cache) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.revoked[jti] = ttl
	return nil
}

func (c *Cache) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return false, c.Err
	}
	_, ok := c.revoked[jti]
	return ok, nil
}

// Search answers queries from a fixed result set.
type Search struct {
	SearchFn func(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	Indexed  []int64
	Deleted  []int64
}

func (s *Search) Search(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	return s.SearchFn(ctx, filter)
}

func (s *Search) IndexEvent(_ context.Context, event *models.Event) error {
	s.Indexed = append(s.Indexed, event.ID)
	return nil
}

func (s *Search) DeleteEvent(_ context.Context, id int64) error {
	s.Deleted = append(s.Deleted, id)
	return nil
}

type Message struct {
	Subject string
	Data    any
}

// Publisher records published messages.
type Publisher struct {
	mu       sync.Mutex
	Messages []Message
	Err      error
}

func (p *Publisher) Publish(subject string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Messages = append(p.Messages, Message{Subject: subject, Data: data})
	return p.Err
}

func (p *Publisher) Subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	subjects := make([]string, len(p.Messages))
	for i, m := range p.Messages {
		subjects[i] = m.Subject
	}
	return subjects
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
