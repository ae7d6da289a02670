package service

import (
	"context"
	"fmt"
	"time"

	"techzeon/internal/cache"
	apperrors "techzeon/internal/errors"
	"techzeon/internal/logger"
	"techzeon/internal/models"
)

type EventService struct {
	events    EventStore
	cache     Cache
	search    Searcher
	publisher Publisher
}

func NewEventService(events EventStore, cache Cache, search Searcher, publisher Publisher) *EventService {
	return &EventService{
		events:    events,
		cache:     cache,
		search:    search,
		publisher: publisher,
	}
}

// List returns events in date order. The unfiltered list is served from the
// cache when possible; text queries go to the search index first and fall
// back to SQL if the index is missing or fails.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	log := logger.WithContext(ctx)

	version, cacheable := int64(0), false
	if filter.IsZero() && s.cache != nil {
		var cached []models.Event
		hit, err := s.cache.GetJSON(ctx, cache.EventListKey, &cached)
		if err != nil {
			log.Warn("Event list cache lookup failed", "error", err)
		}
		if hit {
			return cached, nil
		}
		version, cacheable = s.cacheVersion(ctx)
	}

	if filter.Query != "" && s.search != nil {
		events, err := s.search.Search(ctx, filter)
		if err == nil {
			return events, nil
		}
		log.Warn("Search failed, falling back to SQL", "query", filter.Query, "error", err)
	}

	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	if cacheable {
		s.fillCache(ctx, cache.EventListKey, version, events)
	}

	return events, nil
}

func (s *EventService) Categories(ctx context.Context) ([]string, error) {
	version, cacheable := int64(0), false
	if s.cache != nil {
		var cached []string
		if hit, err := s.cache.GetJSON(ctx, cache.CategoriesKey, &cached); err == nil && hit {
			return cached, nil
		}
		version, cacheable = s.cacheVersion(ctx)
	}

	categories, err := s.events.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if cacheable {
		s.fillCache(ctx, cache.CategoriesKey, version, categories)
	}

	return categories, nil
}

// Get returns the event or ErrNotFound.
func (s *EventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	key := cache.EventKey(id)

	version, cacheable := int64(0), false
	if s.cache != nil {
		var cached models.Event
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
		version, cacheable = s.cacheVersion(ctx)
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}

	if cacheable {
		s.fillCache(ctx, key, version, event)
	}

	return event, nil
}

func (s *EventService) cacheVersion(ctx context.Context) (int64, bool) {
	version, err := s.cache.Version(ctx)
	if err != nil {
		logger.WithContext(ctx).Warn("Event cache version lookup failed", "error", err)
		return 0, false
	}
	return version, true
}

// fillCache stores value unless an event write invalidated the cache after
// version was read, in which case value may predate that write.
func (s *EventService) fillCache(ctx context.Context, key string, version int64, value any) {
	stored, err := s.cache.SetJSONIfVersion(ctx, key, version, value)
	if err != nil {
		logger.WithContext(ctx).Warn("Failed to fill event cache", "key", key, "error", err)
		return
	}
	if !stored {
		logger.WithContext(ctx).Debug("Skipped event cache fill after concurrent write", "key", key)
	}
}

func (s *EventService) Create(ctx context.Context, req *models.EventRequest) (*models.Event, error) {
	event := req.ToEvent()

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	logger.WithContext(ctx).Info("Event created", "event_id", event.ID, "title", event.Title)
	s.afterWrite(ctx, event, models.SubjectEventCreated)
	return event, nil
}

// Update replaces every field of event id. ErrNotFound if it does not exist.
func (s *EventService) Update(ctx context.Context, id int64, req *models.EventRequest) (*models.Event, error) {
	event := req.ToEvent()
	event.ID = id

	if err := s.events.Update(ctx, event); err != nil {
		if err == apperrors.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	logger.WithContext(ctx).Info("Event updated", "event_id", id)
	s.afterWrite(ctx, event, models.SubjectEventUpdated)
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id int64) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if err == apperrors.ErrNotFound {
			return err
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}

	logger.WithContext(ctx).Info("Event deleted", "event_id", id)
	s.afterWrite(ctx, &models.Event{ID: id}, models.SubjectEventDeleted)
	return nil
}

// afterWrite propagates a committed change to the cache, the search index
// and subscribers. Failures here are logged only.
func (s *EventService) afterWrite(ctx context.Context, event *models.Event, subject string) {
	log := logger.WithContext(ctx).With("event_id", event.ID, "subject", subject)

	if s.cache != nil {
		if err := s.cache.InvalidateEvent(ctx, event.ID); err != nil {
			log.Warn("Failed to invalidate event cache", "error", err)
		}
	}

	if s.search != nil {
		var err error
		if subject == models.SubjectEventDeleted {
			err = s.search.DeleteEvent(ctx, event.ID)
		} else {
			err = s.search.IndexEvent(ctx, event)
		}
		if err != nil {
			log.Warn("Failed to update search index", "error", err)
		}
	}

	if s.publisher != nil {
		msg := models.EventChangedMessage{
			EventID:   event.ID,
			Title:     event.Title,
			Action:    subject,
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(subject, msg); err != nil {
			log.Error("Failed to publish event change", "error", err)
		}
	}
}
