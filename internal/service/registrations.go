package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "techzeon/internal/errors"
	"techzeon/internal/logger"
	"techzeon/internal/metrics"
	"techzeon/internal/models"
	"techzeon/internal/ticket"
)

const defaultTicketAttempts = 5

type RegistrationService struct {
	registrations RegistrationStore
	tickets       *ticket.Generator
	maxAttempts   int
	publisher     Publisher
	metrics       *metrics.Metrics
}

func NewRegistrationService(registrations RegistrationStore, tickets *ticket.Generator, maxAttempts int, publisher Publisher, m *metrics.Metrics) *RegistrationService {
	if tickets == nil {
		tickets = ticket.NewGenerator(ticket.DefaultPrefix)
	}
	if maxAttempts < 1 {
		maxAttempts = defaultTicketAttempts
	}
	return &RegistrationService{
		registrations: registrations,
		tickets:       tickets,
		maxAttempts:   maxAttempts,
		publisher:     publisher,
		metrics:       m,
	}
}

func (s *RegistrationService) List(ctx context.Context) ([]models.Registration, error) {
	regs, err := s.registrations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return regs, nil
}

// ListMine returns the registrations linked to userID.
func (s *RegistrationService) ListMine(ctx context.Context, userID int64) ([]models.Registration, error) {
	regs, err := s.registrations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user registrations: %w", err)
	}
	return regs, nil
}

// Create registers an attendee. user may be nil for anonymous sign-ups.
// The registration is stored together with its ticket id or not at all.
func (s *RegistrationService) Create(ctx context.Context, user *models.User, req *models.CreateRegistrationRequest) (*models.Registration, error) {
	reg := &models.Registration{
		EventID:             req.EventID,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Email:               req.Email,
		Phone:               req.Phone,
		Organization:        req.Organization,
		DietaryRestrictions: req.DietaryRestrictions,
	}
	if user != nil {
		userID := user.ID
		reg.UserID = &userID
	}

	issued := 0
	nextTicket := func() string {
		issued++
		if issued > 1 {
			s.metrics.TicketCollision()
		}
		return s.tickets.Next()
	}

	err := s.registrations.Create(ctx, reg, nextTicket, s.maxAttempts)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			s.metrics.RegistrationResult(metrics.ResultNotFound)
			return nil, err
		case errors.Is(err, apperrors.ErrEventFull):
			s.metrics.RegistrationResult(metrics.ResultFull)
			return nil, err
		case errors.Is(err, apperrors.ErrTicketExhausted):
			s.metrics.RegistrationResult(metrics.ResultExhausted)
		default:
			s.metrics.RegistrationResult(metrics.ResultError)
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	s.metrics.RegistrationResult(metrics.ResultCreated)
	logger.WithContext(ctx).Info("Registration created",
		"registration_id", reg.ID, "event_id", reg.EventID, "ticket_id", *reg.TicketID)

	if s.publisher != nil {
		msg := models.RegistrationCreatedMessage{
			RegistrationID: reg.ID,
			EventID:        reg.EventID,
			UserID:         reg.UserID,
			Email:          reg.Email,
			TicketID:       *reg.TicketID,
			Timestamp:      time.Now(),
		}
		if err := s.publisher.Publish(models.SubjectRegistrationCreated, msg); err != nil {
			logger.WithContext(ctx).Error("Failed to publish registration created", "registration_id", reg.ID, "error", err)
		}
	}

	return reg, nil
}

// Cancel marks registration id cancelled on behalf of actor, who must own
// it or be an administrator.
func (s *RegistrationService) Cancel(ctx context.Context, actor *models.User, id int64) error {
	reg, err := s.registrations.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get registration: %w", err)
	}
	if reg == nil {
		return apperrors.ErrNotFound
	}

	if !actor.IsAdmin() && (reg.UserID == nil || *reg.UserID != actor.ID) {
		return apperrors.ErrForbidden
	}
	if reg.Status == models.RegistrationCancelled {
		return apperrors.ErrAlreadyCancelled
	}

	if err := s.registrations.Cancel(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyCancelled) {
			return err
		}
		return fmt.Errorf("failed to cancel registration: %w", err)
	}

	s.metrics.Cancellation()
	logger.WithContext(ctx).Info("Registration cancelled", "registration_id", id, "cancelled_by", actor.ID)

	if s.publisher != nil {
		msg := models.RegistrationCancelledMessage{
			RegistrationID: id,
			EventID:        reg.EventID,
			CancelledBy:    actor.ID,
			Timestamp:      time.Now(),
		}
		if err := s.publisher.Publish(models.SubjectRegistrationCancelled, msg); err != nil {
			logger.WithContext(ctx).Error("Failed to publish registration cancelled", "registration_id", id, "error", err)
		}
	}

	return nil
}
