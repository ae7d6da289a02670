package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"techzeon/internal/models"
	"techzeon/internal/ticket"
)

// ContractValidator drives a running API through its externally visible
// guarantees: admin login, the event lifecycle and ticket issuance.
type ContractValidator struct {
	baseURL       string
	adminEmail    string
	adminPassword string
	ticketPattern *regexp.Regexp
	client        *http.Client
}

// NewContractValidator создает новый валидатор
func NewContractValidator(baseURL, adminEmail, adminPassword string) *ContractValidator {
	return &ContractValidator{
		baseURL:       baseURL,
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
		ticketPattern: ticket.Pattern,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

// WithClient replaces the HTTP client, for tests.
func (v *ContractValidator) WithClient(client *http.Client) *ContractValidator {
	v.client = client
	return v
}

// WithTicketPrefix expects tickets issued with prefix instead of the default.
func (v *ContractValidator) WithTicketPrefix(prefix string) *ContractValidator {
	v.ticketPattern = ticket.PatternFor(prefix)
	return v
}

// ValidateAll проверяет все сценарии по очереди и останавливается на первой ошибке
func (v *ContractValidator) ValidateAll(ctx context.Context) error {
	slog.Info("Starting API contract validation", "base_url", v.baseURL)

	token, err := v.validateLogin(ctx)
	if err != nil {
		return fmt.Errorf("login validation failed: %w", err)
	}

	eventID, err := v.validateEventLifecycle(ctx, token)
	if err != nil {
		return fmt.Errorf("event validation failed: %w", err)
	}

	if err := v.validateRegistration(ctx, token, eventID); err != nil {
		return fmt.Errorf("registration validation failed: %w", err)
	}

	if err := v.expectStatus(ctx, http.MethodDelete, fmt.Sprintf("/api/events/%d", eventID), token, nil, http.StatusOK); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	slog.Info("API contract validation passed")
	return nil
}

func (v *ContractValidator) validateLogin(ctx context.Context) (string, error) {
	var auth models.AuthResponse
	err := v.call(ctx, http.MethodPost, "/api/auth/login", "",
		models.LoginRequest{Email: v.adminEmail, Password: v.adminPassword},
		http.StatusOK, &auth)
	if err != nil {
		return "", err
	}
	if auth.User.Role != models.RoleAdmin {
		return "", fmt.Errorf("POST /api/auth/login: expected role %q, got %q", models.RoleAdmin, auth.User.Role)
	}
	if auth.Token == "" {
		return "", fmt.Errorf("POST /api/auth/login: empty token")
	}

	err = v.expectStatus(ctx, http.MethodPost, "/api/auth/login", "",
		models.LoginRequest{Email: v.adminEmail, Password: v.adminPassword + "-wrong"},
		http.StatusUnauthorized)
	if err != nil {
		return "", err
	}

	slog.Info("Login contract holds")
	return auth.Token, nil
}

func (v *ContractValidator) validateEventLifecycle(ctx context.Context, token string) (int64, error) {
	req := models.EventRequest{
		Title:       "Contract Check",
		Description: "Created by the contract validator",
		Date:        time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
		StartTime:   "09:00",
		EndTime:     "17:30",
		Location:    "Validation Hall",
		Category:    "Validation",
		Capacity:    10,
		Price:       12.5,
	}

	var created models.CreateEventResponse
	if err := v.call(ctx, http.MethodPost, "/api/events", token, req, http.StatusCreated, &created); err != nil {
		return 0, err
	}
	if created.ID == 0 {
		return 0, fmt.Errorf("POST /api/events: expected non-zero id")
	}

	path := fmt.Sprintf("/api/events/%d", created.ID)
	var fetched models.Event
	if err := v.call(ctx, http.MethodGet, path, "", nil, http.StatusOK, &fetched); err != nil {
		return 0, err
	}
	if err := sameFields(req, fetched); err != nil {
		return 0, fmt.Errorf("GET %s: %w", path, err)
	}

	missing := "/api/events/2147483647"
	if err := v.expectStatus(ctx, http.MethodPut, missing, token, req, http.StatusNotFound); err != nil {
		return 0, err
	}
	if err := v.expectStatus(ctx, http.MethodDelete, missing, token, nil, http.StatusNotFound); err != nil {
		return 0, err
	}

	var second models.CreateEventResponse
	if err := v.call(ctx, http.MethodPost, "/api/events", token, req, http.StatusCreated, &second); err != nil {
		return 0, err
	}
	secondPath := fmt.Sprintf("/api/events/%d", second.ID)
	if err := v.expectStatus(ctx, http.MethodDelete, secondPath, token, nil, http.StatusOK); err != nil {
		return 0, err
	}
	if err := v.expectStatus(ctx, http.MethodDelete, secondPath, token, nil, http.StatusNotFound); err != nil {
		return 0, err
	}

	slog.Info("Event contract holds", "event_id", created.ID)
	return created.ID, nil
}

func sameFields(want models.EventRequest, got models.Event) error {
	if got.Title != want.Title || got.Description != want.Description ||
		got.Date != want.Date || got.StartTime != want.StartTime || got.EndTime != want.EndTime ||
		got.Location != want.Location || got.Category != want.Category ||
		got.Capacity != want.Capacity || got.Price != want.Price {
		return fmt.Errorf("stored event %+v does not match submitted %+v", got, want)
	}
	return nil
}

func (v *ContractValidator) validateRegistration(ctx context.Context, token string, eventID int64) error {
	req := models.CreateRegistrationRequest{
		EventID:   eventID,
		FirstName: "Contract",
		LastName:  "Validator",
		Email:     "validator@example.com",
	}

	var created models.CreateRegistrationResponse
	if err := v.call(ctx, http.MethodPost, "/api/registrations", token, req, http.StatusCreated, &created); err != nil {
		return err
	}
	if !v.ticketPattern.MatchString(created.TicketID) {
		return fmt.Errorf("POST /api/registrations: ticket id %q does not match %s", created.TicketID, v.ticketPattern)
	}

	slog.Info("Registration contract holds", "ticket_id", created.TicketID)
	return nil
}

func (v *ContractValidator) expectStatus(ctx context.Context, method, path, token string, body any, want int) error {
	return v.call(ctx, method, path, token, body, want, nil)
}

// call performs the request, checks the status and decodes into out when set.
func (v *ContractValidator) call(ctx context.Context, method, path, token string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, v.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return fmt.Errorf("%s %s: expected %d, got %d", method, path, want, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
		}
	}

	return nil
}
