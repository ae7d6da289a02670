package models

import "time"

// EventRequest - тело запроса для создания и обновления события
type EventRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Date        string  `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime   string  `json:"start_time" binding:"required,datetime=15:04"`
	EndTime     string  `json:"end_time" binding:"required,datetime=15:04"`
	Location    string  `json:"location"`
	Address     string  `json:"address"`
	Category    string  `json:"category"`
	Capacity    int     `json:"capacity" binding:"gte=0"`
	Price       float64 `json:"price" binding:"gte=0"`
	ImageURL    string  `json:"image_url"`
}

// ToEvent copies the request fields onto a new Event.
func (r *EventRequest) ToEvent() *Event {
	return &Event{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Location:    r.Location,
		Address:     r.Address,
		Category:    r.Category,
		Capacity:    r.Capacity,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
	}
}

// CreateEventResponse - модель ответа при создании события
type CreateEventResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// MessageResponse is the body of writes that return no entity
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateRegistrationRequest - модель для регистрации на событие
type CreateRegistrationRequest struct {
	EventID             int64  `json:"event_id" binding:"required"`
	FirstName           string `json:"first_name" binding:"required"`
	LastName            string `json:"last_name" binding:"required"`
	Email               string `json:"email" binding:"required,email"`
	Phone               string `json:"phone"`
	Organization        string `json:"organization"`
	DietaryRestrictions string `json:"dietary_restrictions"`
}

// CreateRegistrationResponse - модель ответа при регистрации
type CreateRegistrationResponse struct {
	ID       int64  `json:"id"`
	TicketID string `json:"ticket_id"`
	Message  string `json:"message"`
}

// LoginRequest - модель для входа
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignUpRequest - модель для регистрации пользователя
type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// UserResponse is the public view of a User
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// NewUserResponse strips private fields from u.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// AuthResponse - ответ на вход и регистрацию пользователя
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
	Message   string       `json:"message"`
}
