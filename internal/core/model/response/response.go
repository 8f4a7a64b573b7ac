package response

import (
	"time"

	"eventsapp/internal/core/domain"
)

type UserResponse struct {
	ID        int             `json:"id"`
	Name      string          `json:"name,omitempty"`
	Email     string          `json:"email,omitempty"`
	Age       int             `json:"age,omitempty"`
	Role      string          `json:"role,omitempty"`
	Type      string          `json:"type,omitempty"`
	CreatedAt time.Time       `json:"createdAt,omitzero"`
	MyEvents  []EventResponse `json:"myEvents,omitempty"`
}

type LocationResponse struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address,omitempty"`
	Description string    `json:"description,omitempty"`
}

type EventResponse struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	StartDate    time.Time        `json:"startDate"`
	Participants []int            `json:"participants,omitempty"`
	Location     LocationResponse `json:"location"`
	Duration     float64          `json:"duration"`
	Distance     *float64         `json:"distance,omitempty"`
}

type AgeStatsResponse struct {
	TotalUsers int     `json:"totalUsers"`
	AvgAge     float64 `json:"avgAge"`
	MaxAge     int     `json:"maxAge"`
	MinAge     int     `json:"minAge"`
}

// NewUserResponse maps a stored user to its client shape. The age category is
// derived here, never stored, and the password never leaves the service layer.
// A zero age means the column was left out of the projection, so no category
// can be derived from it.
func NewUserResponse(user domain.User) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Age:       user.Age,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}

	if user.Age > 0 {
		resp.Type = user.AgeCategory()
	}

	return resp
}

func NewEventResponse(event domain.Event) EventResponse {
	return EventResponse{
		ID:           event.ID,
		Name:         event.Name,
		StartDate:    event.StartDate,
		Participants: event.Participants,
		Location: LocationResponse{
			Type:        "Point",
			Coordinates: []float64{event.Location.Longitude, event.Location.Latitude},
			Address:     event.Location.Address,
			Description: event.Location.Description,
		},
		Duration: event.Duration,
	}
}
