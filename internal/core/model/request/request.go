package request

import "time"

type SignupRequest struct {
	Name            string `json:"name" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Age             int    `json:"age" validate:"required,gte=18"`
	Password        string `json:"password" validate:"required,min=6,max=100"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"omitempty,oneof=user admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

// UpdateMeRequest is the explicit allow-list for self-service profile
// updates. Password changes never go through this path.
type UpdateMeRequest struct {
	Name  string `json:"name" validate:"omitempty,min=3,max=50"`
	Email string `json:"email" validate:"omitempty,email,max=255"`
}

type UpdatePasswordRequest struct {
	Password           string `json:"password" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required,min=6,max=100"`
	NewPasswordConfirm string `json:"newPasswordConfirm" validate:"required,eqfield=NewPassword"`
}

type LocationRequest struct {
	Type        string    `json:"type" validate:"omitempty,oneof=Point"`
	Coordinates []float64 `json:"coordinates" validate:"omitempty,len=2"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
}

type EventRequest struct {
	Name         string          `json:"name" validate:"required,min=3,max=50"`
	StartDate    time.Time       `json:"startDate" validate:"required"`
	Participants []int           `json:"participants" validate:"required,min=1"`
	Location     LocationRequest `json:"location"`
	Duration     float64         `json:"duration" validate:"required,gt=0"`
}

// EventPatchRequest carries a partial update; zero values mean "leave as is",
// matching how the generic update path re-runs validators only on supplied
// fields.
type EventPatchRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=3,max=50"`
	StartDate    *time.Time       `json:"startDate"`
	Participants []int            `json:"participants" validate:"omitempty,min=1"`
	Location     *LocationRequest `json:"location"`
	Duration     *float64         `json:"duration" validate:"omitempty,gt=0"`
}
