package validation

import (
	"testing"

	"eventsapp/internal/core/model/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupMessages(t *testing.T) {
	err := Validator.Struct(request.SignupRequest{
		Name:            "Jo",
		Email:           "not-an-email",
		Age:             15,
		Password:        "secret123",
		PasswordConfirm: "different",
	})

	require.Error(t, err)

	fields := FormatValidationErrors(err)
	messages := map[string]string{}

	for _, field := range fields {
		messages[field.Field] = field.Message
	}

	assert.Equal(t, "Name is too short", messages["name"])
	assert.Equal(t, "Please provide a valid email", messages["email"])
	assert.Equal(t, "You must be 18 and above to join this platform", messages["age"])
	assert.Equal(t, "Passwords do not match", messages["passwordConfirm"])
}

func TestEventMessages(t *testing.T) {
	err := Validator.Struct(request.EventRequest{
		Name:         "Team Meetup",
		Participants: []int{},
		Duration:     0,
	})

	require.Error(t, err)

	fields := FormatValidationErrors(err)
	messages := map[string]string{}

	for _, field := range fields {
		messages[field.Field] = field.Message
	}

	assert.Equal(t, "Please provide a start date for the event", messages["startDate"])
	assert.Equal(t, "Please provide participants", messages["participants"])
	assert.Equal(t, "Please provide a duration", messages["duration"])
}

func TestValidRequestPasses(t *testing.T) {
	err := Validator.Struct(request.LoginRequest{
		Email:    "jane@test.com",
		Password: "secret123",
	})

	assert.NoError(t, err)
}

func TestFormatIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FormatValidationErrors(assert.AnError))
}
