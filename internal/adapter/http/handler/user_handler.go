package handler

import (
	"net/http"

	. "eventsapp/internal/adapter/http/helper"
	"eventsapp/internal/adapter/http/middleware"
	"eventsapp/internal/adapter/http/validation"
	"eventsapp/internal/core/apperror"
	"eventsapp/internal/core/domain"
	"eventsapp/internal/core/model/request"
	"eventsapp/internal/core/model/response"
	"eventsapp/internal/core/port"
	"eventsapp/internal/core/query"
	"eventsapp/internal/core/util"
	. "eventsapp/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// UserFields is the public query vocabulary for user listings. The hashed
// credential and the deletion flag are deliberately absent.
var UserFields = query.FieldSet{
	"name":      "name",
	"email":     "email",
	"age":       "age",
	"role":      "role",
	"createdAt": "created_at",
}

type UserHandler struct {
	svc      port.UserService
	resource *ResourceHandler[domain.User]
}

func NewUserHandler(svc port.UserService, repo port.UserRepository) *UserHandler {
	return &UserHandler{
		svc: svc,
		resource: &ResourceHandler[domain.User]{
			Name:   "users",
			Fields: UserFields,
			Repo:   repo,
			Present: func(user domain.User) any {
				return response.NewUserResponse(user)
			},
		},
	}
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	h.resource.GetAll(c)
}

// DynamicQuery is the same criteria-driven listing exposed on its own route.
func (h *UserHandler) DynamicQuery(c *gin.Context) {
	h.resource.GetAll(c)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := ParseID(c)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	user, err := h.svc.Get(c.Request.Context(), id)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, gin.H{"user": response.NewUserResponse(user)})
}

func (h *UserHandler) GetMe(c *gin.Context) {
	current := middleware.CurrentUser(c)

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.users.GetMe", []attribute.KeyValue{
		attribute.Int("user.id", current.ID),
	})

	defer span.End()

	user, events, err := h.svc.GetMe(ctx, current.ID)

	if err != nil {
		AddSpanError(span, err)
		AbortWithError(c, err)
		return
	}

	body := response.NewUserResponse(user)

	for _, event := range events {
		body.MyEvents = append(body.MyEvents, response.NewEventResponse(event))
	}

	SendSuccess(c, http.StatusOK, gin.H{"user": body})
}

// UpdateMe applies the profile allow-list. Password fields are rejected here
// so the dedicated password route stays the only way to rotate a credential.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	current := middleware.CurrentUser(c)

	raw, err := util.ParamsToMap[map[string]any](c)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	if _, ok := raw["password"]; ok {
		AbortWithError(c, apperror.BadRequest("This route is not for password update"))
		return
	}

	if _, ok := raw["passwordConfirm"]; ok {
		AbortWithError(c, apperror.BadRequest("This route is not for password update"))
		return
	}

	params := request.UpdateMeRequest{}

	if name, ok := raw["name"].(string); ok {
		params.Name = name
	}

	if email, ok := raw["email"].(string); ok {
		params.Email = email
	}

	if err := validation.Validator.Struct(params); err != nil {
		AbortWithError(c, err)
		return
	}

	user, err := h.svc.UpdateMe(c.Request.Context(), current.ID, params)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, gin.H{"user": response.NewUserResponse(user)})
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	current := middleware.CurrentUser(c)

	if err := h.svc.DeleteMe(c.Request.Context(), current.ID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) AggregateQuery(c *gin.Context) {
	stats, err := h.svc.Aggregate(c.Request.Context())

	if err != nil {
		AbortWithError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, gin.H{"aggregate": response.AgeStatsResponse{
		TotalUsers: stats.TotalUsers,
		AvgAge:     stats.AvgAge,
		MaxAge:     stats.MaxAge,
		MinAge:     stats.MinAge,
	}})
}
