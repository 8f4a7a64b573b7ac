package handler

import (
	"net/http"
	"strconv"

	. "eventsapp/internal/adapter/http/helper"
	"eventsapp/internal/core/apperror"
	"eventsapp/internal/core/port"
	"eventsapp/internal/core/query"
	. "eventsapp/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// ResourceHandler serves the uniform CRUD surface for one entity. Entity
// specific behavior plugs in through the hooks: Decode parses a creation
// body, Patch parses an update body into a column patch, Present shapes the
// outgoing document.
type ResourceHandler[T any] struct {
	Name    string
	Fields  query.FieldSet
	Repo    port.Repository[T]
	Decode  func(c *gin.Context) (T, error)
	Patch   func(c *gin.Context) (map[string]any, error)
	Present func(entity T) any
}

func (h *ResourceHandler[T]) GetAll(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler."+h.Name+".GetAll", []attribute.KeyValue{
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	criteria := query.Parse(c.Request.URL.Query(), h.Fields)

	entities, err := h.Repo.Find(ctx, criteria)

	if err != nil {
		AddSpanError(span, err)
		AbortWithError(c, err)
		return
	}

	data := make([]any, 0, len(entities))

	for _, entity := range entities {
		data = append(data, h.Present(entity))
	}

	span.SetAttributes(attribute.Int("resource.count", len(data)))

	SendList(c, len(data), gin.H{h.Name: data})
}

func (h *ResourceHandler[T]) GetOne(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler."+h.Name+".GetOne", []attribute.KeyValue{
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	id, err := ParseID(c)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	entity, err := h.Repo.GetByID(ctx, id)

	if err != nil {
		AddSpanError(span, err)
		AbortWithError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, gin.H{h.singular(): h.Present(entity)})
}

func (h *ResourceHandler[T]) Create(c *gin.Context) {
	ctx := c.Request.Context()

	entity, err := h.Decode(c)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	created, err := h.Repo.Create(ctx, entity)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	SendSuccess(c, http.StatusCreated, gin.H{h.singular(): h.Present(created)})
}

func (h *ResourceHandler[T]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := ParseID(c)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	patch, err := h.Patch(c)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	updated, err := h.Repo.UpdateByID(ctx, id, patch)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, gin.H{h.singular(): h.Present(updated)})
}

func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := ParseID(c)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := h.Repo.DeleteByID(ctx, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ResourceHandler[T]) singular() string {
	if len(h.Name) > 1 && h.Name[len(h.Name)-1] == 's' {
		return h.Name[:len(h.Name)-1]
	}

	return h.Name
}

// ParseID reads the numeric :id route parameter.
func ParseID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		return 0, apperror.BadRequest("Invalid id: %s", c.Param("id"))
	}

	return id, nil
}
