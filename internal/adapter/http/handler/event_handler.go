package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	. "eventsapp/internal/adapter/http/helper"
	"eventsapp/internal/adapter/http/validation"
	"eventsapp/internal/core/apperror"
	"eventsapp/internal/core/domain"
	"eventsapp/internal/core/model/request"
	"eventsapp/internal/core/model/response"
	"eventsapp/internal/core/port"
	"eventsapp/internal/core/query"
	"eventsapp/internal/core/util"

	"github.com/gin-gonic/gin"
)

var EventFields = query.FieldSet{
	"name":      "name",
	"startDate": "start_date",
	"duration":  "duration",
	"createdAt": "created_at",
}

type EventHandler struct {
	svc      port.EventService
	resource *ResourceHandler[domain.Event]
}

func NewEventHandler(svc port.EventService, repo port.EventRepository) *EventHandler {
	return &EventHandler{
		svc: svc,
		resource: &ResourceHandler[domain.Event]{
			Name:   "events",
			Fields: EventFields,
			Repo:   repo,
			Decode: decodeEvent,
			Patch:  decodeEventPatch,
			Present: func(event domain.Event) any {
				return response.NewEventResponse(event)
			},
		},
	}
}

func (h *EventHandler) GetAllEvents(c *gin.Context) {
	h.resource.GetAll(c)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	h.resource.GetOne(c)
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	h.resource.Create(c)
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	h.resource.Update(c)
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	h.resource.Delete(c)
}

// QueryByStartDate rewrites the date path parameter into a gte filter and
// falls through to the regular listing.
func (h *EventHandler) QueryByStartDate(c *gin.Context) {
	date := c.Param("date")

	if _, err := time.Parse("2006-01-02", date); err != nil {
		AbortWithError(c, apperror.BadRequest("Invalid date: %s", date))
		return
	}

	values := c.Request.URL.Query()
	values.Set("startDate[gte]", date)
	c.Request.URL.RawQuery = values.Encode()

	h.resource.GetAll(c)
}

func (h *EventHandler) GetDistances(c *gin.Context) {
	latlon := strings.Split(c.Param("latlon"), ",")

	if len(latlon) != 2 || latlon[0] == "" || latlon[1] == "" {
		AbortWithError(c, apperror.BadRequest("Please provide latitude and longitude"))
		return
	}

	lat, latErr := strconv.ParseFloat(latlon[0], 64)
	lon, lonErr := strconv.ParseFloat(latlon[1], 64)

	if latErr != nil || lonErr != nil {
		AbortWithError(c, apperror.BadRequest("Please provide latitude and longitude"))
		return
	}

	distances, err := h.svc.Distances(c.Request.Context(), lat, lon, c.Param("unit"))

	if err != nil {
		AbortWithError(c, err)
		return
	}

	SendList(c, len(distances), gin.H{"distances": distances})
}

func (h *EventHandler) GetParticipantNames(c *gin.Context) {
	id, err := ParseID(c)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	names, err := h.svc.ParticipantNames(c.Request.Context(), id)

	if err != nil {
		AbortWithError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, gin.H{"participants": names})
}

func decodeEvent(c *gin.Context) (domain.Event, error) {
	params, err := util.ParamsToMap[request.EventRequest](c)

	if err != nil {
		return domain.Event{}, err
	}

	if err := validation.Validator.Struct(params); err != nil {
		return domain.Event{}, err
	}

	event := domain.Event{
		Name:         params.Name,
		StartDate:    params.StartDate,
		Participants: params.Participants,
		Duration:     params.Duration,
		CreatedAt:    time.Now(),
	}

	if len(params.Location.Coordinates) == 2 {
		event.Location = domain.GeoPoint{
			Type:        "Point",
			Longitude:   params.Location.Coordinates[0],
			Latitude:    params.Location.Coordinates[1],
			Address:     params.Location.Address,
			Description: params.Location.Description,
		}
	}

	return event, nil
}

func decodeEventPatch(c *gin.Context) (map[string]any, error) {
	params, err := util.ParamsToMap[request.EventPatchRequest](c)

	if err != nil {
		return nil, err
	}

	if err := validation.Validator.Struct(params); err != nil {
		return nil, err
	}

	patch := map[string]any{}

	if params.Name != nil {
		patch["name"] = *params.Name
	}

	if params.StartDate != nil {
		patch["start_date"] = *params.StartDate
	}

	if params.Duration != nil {
		patch["duration"] = *params.Duration
	}

	if params.Participants != nil {
		patch["participants"] = params.Participants
	}

	if params.Location != nil {
		if len(params.Location.Coordinates) == 2 {
			patch["longitude"] = params.Location.Coordinates[0]
			patch["latitude"] = params.Location.Coordinates[1]
		}

		patch["address"] = params.Location.Address
		patch["description"] = params.Location.Description
	}

	if len(patch) == 0 {
		return nil, apperror.BadRequest("No updatable fields provided")
	}

	return patch, nil
}
