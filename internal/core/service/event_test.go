package service

import (
	"context"
	"testing"

	"eventsapp/internal/adapter/database/sqlite/repository"
	"eventsapp/internal/core/apperror"
	"eventsapp/internal/core/domain"
	"eventsapp/internal/core/port"
	"eventsapp/pkg/test"
	"eventsapp/pkg/test/factory"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type EventServiceSuite struct {
	suite.Suite
	Events port.EventRepository
	Users  port.UserRepository
	Svc    port.EventService
}

func (s *EventServiceSuite) SetupTest() {
	db := test.InitTestDB(s.T())
	s.Events = repository.NewEventRepository(db)
	s.Users = repository.NewUserRepository(db)
	s.Svc = NewEventService(s.Events)
}

func TestEventServiceSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(EventServiceSuite))
}

func (s *EventServiceSuite) seedEvents() (near, far domain.Event) {
	user, err := s.Users.Create(context.Background(), factory.NewUser(map[string]any{
		"Name":  "Alice",
		"Email": "alice@test.com",
		"Age":   30,
	}))
	Expect(err).ToNot(HaveOccurred())

	// Reference point: Praça da Sé, São Paulo.
	near, err = s.Events.Create(context.Background(), factory.NewEvent([]int{user.ID}, map[string]any{
		"Name": "Near Event",
		"Location": domain.GeoPoint{
			Type:      "Point",
			Latitude:  -23.561414, // Av. Paulista, ~3 km away
			Longitude: -46.655881,
		},
	}))
	Expect(err).ToNot(HaveOccurred())

	far, err = s.Events.Create(context.Background(), factory.NewEvent([]int{user.ID}, map[string]any{
		"Name": "Far Event",
		"Location": domain.GeoPoint{
			Type:      "Point",
			Latitude:  -22.906847, // Rio de Janeiro, ~360 km away
			Longitude: -43.172896,
		},
	}))
	Expect(err).ToNot(HaveOccurred())

	return near, far
}

func (s *EventServiceSuite) TestDistancesOrderedAscending() {
	near, far := s.seedEvents()

	distances, err := s.Svc.Distances(context.Background(), -23.55052, -46.633308, "km")

	Expect(err).ToNot(HaveOccurred())
	Expect(distances).To(HaveLen(2))
	Expect(distances[0].ID).To(Equal(near.ID))
	Expect(distances[1].ID).To(Equal(far.ID))

	Expect(*distances[0].Distance).To(BeNumerically("<", *distances[1].Distance))
	Expect(*distances[0].Distance).To(BeNumerically("~", 2.7, 1.0))
	Expect(*distances[1].Distance).To(BeNumerically("~", 360, 15))
}

func (s *EventServiceSuite) TestDistancesInMiles() {
	s.seedEvents()

	km, err := s.Svc.Distances(context.Background(), -23.55052, -46.633308, "km")
	Expect(err).ToNot(HaveOccurred())

	mi, err := s.Svc.Distances(context.Background(), -23.55052, -46.633308, "mi")
	Expect(err).ToNot(HaveOccurred())

	Expect(*mi[0].Distance).To(BeNumerically("~", *km[0].Distance*0.621371, 0.01))
}

func (s *EventServiceSuite) TestDistancesRejectsUnknownUnit() {
	_, err := s.Svc.Distances(context.Background(), -23.55052, -46.633308, "furlong")

	Expect(apperror.From(err)).ToNot(BeNil())
	Expect(apperror.From(err).Code).To(Equal(400))
}

func (s *EventServiceSuite) TestParticipantNamesMissingEvent() {
	_, err := s.Svc.ParticipantNames(context.Background(), 12345)

	Expect(apperror.From(err)).ToNot(BeNil())
	Expect(apperror.From(err).Code).To(Equal(404))
	Expect(apperror.From(err).Message).To(Equal("No event found with the id"))
}
