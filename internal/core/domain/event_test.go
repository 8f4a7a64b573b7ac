package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceToSamePoint(t *testing.T) {
	p := GeoPoint{Latitude: -23.55052, Longitude: -46.633308}

	assert.InDelta(t, 0, p.DistanceTo(-23.55052, -46.633308), 0.001)
}

func TestDistanceToKnownPair(t *testing.T) {
	// São Paulo to Rio de Janeiro, roughly 360 km.
	saoPaulo := GeoPoint{Latitude: -23.55052, Longitude: -46.633308}

	distance := saoPaulo.DistanceTo(-22.906847, -43.172896)

	assert.InDelta(t, 360_000, distance, 10_000)
}

func TestDistanceToIsSymmetric(t *testing.T) {
	a := GeoPoint{Latitude: 51.5074, Longitude: -0.1278}
	b := GeoPoint{Latitude: 48.8566, Longitude: 2.3522}

	assert.InDelta(t, a.DistanceTo(b.Latitude, b.Longitude), b.DistanceTo(a.Latitude, a.Longitude), 0.001)
}

func TestHasParticipant(t *testing.T) {
	event := Event{Participants: []int{1, 7, 9}}

	assert.True(t, event.HasParticipant(7))
	assert.False(t, event.HasParticipant(2))
}
