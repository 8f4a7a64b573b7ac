package domain

import (
	"math"
	"time"
)

const earthRadiusMeters = 6371000

// GeoPoint is a GeoJSON-style point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string
	Longitude   float64 `validate:"gte=-180,lte=180"`
	Latitude    float64 `validate:"gte=-90,lte=90"`
	Address     string
	Description string
}

// DistanceTo returns the haversine distance in meters between the point and
// the given latitude/longitude.
func (p GeoPoint) DistanceTo(lat, lon float64) float64 {
	lat1 := p.Latitude * math.Pi / 180
	lat2 := lat * math.Pi / 180
	dLat := (lat - p.Latitude) * math.Pi / 180
	dLon := (lon - p.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

type Event struct {
	ID           int
	Name         string    `validate:"required,min=3,max=50"`
	StartDate    time.Time `validate:"required"`
	Participants []int     `validate:"required,min=1"`
	Location     GeoPoint
	Duration     float64 `validate:"required,gt=0"`
	CreatedAt    time.Time
}

func (e *Event) HasParticipant(userID int) bool {
	for _, id := range e.Participants {
		if id == userID {
			return true
		}
	}

	return false
}
