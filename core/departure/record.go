// Package departure models the transport platform's departure listings and
// predicts identifiers for departures that are not yet bookable.
package departure

// Record mirrors one entry of the platform's departure listings. The
// "current" listing carries departures bookable now; the "upcoming" listing
// carries departures that are visible but have no id in the booking
// numbering space yet.
type Record struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	AvailableTime string `json:"available_time"`
	DepartureTime string `json:"departure_time"`
	NoReturn      bool   `json:"no_return"`
	BusName       string `json:"bus_name"`
}

// Predicted annotates an upcoming Record with the id it is expected to
// receive once it becomes bookable. PredictedID is nil when no prediction
// is possible. It is a heuristic, never persisted, and recomputed on every
// request.
type Predicted struct {
	Record
	PredictedID *int
}
