package models

import (
	"errors"
	"strings"
	"time"
)

// DepartureLayout is the wire and storage format of a trip departure time
const DepartureLayout = "15:04:05"

// Trip is a scheduled journey served by exactly one bus
type Trip struct {
	ID          int64  `json:"id" db:"id"`
	Source      string `json:"source" db:"source"`
	Destination string `json:"destination" db:"destination"`
	Departure   string `json:"departure" db:"departure"`
	BusID       int64  `json:"bus" db:"bus_id"`
}

// Capacity returns the number of seats the trip can sell, which is the
// capacity of the bus serving it. The bus must be the trip's own bus.
func (t Trip) Capacity(bus Bus) int {
	return bus.NumSeats
}

// TicketsAvailable derives the remaining seats from capacity and booked count
func TicketsAvailable(capacity, booked int) int {
	return capacity - booked
}

// ParseDeparture accepts HH:MM or HH:MM:SS and returns the HH:MM:SS form
func ParseDeparture(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{DepartureLayout, "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(DepartureLayout), nil
		}
	}
	return "", errors.New("departure must be a time of day in HH:MM or HH:MM:SS format")
}

// TripRequest represents the request to create or update a trip
type TripRequest struct {
	Source      string `json:"source" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Departure   string `json:"departure" binding:"required"`
	BusID       int64  `json:"bus" binding:"required"`
}

// Validate validates and normalizes the trip request
func (r *TripRequest) Validate() error {
	r.Source = strings.TrimSpace(r.Source)
	r.Destination = strings.TrimSpace(r.Destination)

	if r.Source == "" {
		return errors.New("source cannot be empty")
	}
	if len(r.Source) > 63 {
		return errors.New("source must be at most 63 characters")
	}
	if r.Destination == "" {
		return errors.New("destination cannot be empty")
	}
	if len(r.Destination) > 255 {
		return errors.New("destination must be at most 255 characters")
	}
	if r.BusID <= 0 {
		return errors.New("bus must be a valid bus id")
	}

	departure, err := ParseDeparture(r.Departure)
	if err != nil {
		return err
	}
	r.Departure = departure
	return nil
}

// TripSummary is a trip joined with its bus and the live booked-ticket count
type TripSummary struct {
	ID          int64      `db:"id"`
	Source      string     `db:"source"`
	Destination string     `db:"destination"`
	Departure   string     `db:"departure"`
	BusInfo     NullString `db:"bus_info"`
	BusNumSeats int        `db:"bus_num_seats"`
	Booked      int        `db:"booked"`
}

// TripFilter narrows the trip list
type TripFilter struct {
	Source      string
	Destination string
}

// TripListItem is the list view of a trip
type TripListItem struct {
	ID               int64      `json:"id"`
	Source           string     `json:"source"`
	Destination      string     `json:"destination"`
	Departure        string     `json:"departure"`
	BusInfo          NullString `json:"bus_info"`
	BusNumSeats      int        `json:"bus_num_seats"`
	TicketsAvailable int        `json:"tickets_available"`
}

// NewTripListItem builds the list view of a trip
func NewTripListItem(s TripSummary) TripListItem {
	return TripListItem{
		ID:               s.ID,
		Source:           s.Source,
		Destination:      s.Destination,
		Departure:        s.Departure,
		BusInfo:          s.BusInfo,
		BusNumSeats:      s.BusNumSeats,
		TicketsAvailable: TicketsAvailable(s.BusNumSeats, s.Booked),
	}
}

// TripDetail is the retrieve view of a trip: nested bus plus occupied seats
type TripDetail struct {
	ID          int64     `json:"id"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Departure   string    `json:"departure"`
	Bus         BusDetail `json:"bus"`
	TakenSeats  []int     `json:"taken_seats"`
}

// NewTripDetail builds the detail view of a trip
func NewTripDetail(t Trip, bus Bus, takenSeats []int) TripDetail {
	if takenSeats == nil {
		takenSeats = []int{}
	}
	return TripDetail{
		ID:          t.ID,
		Source:      t.Source,
		Destination: t.Destination,
		Departure:   t.Departure,
		Bus:         NewBusDetail(bus),
		TakenSeats:  takenSeats,
	}
}
