package models

import (
	"errors"
	"fmt"
	"math"
)

// SmallBusMaxSeats is the largest capacity still considered a small bus
const SmallBusMaxSeats = 25

// MaxBusSeats is the largest capacity the INTEGER num_seats column holds
const MaxBusSeats = math.MaxInt32

// Bus represents a vehicle with a fixed number of seats
type Bus struct {
	ID       int64      `json:"id" db:"id"`
	Info     NullString `json:"info" db:"info"`
	NumSeats int        `json:"num_seats" db:"num_seats"`

	// Facilities is loaded separately from the bus_facilities join table
	Facilities []Facility `json:"facilities" db:"-"`
}

// IsSmall reports whether the bus has at most SmallBusMaxSeats seats
func (b Bus) IsSmall() bool {
	return b.NumSeats <= SmallBusMaxSeats
}

// FacilityNames returns the names of the bus facilities in load order
func (b Bus) FacilityNames() []string {
	names := make([]string, 0, len(b.Facilities))
	for _, f := range b.Facilities {
		names = append(names, f.Name)
	}
	return names
}

// BusRequest represents the request to create or update a bus
type BusRequest struct {
	Info        *string `json:"info"`
	NumSeats    int     `json:"num_seats" binding:"required"`
	FacilityIDs []int64 `json:"facilities"`
}

// Validate validates the bus request
func (r *BusRequest) Validate() error {
	if r.NumSeats <= 0 {
		return errors.New("num_seats must be greater than 0")
	}
	if r.NumSeats > MaxBusSeats {
		return fmt.Errorf("num_seats must be at most %d", MaxBusSeats)
	}
	if r.Info != nil && len(*r.Info) > 255 {
		return errors.New("info must be at most 255 characters")
	}

	seen := make(map[int64]bool, len(r.FacilityIDs))
	unique := r.FacilityIDs[:0]
	for _, id := range r.FacilityIDs {
		if id <= 0 {
			return errors.New("facilities must contain positive ids")
		}
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	r.FacilityIDs = unique
	return nil
}

// BusListItem is the list view of a bus; facilities are rendered by name
type BusListItem struct {
	ID         int64      `json:"id"`
	Info       NullString `json:"info"`
	NumSeats   int        `json:"num_seats"`
	IsSmall    bool       `json:"is_small"`
	Facilities []string   `json:"facilities"`
}

// NewBusListItem builds the list view of a bus
func NewBusListItem(b Bus) BusListItem {
	return BusListItem{
		ID:         b.ID,
		Info:       b.Info,
		NumSeats:   b.NumSeats,
		IsSmall:    b.IsSmall(),
		Facilities: b.FacilityNames(),
	}
}

// BusDetail is the retrieve view of a bus with full facility objects
type BusDetail struct {
	ID         int64      `json:"id"`
	Info       NullString `json:"info"`
	NumSeats   int        `json:"num_seats"`
	IsSmall    bool       `json:"is_small"`
	Facilities []Facility `json:"facilities"`
}

// NewBusDetail builds the detail view of a bus
func NewBusDetail(b Bus) BusDetail {
	facilities := b.Facilities
	if facilities == nil {
		facilities = []Facility{}
	}
	return BusDetail{
		ID:         b.ID,
		Info:       b.Info,
		NumSeats:   b.NumSeats,
		IsSmall:    b.IsSmall(),
		Facilities: facilities,
	}
}
