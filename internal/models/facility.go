package models

import (
	"errors"
	"strings"
)

// Facility is a named amenity a bus can offer (WiFi, TV, ...)
type Facility struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// FacilityRequest is the payload for creating or renaming a facility
type FacilityRequest struct {
	Name string `json:"name" binding:"required"`
}

// Validate validates and normalizes the facility request
func (r *FacilityRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name cannot be empty")
	}
	if len(r.Name) > 255 {
		return errors.New("name must be at most 255 characters")
	}
	return nil
}
