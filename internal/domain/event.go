package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the publication state of an event
type EventStatus string

const (
	EventStatusSketch    EventStatus = "SKETCH"
	EventStatusPublished EventStatus = "PUBLISHED"
	EventStatusCanceled  EventStatus = "CANCELED"
	EventStatusFinished  EventStatus = "FINISHED"
)

// String returns the string representation of the status
func (s EventStatus) String() string {
	return string(s)
}

// Event represents an event that ticket types belong to. The core reads it
// only to decide sellability; everything else is registry plumbing.
type Event struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Slug          string      `json:"slug"`
	Description   string      `json:"description"`
	StartDate     time.Time   `json:"start_date"`
	EndDate       time.Time   `json:"end_date"`
	Location      string      `json:"location"`
	TotalCapacity int         `json:"total_capacity"`
	Status        EventStatus `json:"status"`
	OrganizerID   string      `json:"organizer_id"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// NewEvent creates an event in SKETCH status
func NewEvent(title, slug, description, location, organizerID string, startDate, endDate time.Time, totalCapacity int) (*Event, error) {
	if totalCapacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if startDate.After(endDate) {
		return nil, ErrInvalidSaleWindow
	}
	now := time.Now()
	return &Event{
		ID:            uuid.New().String(),
		Title:         title,
		Slug:          slug,
		Description:   description,
		StartDate:     startDate,
		EndDate:       endDate,
		Location:      location,
		TotalCapacity: totalCapacity,
		Status:        EventStatusSketch,
		OrganizerID:   organizerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsPublished reports whether tickets may be created and sold for this event
func (e *Event) IsPublished() bool {
	return e.Status == EventStatusPublished
}
