package model

import (
	"time"

	"github.com/lib/pq"
)

// Event domain object. The creator is immutable after creation and the only
// user allowed to update or delete the event. The attendee relation is a set;
// the composite primary key on the join table keeps it one even when racing
// joins slip past the service-level membership check.
type Event struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Date        time.Time      `json:"date"`
	Location    string         `json:"location"`
	Category    string         `json:"category"`
	CoverURL    string         `json:"coverUrl"`
	ImageURLs   pq.StringArray `gorm:"type:text[]" json:"imageUrls"`
	CreatedByID uint           `json:"createdById"`
	CreatedBy   User           `gorm:"foreignKey:CreatedByID" json:"createdBy"`
	Attendees   []User         `gorm:"many2many:event_attendees;constraint:OnDelete:CASCADE" json:"attendees"`
}

// IsCreatedBy reports whether the user owns the event.
func (e *Event) IsCreatedBy(userID uint) bool {
	return e.CreatedByID == userID
}

// HasAttendee reports whether the user is in the event's attendee set.
func (e *Event) HasAttendee(userID uint) bool {
	for _, attendee := range e.Attendees {
		if attendee.ID == userID {
			return true
		}
	}
	return false
}
