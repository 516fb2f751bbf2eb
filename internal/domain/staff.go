package domain

import "time"

// Staff represents an employee of a business who performs services
type Staff struct {
	ID         int64
	BusinessID int64
	Name       string
	AvatarURL  *string
	IsActive   bool
	DeletedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBookable returns true if the staff member may be offered for booking.
// Inactive or soft-deleted staff never participate in availability
func (s *Staff) IsBookable() bool {
	return s.IsActive && s.DeletedAt == nil
}
