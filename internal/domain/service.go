package domain

import "time"

// Service represents a bookable service offered by a business
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	DurationMinutes int
	Price           float64
	IsActive        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBookable returns true if the service can be booked
func (s *Service) IsBookable() bool {
	return s.IsActive && s.DurationMinutes > 0
}
