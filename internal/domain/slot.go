package domain

import "github.com/sahabranjbar-dev/reservito-booking-service/pkg/types"

// AvailableSlot represents a bookable time slot with the number of staff
// members free at that time. StaffCount is a cardinality, not an identity:
// the slot does not say which staff are free, only how many
type AvailableSlot struct {
	StartTime       types.TimeString
	DurationMinutes int
	StaffCount      int
}

// IsAvailable returns true if at least one staff member is free at the slot
func (s *AvailableSlot) IsAvailable() bool {
	return s.StaffCount > 0
}
