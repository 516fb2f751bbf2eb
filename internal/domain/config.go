package domain

import "time"

// BookingConfig represents the booking configuration for a business.
// Supports hierarchical configuration:
// 1. Service-specific (business_id, service_id)
// 2. Business-wide (business_id, NULL)
type BookingConfig struct {
	ID                      int64
	BusinessID              int64
	ServiceID               *int64 // NULL = config for all services
	SlotStepMinutes         int
	AdvanceBookingDays      int // 0 = unlimited
	MinBookingNoticeMinutes int
	AutoConfirm             bool // create bookings as confirmed instead of pending
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// IsBusinessWide returns true if this is a business-wide configuration
func (c *BookingConfig) IsBusinessWide() bool {
	return c.ServiceID == nil
}

// IsServiceSpecific returns true if this configuration is for a specific service
func (c *BookingConfig) IsServiceSpecific() bool {
	return c.ServiceID != nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *BookingConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// DefaultBookingConfig returns the built-in configuration used when a business
// has no stored configuration
func DefaultBookingConfig() *BookingConfig {
	return &BookingConfig{
		SlotStepMinutes:         DefaultSlotStepMinutes,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
		AutoConfirm:             false,
	}
}
