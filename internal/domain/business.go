package domain

import "time"

// Business represents a tenant (salon, clinic, gym) owning staff and services
type Business struct {
	ID          int64
	OwnerUserID int64
	Name        string
	Timezone    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy returns true if the given user owns the business
func (b *Business) IsOwnedBy(userID int64) bool {
	return b.OwnerUserID == userID
}
