package domain

import "time"

type OutingType string

const (
	OutingTypeSea     OutingType = "SEA"
	OutingTypePool    OutingType = "POOL"
	OutingTypeQuarry  OutingType = "QUARRY"
	OutingTypePit     OutingType = "PIT"
	OutingTypeCleanup OutingType = "CLEANUP"
)

// OutingStatus values are mutually exclusive: an outing is active,
// archived, or deleted, never more than one at a time. Deletion is
// always a soft delete.
type OutingStatus string

const (
	OutingStatusActive   OutingStatus = "ACTIVE"
	OutingStatusArchived OutingStatus = "ARCHIVED"
	OutingStatusDeleted  OutingStatus = "DELETED"
)

type Outing struct {
	ID              int64        `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Type            OutingType   `json:"type"`
	DateTime        time.Time    `json:"date_time"` // scheduling anchor for past vs. upcoming
	EndTime         *time.Time   `json:"end_time,omitempty"`
	Location        string       `json:"location"`
	MaxParticipants int32        `json:"max_participants"`
	OrganizerID     int64        `json:"organizer_id"`
	StaffOnly       bool         `json:"staff_only"`
	CarpoolEnabled  bool         `json:"carpool_enabled"`
	Status          OutingStatus `json:"status"`
	ConfirmedCount  int32        `json:"confirmed_count"`
	CreatedOn       string       `json:"created_on"`
	UpdatedOn       string       `json:"updated_on"`
}

// VisibleTo reports whether a member with the given role may see the outing.
func (o *Outing) VisibleTo(role MemberRole) bool {
	if o.Status == OutingStatusDeleted {
		return false
	}
	if o.StaffOnly {
		return role.IsStaff()
	}
	return true
}
