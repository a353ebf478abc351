package domain

type MemberRole string

const (
	MemberRoleMember    MemberRole = "MEMBER"
	MemberRoleOrganizer MemberRole = "ORGANIZER"
	MemberRoleAdmin     MemberRole = "ADMIN"
)

// IsStaff reports whether the role grants access to staff-only outings
// and organizer actions (roster edits, broadcasts).
func (r MemberRole) IsStaff() bool {
	return r == MemberRoleOrganizer || r == MemberRoleAdmin
}

type Member struct {
	ID               int64      `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Name             string     `json:"name"`
	PhoneNumber      string     `json:"phone_number"`
	Role             MemberRole `json:"role"`
	DivingLevel      string     `json:"diving_level"`
	MedicalCertUntil *string    `json:"medical_cert_until,omitempty"`
	CreatedOn        string     `json:"created_on"`
	UpdatedOn        string     `json:"updated_on"`
}
