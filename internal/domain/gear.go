package domain

type GearStatus string

const (
	GearStatusAvailable GearStatus = "AVAILABLE"
	GearStatusLoaned    GearStatus = "LOANED"
	GearStatusRetired   GearStatus = "RETIRED"
)

type GearCondition string

const (
	GearConditionExcellent  GearCondition = "EXCELLENT"
	GearConditionGood       GearCondition = "GOOD"
	GearConditionAcceptable GearCondition = "ACCEPTABLE"
	GearConditionDamaged    GearCondition = "DAMAGED/NEEDS_SERVICE"
)

// GearItem is one piece of club equipment (regulator, wetsuit, tank, ...).
// Tag is a printed UUID label on the physical item.
type GearItem struct {
	ID        int64         `json:"id"`
	Tag       string        `json:"tag"`
	Kind      string        `json:"kind"`
	Size      string        `json:"size"`
	Condition GearCondition `json:"condition"`
	Status    GearStatus    `json:"status"`
	Notes     string        `json:"notes"`
	CreatedOn string        `json:"created_on"`
	UpdatedOn string        `json:"updated_on"`
}

type GearLoanStatus string

const (
	GearLoanStatusOpen     GearLoanStatus = "OPEN"
	GearLoanStatusReturned GearLoanStatus = "RETURNED"
	GearLoanStatusOverdue  GearLoanStatus = "OVERDUE"
)

type GearLoan struct {
	ID         int64          `json:"id"`
	GearItemID int64          `json:"gear_item_id"`
	MemberID   int64          `json:"member_id"`
	DueOn      string         `json:"due_on"`
	ReturnedOn *string        `json:"returned_on,omitempty"`
	Status     GearLoanStatus `json:"status"`
	CreatedOn  string         `json:"created_on"`
}
