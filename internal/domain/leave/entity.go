package leave

import "time"

// Type enumerates the supported leave types.
type Type string

const (
	TypeAnnual    Type = "annual"
	TypeSick      Type = "sick"
	TypeCasual    Type = "casual"
	TypePaid      Type = "paid"
	TypeUnpaid    Type = "unpaid"
	TypeMaternity Type = "maternity"
	TypePaternity Type = "paternity"
)

// Types lists every known leave type, in policy seeding order.
var Types = []Type{TypeAnnual, TypeSick, TypeCasual, TypePaid, TypeUnpaid, TypeMaternity, TypePaternity}

// Policy is the per-type configuration balances are seeded from.
type Policy struct {
	Type                Type
	MaxDays             float64
	AccrualRate         float64
	CarryForwardLimit   float64
	CarryForwardEnabled bool
	Enabled             bool
}

// Balance tracks the entitlement of one employee for one leave type in one
// year. Remaining is always max(0, Total-Used); the repository recomputes it
// inside the same statement as every mutation.
type Balance struct {
	ID           string
	EmployeeID   string
	Year         int
	Type         Type
	Total        float64
	Used         float64
	Remaining    float64
	Accrued      float64
	CarryForward float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Availability is the result of a balance check. Unpaid leave is always
// available and does not consume balance.
type Availability struct {
	Available bool    `json:"available"`
	Remaining float64 `json:"remaining"`
	Total     float64 `json:"total"`
	Used      float64 `json:"used"`
}

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// Request is a leave application. Balance is validated at submission but
// committed to the ledger only at approval.
type Request struct {
	ID         string
	EmployeeID string
	Type       Type
	StartDate  time.Time
	EndDate    time.Time
	TotalDays  float64
	Reason     string
	Status     RequestStatus

	BalanceBefore *float64
	BalanceAfter  *float64

	ApprovedBy         *string
	ApprovedAt         *time.Time
	RejectionReason    *string
	CancelledBy        *string
	CancelledAt        *time.Time
	CancellationReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined read-model fields, populated by the repository. They mirror the
	// employee record at read time and are never written back.
	EmployeeName *string
}
