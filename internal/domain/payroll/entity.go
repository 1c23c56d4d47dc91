package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// OvertimeRules configure the hour-split thresholds and the hourly
// overtime premium.
type OvertimeRules struct {
	WeeklyThreshold    float64
	DailyThreshold     float64
	OvertimeMultiplier decimal.Decimal
}

// TaxSettings are flat-rate percentages of gross, except social security
// which is capped at an annual wage base.
type TaxSettings struct {
	FederalRate            decimal.Decimal
	StateRate              decimal.Decimal
	LocalRate              decimal.Decimal
	SocialSecurityRate     decimal.Decimal
	SocialSecurityWageBase decimal.Decimal
	MedicareRate           decimal.Decimal
}

type DeductionType string

const (
	DeductionTypeFixed      DeductionType = "fixed"
	DeductionTypePercentage DeductionType = "percentage"
)

// DeductionRule is a configured deduction: a fixed amount or a percentage
// of gross. Mandatory and benefit-named rules are reported under benefits.
type DeductionRule struct {
	Name      string
	Type      DeductionType
	Amount    decimal.Decimal
	Mandatory bool
}

// BonusRule is a flat amount added to gross pay for every employee it
// applies to.
type BonusRule struct {
	Name   string
	Amount decimal.Decimal
}

// Settings is the payroll slice of the configuration snapshot.
type Settings struct {
	Overtime   OvertimeRules
	Taxes      TaxSettings
	Bonuses    []BonusRule
	Deductions []DeductionRule
}

// TaxBreakdown is the itemized tax result. All amounts are rounded to two
// decimals half-up at the point they are produced, never mid-calculation.
type TaxBreakdown struct {
	Federal        decimal.Decimal `json:"federal"`
	State          decimal.Decimal `json:"state"`
	Local          decimal.Decimal `json:"local"`
	SocialSecurity decimal.Decimal `json:"social_security"`
	Medicare       decimal.Decimal `json:"medicare"`
	Total          decimal.Decimal `json:"total"`
}

type DeductionLine struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type DeductionBreakdown struct {
	Benefits        []DeductionLine `json:"benefits"`
	Other           []DeductionLine `json:"other"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
}

type StubStatus string

const (
	StubStatusProcessing StubStatus = "processing"
	StubStatusPaid       StubStatus = "paid"
)

// PayStub is the immutable-once-created pay record of one employee for one
// period. It only ever changes status, processing->paid, when the period is
// approved.
type PayStub struct {
	ID              string
	EmployeeID      string
	PayrollPeriodID string

	GrossPay      decimal.Decimal
	RegularHours  float64
	RegularRate   decimal.Decimal
	OvertimeHours float64
	OvertimeRate  decimal.Decimal
	OvertimePay   decimal.Decimal

	Taxes      TaxBreakdown
	Deductions DeductionBreakdown
	NetPay     decimal.Decimal

	YTDGrossPay decimal.Decimal
	YTDNetPay   decimal.Decimal
	YTDTaxes    decimal.Decimal

	Status    StubStatus
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined read-model field.
	EmployeeName *string
}

type PeriodStatus string

const (
	PeriodStatusDraft      PeriodStatus = "draft"
	PeriodStatusProcessing PeriodStatus = "processing"
	PeriodStatusCompleted  PeriodStatus = "completed"
)

// Period aggregates a payroll run across employees for a date range. A
// completed period is immutable.
type Period struct {
	ID          string
	PeriodStart time.Time
	PeriodEnd   time.Time
	PayDate     time.Time
	Status      PeriodStatus

	TotalGrossPay   decimal.Decimal
	TotalNetPay     decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalTaxes      decimal.Decimal
	EmployeeCount   int

	ProcessedBy *string
	ProcessedAt *time.Time
	ApprovedBy  *string
	ApprovedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Totals is the reduced aggregate of one processing run.
type Totals struct {
	GrossPay      decimal.Decimal `json:"gross_pay"`
	NetPay        decimal.Decimal `json:"net_pay"`
	Deductions    decimal.Decimal `json:"deductions"`
	Taxes         decimal.Decimal `json:"taxes"`
	EmployeeCount int             `json:"employee_count"`
}

// YTD is the year-to-date rollup over paid stubs.
type YTD struct {
	GrossPay decimal.Decimal
	Taxes    decimal.Decimal
	NetPay   decimal.Decimal
}
