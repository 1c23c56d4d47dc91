package payroll

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Calculator holds one settings snapshot and derives pay figures from it.
// All methods are pure so a whole batch computes against the same rules.
type Calculator struct {
	settings payroll.Settings
}

func NewCalculator(settings payroll.Settings) *Calculator {
	return &Calculator{settings: settings}
}

// GrossLines is the earnings side of a stub before taxes and deductions.
type GrossLines struct {
	GrossPay      decimal.Decimal
	RegularHours  float64
	RegularRate   decimal.Decimal
	OvertimeHours float64
	OvertimeRate  decimal.Decimal
	OvertimePay   decimal.Decimal
}

// GrossPay computes the earnings for one employee over one period.
// Monthly employees earn their base salary per period, annual employees a
// twelfth of it, and hourly employees their approved split at the regular
// and overtime rates. Bonus rules add on top for every salary type.
func (c *Calculator) GrossPay(emp employee.Employee, hours timesheet.HourTotals) (GrossLines, error) {
	var lines GrossLines

	switch emp.SalaryType {
	case employee.SalaryTypeMonthly:
		if emp.BaseSalary == nil {
			return GrossLines{}, payroll.ErrNoBaseSalary
		}
		lines.GrossPay = *emp.BaseSalary

	case employee.SalaryTypeAnnual:
		if emp.BaseSalary == nil {
			return GrossLines{}, payroll.ErrNoBaseSalary
		}
		lines.GrossPay = emp.BaseSalary.Div(twelve)

	case employee.SalaryTypeHourly:
		if emp.HourlyRate == nil {
			return GrossLines{}, payroll.ErrNoHourlyRate
		}
		rate := *emp.HourlyRate
		overtimeRate := rate.Mul(c.settings.Overtime.OvertimeMultiplier)

		regularPay := rate.Mul(decimal.NewFromFloat(hours.RegularHours))
		overtimePay := overtimeRate.Mul(decimal.NewFromFloat(hours.OvertimeHours))

		lines.RegularHours = hours.RegularHours
		lines.RegularRate = rate
		lines.OvertimeHours = hours.OvertimeHours
		lines.OvertimeRate = overtimeRate
		lines.OvertimePay = round2(overtimePay)
		lines.GrossPay = regularPay.Add(overtimePay)

	default:
		return GrossLines{}, payroll.ErrNoBaseSalary
	}

	for _, bonus := range c.settings.Bonuses {
		lines.GrossPay = lines.GrossPay.Add(bonus.Amount)
	}

	if lines.GrossPay.IsNegative() {
		lines.GrossPay = decimal.Zero
	}
	lines.GrossPay = round2(lines.GrossPay)

	return lines, nil
}

// ComputeTaxes itemizes the flat-rate taxes on gross. Social security only
// applies to the part of gross still under the annual wage base given the
// year-to-date gross already paid. Medicare has no cap.
func (c *Calculator) ComputeTaxes(gross, ytdGross decimal.Decimal) payroll.TaxBreakdown {
	taxes := c.settings.Taxes

	headroom := taxes.SocialSecurityWageBase.Sub(ytdGross)
	if headroom.IsNegative() {
		headroom = decimal.Zero
	}
	taxableSS := gross
	if taxableSS.GreaterThan(headroom) {
		taxableSS = headroom
	}

	breakdown := payroll.TaxBreakdown{
		Federal:        round2(gross.Mul(taxes.FederalRate)),
		State:          round2(gross.Mul(taxes.StateRate)),
		Local:          round2(gross.Mul(taxes.LocalRate)),
		SocialSecurity: round2(taxableSS.Mul(taxes.SocialSecurityRate)),
		Medicare:       round2(gross.Mul(taxes.MedicareRate)),
	}
	breakdown.Total = breakdown.Federal.
		Add(breakdown.State).
		Add(breakdown.Local).
		Add(breakdown.SocialSecurity).
		Add(breakdown.Medicare)

	return breakdown
}

// ComputeDeductions applies the configured rules to gross. Percentage rules
// read as a percent of gross, fixed rules as-is. Mandatory rules and rules
// named after common benefits report under benefits, the rest under other.
func (c *Calculator) ComputeDeductions(gross decimal.Decimal) payroll.DeductionBreakdown {
	breakdown := payroll.DeductionBreakdown{TotalDeductions: decimal.Zero}

	for _, rule := range c.settings.Deductions {
		amount := rule.Amount
		if rule.Type == payroll.DeductionTypePercentage {
			amount = gross.Mul(rule.Amount).Div(hundred)
		}
		amount = round2(amount)

		line := payroll.DeductionLine{Name: rule.Name, Amount: amount}
		if rule.Mandatory || isBenefit(rule.Name) {
			breakdown.Benefits = append(breakdown.Benefits, line)
		} else {
			breakdown.Other = append(breakdown.Other, line)
		}
		breakdown.TotalDeductions = breakdown.TotalDeductions.Add(amount)
	}

	return breakdown
}

// NetPay is gross minus taxes minus deductions, floored at zero.
func (c *Calculator) NetPay(gross decimal.Decimal, taxes payroll.TaxBreakdown, deductions payroll.DeductionBreakdown) decimal.Decimal {
	net := gross.Sub(taxes.Total).Sub(deductions.TotalDeductions)
	if net.IsNegative() {
		return decimal.Zero
	}
	return round2(net)
}

func isBenefit(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range []string{"health", "dental", "vision", "insurance", "retirement", "401"} {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// round2 rounds half-up to two decimals, matching how money is displayed.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
