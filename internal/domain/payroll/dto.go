package payroll

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreatePeriodRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	PayDate     string `json:"pay_date"`
}

func (r *CreatePeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be YYYY-MM-DD"})
	}
	end, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be YYYY-MM-DD"})
	}
	if _, ok := validator.IsValidDate(r.PayDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "pay_date", Message: "must be YYYY-MM-DD"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ProcessPeriodRequest struct {
	DepartmentID string `json:"department_id,omitempty"`
}

// EmployeeFailure records one employee skipped during a batch run.
type EmployeeFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// ProcessResult is the outcome of one processing run: the stubs that were
// generated, the reduced totals, and the employees that were skipped.
type ProcessResult struct {
	PayStubs []PayStub         `json:"pay_stubs"`
	Totals   Totals            `json:"totals"`
	Failed   []EmployeeFailure `json:"failed,omitempty"`
}

type StubResponse struct {
	ID            string             `json:"id"`
	EmployeeID    string             `json:"employee_id"`
	EmployeeName  string             `json:"employee_name,omitempty"`
	GrossPay      decimal.Decimal    `json:"gross_pay"`
	RegularHours  float64            `json:"regular_hours"`
	RegularRate   decimal.Decimal    `json:"regular_rate"`
	OvertimeHours float64            `json:"overtime_hours"`
	OvertimeRate  decimal.Decimal    `json:"overtime_rate"`
	OvertimePay   decimal.Decimal    `json:"overtime_pay"`
	Taxes         TaxBreakdown       `json:"taxes"`
	Deductions    DeductionBreakdown `json:"deductions"`
	NetPay        decimal.Decimal    `json:"net_pay"`
	YTDGrossPay   decimal.Decimal    `json:"ytd_gross_pay"`
	YTDNetPay     decimal.Decimal    `json:"ytd_net_pay"`
	YTDTaxes      decimal.Decimal    `json:"ytd_taxes"`
	Status        string             `json:"status"`
}

func EnrichStub(stub PayStub) StubResponse {
	resp := StubResponse{
		ID:            stub.ID,
		EmployeeID:    stub.EmployeeID,
		GrossPay:      stub.GrossPay,
		RegularHours:  stub.RegularHours,
		RegularRate:   stub.RegularRate,
		OvertimeHours: stub.OvertimeHours,
		OvertimeRate:  stub.OvertimeRate,
		OvertimePay:   stub.OvertimePay,
		Taxes:         stub.Taxes,
		Deductions:    stub.Deductions,
		NetPay:        stub.NetPay,
		YTDGrossPay:   stub.YTDGrossPay,
		YTDNetPay:     stub.YTDNetPay,
		YTDTaxes:      stub.YTDTaxes,
		Status:        string(stub.Status),
	}
	if stub.EmployeeName != nil {
		resp.EmployeeName = *stub.EmployeeName
	}
	return resp
}

type PeriodResponse struct {
	ID              string          `json:"id"`
	PeriodStart     string          `json:"period_start"`
	PeriodEnd       string          `json:"period_end"`
	PayDate         string          `json:"pay_date"`
	Status          string          `json:"status"`
	TotalGrossPay   decimal.Decimal `json:"total_gross_pay"`
	TotalNetPay     decimal.Decimal `json:"total_net_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalTaxes      decimal.Decimal `json:"total_taxes"`
	EmployeeCount   int             `json:"employee_count"`
}

func EnrichPeriod(p Period) PeriodResponse {
	return PeriodResponse{
		ID:              p.ID,
		PeriodStart:     p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       p.PeriodEnd.Format("2006-01-02"),
		PayDate:         p.PayDate.Format("2006-01-02"),
		Status:          string(p.Status),
		TotalGrossPay:   p.TotalGrossPay,
		TotalNetPay:     p.TotalNetPay,
		TotalDeductions: p.TotalDeductions,
		TotalTaxes:      p.TotalTaxes,
		EmployeeCount:   p.EmployeeCount,
	}
}
