package leave

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

type CreateRequestRequest struct {
	EmployeeID string `json:"-"`
	Type       string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

func (r *CreateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if !isKnownType(r.Type) {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "unknown leave type"})
	}
	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isKnownType(t string) bool {
	for _, known := range Types {
		if string(known) == t {
			return true
		}
	}
	return false
}

type RejectRequestRequest struct {
	Reason string `json:"reason"`
}

type RequestResponse struct {
	ID            string   `json:"id"`
	EmployeeID    string   `json:"employee_id"`
	EmployeeName  string   `json:"employee_name,omitempty"`
	Type          string   `json:"leave_type"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	TotalDays     float64  `json:"total_days"`
	Reason        string   `json:"reason"`
	Status        string   `json:"status"`
	BalanceBefore *float64 `json:"balance_before,omitempty"`
	BalanceAfter  *float64 `json:"balance_after,omitempty"`
}

// Enrich projects the request plus its cached display fields into a
// response. The employee name is a read-time projection; the request row is
// the source of truth for everything else.
func Enrich(req Request) RequestResponse {
	resp := RequestResponse{
		ID:            req.ID,
		EmployeeID:    req.EmployeeID,
		Type:          string(req.Type),
		StartDate:     req.StartDate.Format("2006-01-02"),
		EndDate:       req.EndDate.Format("2006-01-02"),
		TotalDays:     req.TotalDays,
		Reason:        req.Reason,
		Status:        string(req.Status),
		BalanceBefore: req.BalanceBefore,
		BalanceAfter:  req.BalanceAfter,
	}
	if req.EmployeeName != nil {
		resp.EmployeeName = *req.EmployeeName
	}
	return resp
}

type BalanceResponse struct {
	EmployeeID string          `json:"employee_id"`
	Year       int             `json:"year"`
	Balances   []BalanceDetail `json:"balances"`
	AsOf       time.Time       `json:"as_of"`
}

type BalanceDetail struct {
	Type         string  `json:"leave_type"`
	Total        float64 `json:"total"`
	Used         float64 `json:"used"`
	Remaining    float64 `json:"remaining"`
	Accrued      float64 `json:"accrued"`
	CarryForward float64 `json:"carry_forward"`
}
