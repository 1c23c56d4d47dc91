package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	payrollservice "github.com/cmlabs-hris/payroll-engine-go/internal/service/payroll"
)

type PayrollHandler interface {
	CreatePeriod(w http.ResponseWriter, r *http.Request)
	GetPeriod(w http.ResponseWriter, r *http.Request)
	ProcessPeriod(w http.ResponseWriter, r *http.Request)
	ApprovePeriod(w http.ResponseWriter, r *http.Request)
	ListStubs(w http.ResponseWriter, r *http.Request)
	GetStub(w http.ResponseWriter, r *http.Request)
	GetYTD(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService *payrollservice.Service
}

func NewPayrollHandler(payrollService *payrollservice.Service) PayrollHandler {
	return &PayrollHandlerImpl{payrollService: payrollService}
}

// CreatePeriod implements PayrollHandler.
func (h *PayrollHandlerImpl) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	period, err := h.payrollService.CreatePeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Payroll period created successfully", payroll.EnrichPeriod(period))
}

// GetPeriod implements PayrollHandler.
func (h *PayrollHandlerImpl) GetPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.payrollService.GetPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, payroll.EnrichPeriod(period))
}

// ProcessPeriod implements PayrollHandler. The request body is optional; an
// empty body processes every active employee.
func (h *PayrollHandlerImpl) ProcessPeriod(w http.ResponseWriter, r *http.Request) {
	var req payroll.ProcessPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.ProcessPeriod(r.Context(), chi.URLParam(r, "id"), middleware.ActorID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll period processed", result)
}

// ApprovePeriod implements PayrollHandler.
func (h *PayrollHandlerImpl) ApprovePeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.payrollService.ApprovePeriod(r.Context(), chi.URLParam(r, "id"), middleware.ActorID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll period approved successfully", payroll.EnrichPeriod(period))
}

// ListStubs implements PayrollHandler.
func (h *PayrollHandlerImpl) ListStubs(w http.ResponseWriter, r *http.Request) {
	stubs, err := h.payrollService.ListStubs(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]payroll.StubResponse, 0, len(stubs))
	for _, stub := range stubs {
		out = append(out, payroll.EnrichStub(stub))
	}
	response.Success(w, out)
}

// GetStub implements PayrollHandler.
func (h *PayrollHandlerImpl) GetStub(w http.ResponseWriter, r *http.Request) {
	stub, err := h.payrollService.GetStub(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, payroll.EnrichStub(stub))
}

// GetYTD implements PayrollHandler.
func (h *PayrollHandlerImpl) GetYTD(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "Invalid 'year' value", nil)
			return
		}
		year = parsed
	}

	ytd, err := h.payrollService.GetYTD(r.Context(), middleware.ActorID(r.Context()), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, map[string]decimal.Decimal{
		"gross_pay": ytd.GrossPay,
		"taxes":     ytd.Taxes,
		"net_pay":   ytd.NetPay,
	})
}
