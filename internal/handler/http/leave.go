package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	leaveservice "github.com/cmlabs-hris/payroll-engine-go/internal/service/leave"
)

type LeaveHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	GetBalances(w http.ResponseWriter, r *http.Request)
	CheckAvailability(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	requestService *leaveservice.RequestService
	balanceService *leaveservice.BalanceService
}

func NewLeaveHandler(requestService *leaveservice.RequestService, balanceService *leaveservice.BalanceService) LeaveHandler {
	return &LeaveHandlerImpl{
		requestService: requestService,
		balanceService: balanceService,
	}
}

// Create implements LeaveHandler.
func (h *LeaveHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = middleware.ActorID(r.Context())

	created, err := h.requestService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave request created successfully", leave.Enrich(created))
}

// List implements LeaveHandler.
func (h *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requestService.List(r.Context(), middleware.ActorID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]leave.RequestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, leave.Enrich(req))
	}
	response.Success(w, out)
}

// Approve implements LeaveHandler.
func (h *LeaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	approved, err := h.requestService.Approve(r.Context(), chi.URLParam(r, "id"), middleware.ActorID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request approved successfully", leave.Enrich(approved))
}

// Reject implements LeaveHandler.
func (h *LeaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req leave.RejectRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	rejected, err := h.requestService.Reject(r.Context(), chi.URLParam(r, "id"), middleware.ActorID(r.Context()), req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request rejected", leave.Enrich(rejected))
}

// Cancel implements LeaveHandler.
func (h *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	var req leave.RejectRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	cancelled, err := h.requestService.Cancel(r.Context(), chi.URLParam(r, "id"), middleware.ActorID(r.Context()), req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request cancelled", leave.Enrich(cancelled))
}

// GetBalances implements LeaveHandler. Balances are seeded from policy on
// first read for the requested year.
func (h *LeaveHandlerImpl) GetBalances(w http.ResponseWriter, r *http.Request) {
	employeeID := middleware.ActorID(r.Context())
	year := time.Now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "Invalid 'year' value", nil)
			return
		}
		year = parsed
	}

	balances, err := h.balanceService.GetBalances(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := leave.BalanceResponse{
		EmployeeID: employeeID,
		Year:       year,
		Balances:   make([]leave.BalanceDetail, 0, len(balances)),
		AsOf:       time.Now(),
	}
	for _, b := range balances {
		resp.Balances = append(resp.Balances, leave.BalanceDetail{
			Type:         string(b.Type),
			Total:        b.Total,
			Used:         b.Used,
			Remaining:    b.Remaining,
			Accrued:      b.Accrued,
			CarryForward: b.CarryForward,
		})
	}
	response.Success(w, resp)
}

// CheckAvailability implements LeaveHandler.
func (h *LeaveHandlerImpl) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	leaveType := r.URL.Query().Get("leave_type")
	days, err := strconv.ParseFloat(r.URL.Query().Get("days"), 64)
	if err != nil || days <= 0 {
		response.BadRequest(w, "Query parameter 'days' must be a positive number", nil)
		return
	}
	year := time.Now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "Invalid 'year' value", nil)
			return
		}
		year = parsed
	}

	availability, err := h.balanceService.CheckAvailability(r.Context(), middleware.ActorID(r.Context()), leave.Type(leaveType), days, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, availability)
}
