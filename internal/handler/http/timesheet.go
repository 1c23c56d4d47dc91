package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	timesheetservice "github.com/cmlabs-hris/payroll-engine-go/internal/service/timesheet"
)

type TimesheetHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	BulkApprove(w http.ResponseWriter, r *http.Request)
	BulkReject(w http.ResponseWriter, r *http.Request)
}

type TimesheetHandlerImpl struct {
	timesheetService *timesheetservice.Service
}

func NewTimesheetHandler(timesheetService *timesheetservice.Service) TimesheetHandler {
	return &TimesheetHandlerImpl{timesheetService: timesheetService}
}

// Create implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req timesheet.CreateTimesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = middleware.ActorID(r.Context())

	created, err := h.timesheetService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Timesheet created successfully", timesheet.Enrich(created))
}

// Update implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req timesheet.UpdateTimesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.timesheetService.Update(r.Context(), req, middleware.ActorID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, timesheet.Enrich(updated))
}

// List implements TimesheetHandler. Defaults to the current month when no
// range is given.
func (h *TimesheetHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from := validator.StartOfDay(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC))
	to := from.AddDate(0, 1, -1)

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, ok := validator.IsValidDate(v)
		if !ok {
			response.BadRequest(w, "Invalid 'from' date", nil)
			return
		}
		from = validator.StartOfDay(parsed)
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, ok := validator.IsValidDate(v)
		if !ok {
			response.BadRequest(w, "Invalid 'to' date", nil)
			return
		}
		to = validator.StartOfDay(parsed)
	}

	timesheets, err := h.timesheetService.List(r.Context(), middleware.ActorID(r.Context()), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]timesheet.TimesheetResponse, 0, len(timesheets))
	for _, ts := range timesheets {
		out = append(out, timesheet.Enrich(ts))
	}
	response.Success(w, out)
}

// Submit implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	submitted, err := h.timesheetService.Submit(r.Context(), chi.URLParam(r, "id"), middleware.ActorID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Timesheet submitted successfully", timesheet.Enrich(submitted))
}

// Approve implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	approved, err := h.timesheetService.Approve(r.Context(), chi.URLParam(r, "id"), middleware.ActorID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Timesheet approved successfully", timesheet.Enrich(approved))
}

// Reject implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req timesheet.RejectTimesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	rejected, err := h.timesheetService.Reject(r.Context(), chi.URLParam(r, "id"), middleware.ActorID(r.Context()), req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Timesheet rejected", timesheet.Enrich(rejected))
}

// BulkApprove implements TimesheetHandler.
func (h *TimesheetHandlerImpl) BulkApprove(w http.ResponseWriter, r *http.Request) {
	var req timesheet.BulkActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if len(req.IDs) == 0 {
		response.BadRequest(w, "Field 'ids' is required", nil)
		return
	}

	outcome := h.timesheetService.BulkApprove(r.Context(), req.IDs, middleware.ActorID(r.Context()))
	response.Success(w, outcome)
}

// BulkReject implements TimesheetHandler.
func (h *TimesheetHandlerImpl) BulkReject(w http.ResponseWriter, r *http.Request) {
	var req timesheet.BulkActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if len(req.IDs) == 0 {
		response.BadRequest(w, "Field 'ids' is required", nil)
		return
	}

	outcome := h.timesheetService.BulkReject(r.Context(), req.IDs, middleware.ActorID(r.Context()), req.Reason)
	response.Success(w, outcome)
}
