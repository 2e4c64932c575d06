package taskhandler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"empdash/internal/domain/task"
	"empdash/internal/platform/requestctx"
	"empdash/internal/transport/http/api"
	"empdash/internal/transport/http/middleware"
	"empdash/internal/transport/http/shared"
)

type Handler struct {
	Tasks *task.Service
}

func NewHandler(service *task.Service) *Handler {
	return &Handler{Tasks: service}
}

type assignRequest struct {
	EmployeeID   string `json:"employeeId" validate:"required"`
	Title        string `json:"title" validate:"required,min=2,max=200"`
	Description  string `json:"description" validate:"required"`
	Remarks      string `json:"remarks"`
	StartTime    string `json:"startTime" validate:"required,workhour"`
	EndTime      string `json:"endTime" validate:"required,workhour"`
	TaskDate     string `json:"taskDate" validate:"required"`
	Organization string `json:"organization" validate:"required"`
	Priority     string `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	Completion   *int   `json:"completion"`
}

type statusRequest struct {
	Completion *int `json:"completion"`
}

func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	admin, _ := middleware.GetUser(r.Context())

	var payload assignRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}

	v := shared.NewValidator()
	v.Struct(payload)
	taskDate, _ := v.Date("taskDate", payload.TaskDate)
	completion := 0
	if payload.Completion != nil {
		completion = *payload.Completion
		v.Range("completion", completion, 0, 100)
	}
	if v.Reject(w, requestID) {
		return
	}

	created, err := h.Tasks.Assign(r.Context(), admin.UserID, task.AssignInput{
		EmployeeID:   strings.TrimSpace(payload.EmployeeID),
		Title:        strings.TrimSpace(payload.Title),
		Description:  payload.Description,
		Remarks:      payload.Remarks,
		StartTime:    payload.StartTime,
		EndTime:      payload.EndTime,
		TaskDate:     taskDate,
		Organization: strings.TrimSpace(payload.Organization),
		Priority:     payload.Priority,
		Completion:   completion,
	})
	if err != nil {
		failTask(w, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	tasks, err := h.Tasks.ListAll(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.TypeInternal, "failed to list tasks", requestID)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	api.Success(w, tasks, requestID)
}

func (h *Handler) HandleListByEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeId")

	tasks, err := h.Tasks.ListForEmployee(r.Context(), actor, employeeID)
	if err != nil {
		failTask(w, err, requestID)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	api.Success(w, tasks, requestID)
}

func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetUser(r.Context())

	tasks, err := h.Tasks.ListMine(r.Context(), actor.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.TypeInternal, "failed to list tasks", requestID)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	api.Success(w, tasks, requestID)
}

// HandleUpdateStatus applies a completion write. Out-of-range values are
// rejected here so they never reach storage.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetUser(r.Context())
	taskID := chi.URLParam(r, "id")

	var payload statusRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}

	v := shared.NewValidator()
	if payload.Completion == nil {
		v.Add("completion", "is required")
	} else {
		v.Range("completion", *payload.Completion, 0, 100)
	}
	if v.Reject(w, requestID) {
		return
	}

	updated, err := h.Tasks.UpdateStatus(r.Context(), actor, taskID, *payload.Completion)
	if err != nil {
		failTask(w, err, requestID)
		return
	}
	api.Success(w, updated, requestID)
}

func failTask(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, task.ErrNotFound):
		api.Fail(w, http.StatusNotFound, api.TypeNotFound, "task not found", requestID)
	case errors.Is(err, task.ErrForbidden):
		api.Fail(w, http.StatusForbidden, api.TypeAuthorization, "insufficient permissions", requestID)
	case errors.Is(err, task.ErrInvalidEmployee):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "employeeId", Reason: "must reference an active employee"}})
	default:
		api.Fail(w, http.StatusInternalServerError, api.TypeInternal, "task operation failed", requestID)
	}
}
