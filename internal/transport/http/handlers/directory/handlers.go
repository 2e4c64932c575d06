package directoryhandler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"empdash/internal/domain/auth"
	"empdash/internal/domain/directory"
	"empdash/internal/platform/requestctx"
	"empdash/internal/transport/http/api"
	"empdash/internal/transport/http/middleware"
	"empdash/internal/transport/http/shared"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type Handler struct {
	Directory *directory.Service
	Images    *ImageStore
}

func NewHandler(service *directory.Service, images *ImageStore) *Handler {
	return &Handler{Directory: service, Images: images}
}

type createRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=120"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required"`
	Department    string `json:"department" validate:"required"`
	Role          string `json:"role"`
	DateOfBirth   string `json:"dateOfBirth" validate:"required"`
	DateOfJoining string `json:"dateOfJoining" validate:"required"`
	Gender        string `json:"gender" validate:"required"`
	ContactNumber string `json:"contactNumber" validate:"required,max=30"`
	Designation   string `json:"designation" validate:"required,max=100"`
	Location      string `json:"location" validate:"required,max=100"`
}

type updateRequest struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Password      *string `json:"password"`
	Department    *string `json:"department"`
	Role          *string `json:"role"`
	DateOfBirth   *string `json:"dateOfBirth"`
	DateOfJoining *string `json:"dateOfJoining"`
	Gender        *string `json:"gender"`
	ContactNumber *string `json:"contactNumber"`
	Designation   *string `json:"designation"`
	Location      *string `json:"location"`
}

// HandleCreate registers an employee. The body is either JSON or
// multipart/form-data; multipart may carry an optional profile image.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	admin, _ := middleware.GetUser(r.Context())

	payload, imagePath, ok := h.decodeCreate(w, r, requestID)
	if !ok {
		return
	}

	v := shared.NewValidator()
	v.Struct(payload)
	v.Enum("department", payload.Department, directory.Departments, "must be one of: "+strings.Join(directory.Departments, ", "))
	v.Enum("gender", payload.Gender, directory.Genders, "must be one of: "+strings.Join(directory.Genders, ", "))
	v.Enum("role", payload.Role, directory.Roles, "must be one of: "+strings.Join(directory.Roles, ", "))
	if err := auth.CheckPasswordStrength(payload.Password); err != nil {
		v.Add("password", "must be at least 8 characters with upper and lower case letters, a digit and a special character")
	}
	dateOfBirth, dobOK := v.Date("dateOfBirth", payload.DateOfBirth)
	if dobOK {
		v.PastDate("dateOfBirth", dateOfBirth)
	}
	dateOfJoining, _ := v.Date("dateOfJoining", payload.DateOfJoining)
	if v.Reject(w, requestID) {
		return
	}

	emp, err := h.Directory.Create(r.Context(), admin.UserID, directory.CreateInput{
		Name:          strings.TrimSpace(payload.Name),
		Email:         strings.ToLower(strings.TrimSpace(payload.Email)),
		Password:      payload.Password,
		Department:    payload.Department,
		Role:          payload.Role,
		Image:         imagePath,
		DateOfBirth:   dateOfBirth,
		DateOfJoining: dateOfJoining,
		Gender:        payload.Gender,
		ContactNumber: strings.TrimSpace(payload.ContactNumber),
		Designation:   strings.TrimSpace(payload.Designation),
		Location:      strings.TrimSpace(payload.Location),
	})
	if err != nil {
		failDirectory(w, err, requestID)
		return
	}
	api.Created(w, emp, requestID)
}

func (h *Handler) decodeCreate(w http.ResponseWriter, r *http.Request, requestID string) (createRequest, string, bool) {
	var payload createRequest
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "multipart/form-data") {
		if !shared.DecodeJSON(w, r, &payload) {
			return payload, "", false
		}
		return payload, "", true
	}

	if err := r.ParseMultipartForm(h.Images.MaxBytes + 64*1024); err != nil {
		api.Fail(w, http.StatusBadRequest, api.TypeValidation, "invalid multipart payload", requestID)
		return payload, "", false
	}
	payload = createRequest{
		Name:          r.FormValue("name"),
		Email:         r.FormValue("email"),
		Password:      r.FormValue("password"),
		Department:    r.FormValue("department"),
		Role:          r.FormValue("role"),
		DateOfBirth:   r.FormValue("dateOfBirth"),
		DateOfJoining: r.FormValue("dateOfJoining"),
		Gender:        r.FormValue("gender"),
		ContactNumber: r.FormValue("contactNumber"),
		Designation:   r.FormValue("designation"),
		Location:      r.FormValue("location"),
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return payload, "", true
	}
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.TypeFileUpload, "could not read uploaded image", requestID)
		return payload, "", false
	}
	defer file.Close()

	imagePath, err := h.Images.Save(file, header)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.TypeFileUpload, err.Error(), requestID)
		return payload, "", false
	}
	return payload, imagePath, true
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	q := shared.ParsePageQuery(r, defaultPageLimit, maxPageLimit)

	result, err := h.Directory.List(r.Context(), directory.ListQuery{Page: q.Page, Limit: q.Limit, Search: q.Search})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.TypeInternal, "failed to list employees", requestID)
		return
	}
	api.Success(w, result, requestID)
}

// HandleGet serves a single profile. Admins can read anyone; an employee can
// only read their own record.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")

	if user.Role == auth.RoleEmployee && user.UserID != id {
		api.Fail(w, http.StatusForbidden, api.TypeAuthorization, "insufficient permissions", requestID)
		return
	}

	emp, err := h.Directory.Get(r.Context(), id)
	if err != nil {
		failDirectory(w, err, requestID)
		return
	}
	api.Success(w, emp, requestID)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	admin, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")

	var payload updateRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}

	v := shared.NewValidator()
	if payload.Email != nil {
		v.Required("email", *payload.Email, "must not be empty")
	}
	if payload.Name != nil {
		v.Required("name", *payload.Name, "must not be empty")
	}
	if payload.Department != nil {
		v.Enum("department", *payload.Department, directory.Departments, "must be one of: "+strings.Join(directory.Departments, ", "))
	}
	if payload.Gender != nil {
		v.Enum("gender", *payload.Gender, directory.Genders, "must be one of: "+strings.Join(directory.Genders, ", "))
	}
	if payload.Role != nil {
		v.Enum("role", *payload.Role, directory.Roles, "must be one of: "+strings.Join(directory.Roles, ", "))
	}
	if payload.Password != nil && *payload.Password != "" {
		if err := auth.CheckPasswordStrength(*payload.Password); err != nil {
			v.Add("password", "must be at least 8 characters with upper and lower case letters, a digit and a special character")
		}
	}
	var dateOfBirth, dateOfJoining *time.Time
	if payload.DateOfBirth != nil {
		if parsed, ok := v.Date("dateOfBirth", *payload.DateOfBirth); ok {
			v.PastDate("dateOfBirth", parsed)
			dateOfBirth = &parsed
		}
	}
	if payload.DateOfJoining != nil {
		if parsed, ok := v.Date("dateOfJoining", *payload.DateOfJoining); ok {
			dateOfJoining = &parsed
		}
	}
	if v.Reject(w, requestID) {
		return
	}

	emp, err := h.Directory.Update(r.Context(), admin.UserID, id, directory.UpdateInput{
		Name:          payload.Name,
		Email:         payload.Email,
		Password:      payload.Password,
		Department:    payload.Department,
		Role:          payload.Role,
		DateOfBirth:   dateOfBirth,
		DateOfJoining: dateOfJoining,
		Gender:        payload.Gender,
		ContactNumber: payload.ContactNumber,
		Designation:   payload.Designation,
		Location:      payload.Location,
	})
	if err != nil {
		failDirectory(w, err, requestID)
		return
	}
	api.Success(w, emp, requestID)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	admin, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.Directory.Delete(r.Context(), admin.UserID, id); err != nil {
		failDirectory(w, err, requestID)
		return
	}
	api.SuccessMessage(w, "Employee deleted.", requestID)
}

func failDirectory(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		api.Fail(w, http.StatusNotFound, api.TypeNotFound, "employee not found", requestID)
	case errors.Is(err, directory.ErrDuplicateEmail):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "email", Reason: "is already registered"}})
	case errors.Is(err, directory.ErrIDSpaceBusy):
		api.Fail(w, http.StatusInternalServerError, api.TypeInternal, "could not allocate an employee id", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, api.TypeInternal, "employee operation failed", requestID)
	}
}
