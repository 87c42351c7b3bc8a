package employee

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"time"

	"github.com/ferdiebergado/hrkit/internal/pkg/message"
	"github.com/ferdiebergado/hrkit/internal/pkg/web"
)

const dateLayout = "2006-01-02"

// EmployeeService is the handler-facing surface of the employee feature.
type EmployeeService interface {
	CreateEmployee(ctx context.Context, params CreateParams) (Employee, error)
	FindEmployee(ctx context.Context, employeeID string) (*Employee, error)
	ListEmployees(ctx context.Context, clientID string, opts web.ListOptions) ([]Employee, int64, error)
	ExportEmployees(ctx context.Context, clientID string) ([]Employee, error)
	UpdateEmployee(ctx context.Context, params UpdateParams) (Employee, error)
	DeleteEmployee(ctx context.Context, employeeID string, version int64) error
}

type Handler struct {
	svc EmployeeService
}

func NewHandler(svc EmployeeService) *Handler {
	return &Handler{svc: svc}
}

var sortable = map[string]string{
	"badge_id":   "badge_id",
	"first_name": "first_name",
	"last_name":  "last_name",
	"email":      "email",
	"hired_at":   "hired_at",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type EmployeeRequest struct {
	ClientID     string  `json:"client_id,omitempty" validate:"required,uuid"`
	FirstName    string  `json:"first_name,omitempty" validate:"required,min=1,max=120"`
	LastName     string  `json:"last_name,omitempty" validate:"required,min=1,max=120"`
	Email        string  `json:"email,omitempty" validate:"required,email"`
	CostCenterID *string `json:"cost_center_id,omitempty" validate:"omitempty,uuid"`
	LocationID   *string `json:"location_id,omitempty" validate:"omitempty,uuid"`
	HiredAt      string  `json:"hired_at,omitempty" validate:"required,datetime=2006-01-02"`
	Active       *bool   `json:"active,omitempty"`
}

type EmployeeData struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"client_id"`
	BadgeID      string    `json:"badge_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	CostCenterID *string   `json:"cost_center_id,omitempty"`
	LocationID   *string   `json:"location_id,omitempty"`
	HiredAt      string    `json:"hired_at"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ListResponse struct {
	Employees []EmployeeData `json:"employees"`
	Count     *int64         `json:"count,omitempty"`
}

func transformEmployee(emp *Employee) *EmployeeData {
	return &EmployeeData{
		ID:           emp.ID,
		ClientID:     emp.ClientID,
		BadgeID:      emp.BadgeID,
		FirstName:    emp.FirstName,
		LastName:     emp.LastName,
		Email:        emp.Email,
		CostCenterID: emp.CostCenterID,
		LocationID:   emp.LocationID,
		HiredAt:      emp.HiredAt.Format(dateLayout),
		Active:       emp.Active,
		CreatedAt:    emp.CreatedAt,
		UpdatedAt:    emp.UpdatedAt,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[EmployeeRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	emp, err := h.svc.CreateEmployee(r.Context(), CreateParams{
		ClientID:     req.ClientID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		CostCenterID: req.CostCenterID,
		LocationID:   req.LocationID,
		HiredAt:      req.HiredAt,
		Active:       active,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	web.SetETag(w, emp.Version)
	w.Header().Set(web.HeaderLocation, "/api/v1/employees/"+emp.ID)
	msg := "Employee created."
	web.RespondCreated(w, &msg, transformEmployee(&emp))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := web.ParseListOptions(r, sortable, "badge_id")
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	employees, total, err := h.svc.ListEmployees(r.Context(), r.URL.Query().Get("client_id"), opts)
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	data := make([]EmployeeData, 0, len(employees))
	for _, emp := range employees {
		data = append(data, *transformEmployee(&emp))
	}

	payload := &ListResponse{Employees: data}
	if opts.Count {
		payload.Count = &total
	}
	web.RespondOK(w, nil, payload)
}

var exportHeader = []string{"badge_id", "first_name", "last_name", "email", "client_id", "cost_center_id", "location_id", "hired_at", "active"}

// Export streams the (optionally client-filtered) employee list as CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	employees, err := h.svc.ExportEmployees(r.Context(), r.URL.Query().Get("client_id"))
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	w.Header().Set(web.HeaderContentType, web.MimeCSV)
	w.Header().Set("Content-Disposition", `attachment; filename="employees.csv"`)

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return
	}
	for _, emp := range employees {
		costCenterID := ""
		if emp.CostCenterID != nil {
			costCenterID = *emp.CostCenterID
		}
		locationID := ""
		if emp.LocationID != nil {
			locationID = *emp.LocationID
		}
		active := "false"
		if emp.Active {
			active = "true"
		}
		record := []string{
			emp.BadgeID, emp.FirstName, emp.LastName, emp.Email, emp.ClientID,
			costCenterID, locationID, emp.HiredAt.Format(dateLayout), active,
		}
		if err := cw.Write(record); err != nil {
			return
		}
	}
	cw.Flush()
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	emp, err := h.svc.FindEmployee(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	web.SetETag(w, emp.Version)
	web.RespondOK(w, nil, transformEmployee(emp))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	version, _, err := web.MatchVersion(r)
	if err != nil {
		respondVersionError(w, err)
		return
	}

	req, err := web.ParamsFromContext[EmployeeRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	emp, err := h.svc.UpdateEmployee(r.Context(), UpdateParams{
		ID:           r.PathValue("id"),
		Version:      version,
		ClientID:     req.ClientID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		CostCenterID: req.CostCenterID,
		LocationID:   req.LocationID,
		HiredAt:      req.HiredAt,
		Active:       active,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	web.SetETag(w, emp.Version)
	msg := "Employee updated."
	web.RespondOK(w, &msg, transformEmployee(&emp))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	version, _, err := web.MatchVersion(r)
	if err != nil {
		respondVersionError(w, err)
		return
	}

	if err := h.svc.DeleteEmployee(r.Context(), r.PathValue("id"), version); err != nil {
		h.respondError(w, err)
		return
	}

	web.RespondNoContent(w)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		web.RespondNotFound(w, err, message.NotFound, nil)
	case errors.Is(err, ErrVersionMismatch):
		web.RespondPreconditionFailed(w, err, message.VersionMismatch, nil)
	case errors.Is(err, ErrDuplicate):
		web.RespondConflict(w, err, message.DuplicateEntry, nil)
	case errors.Is(err, ErrClientScope):
		web.RespondUnprocessableEntity(w, err, message.ClientScopeConflict, nil)
	case errors.Is(err, ErrImmutableClient):
		web.RespondUnprocessableEntity(w, err, message.ClientScopeConflict, map[string]string{"client_id": "client_id cannot change"})
	case errors.Is(err, ErrUnknownClient):
		web.RespondUnprocessableEntity(w, err, message.InvalidInput, map[string]string{"client_id": "client does not exist"})
	case errors.Is(err, ErrUnknownReference):
		web.RespondUnprocessableEntity(w, err, message.InvalidInput, nil)
	default:
		web.RespondInternalServerError(w, err)
	}
}

func respondVersionError(w http.ResponseWriter, err error) {
	if errors.Is(err, web.ErrNoIfMatch) {
		web.RespondPreconditionRequired(w, err, message.VersionRequired, nil)
		return
	}
	web.RespondBadRequest(w, err, message.InvalidInput, nil)
}
