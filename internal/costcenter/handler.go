package costcenter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ferdiebergado/hrkit/internal/pkg/message"
	"github.com/ferdiebergado/hrkit/internal/pkg/web"
)

// CostCenterService is the handler-facing surface of the cost center feature.
type CostCenterService interface {
	CreateCostCenter(ctx context.Context, params CreateParams) (CostCenter, error)
	FindCostCenter(ctx context.Context, costCenterID string) (*CostCenter, error)
	ListCostCenters(ctx context.Context, clientID string, opts web.ListOptions) ([]CostCenter, int64, error)
	LookupCostCenters(ctx context.Context, clientID string) ([]CostCenter, error)
	UpdateCostCenter(ctx context.Context, params UpdateParams) (CostCenter, error)
	DeleteCostCenter(ctx context.Context, costCenterID string, version int64) error
}

type Handler struct {
	svc CostCenterService
}

func NewHandler(svc CostCenterService) *Handler {
	return &Handler{svc: svc}
}

var sortable = map[string]string{
	"code":       "code",
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type CostCenterRequest struct {
	ClientID string `json:"client_id,omitempty" validate:"required,uuid"`
	Code     string `json:"code,omitempty" validate:"required,min=1,max=20"`
	Name     string `json:"name,omitempty" validate:"required,min=1,max=120"`
	Active   *bool  `json:"active,omitempty"`
}

type CostCenterData struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListResponse struct {
	CostCenters []CostCenterData `json:"cost_centers"`
	Count       *int64           `json:"count,omitempty"`
}

func transformCostCenter(cc *CostCenter) *CostCenterData {
	return &CostCenterData{
		ID:        cc.ID,
		ClientID:  cc.ClientID,
		Code:      cc.Code,
		Name:      cc.Name,
		Active:    cc.Active,
		CreatedAt: cc.CreatedAt,
		UpdatedAt: cc.UpdatedAt,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[CostCenterRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	cc, err := h.svc.CreateCostCenter(r.Context(), CreateParams{
		ClientID: req.ClientID,
		Code:     req.Code,
		Name:     req.Name,
		Active:   active,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	web.SetETag(w, cc.Version)
	w.Header().Set(web.HeaderLocation, "/api/v1/cost-centers/"+cc.ID)
	msg := "Cost center created."
	web.RespondCreated(w, &msg, transformCostCenter(&cc))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := web.ParseListOptions(r, sortable, "code")
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	centers, total, err := h.svc.ListCostCenters(r.Context(), r.URL.Query().Get("client_id"), opts)
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	data := make([]CostCenterData, 0, len(centers))
	for _, cc := range centers {
		data = append(data, *transformCostCenter(&cc))
	}

	payload := &ListResponse{CostCenters: data}
	if opts.Count {
		payload.Count = &total
	}
	web.RespondOK(w, nil, payload)
}

// Lookup serves the cached active cost center list of one client, meant for
// dropdown population.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		web.RespondBadRequest(w, errors.New("client_id query parameter is required"), message.InvalidInput, nil)
		return
	}

	centers, err := h.svc.LookupCostCenters(r.Context(), clientID)
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	data := make([]CostCenterData, 0, len(centers))
	for _, cc := range centers {
		data = append(data, *transformCostCenter(&cc))
	}
	web.RespondOK(w, nil, &ListResponse{CostCenters: data})
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	cc, err := h.svc.FindCostCenter(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	web.SetETag(w, cc.Version)
	web.RespondOK(w, nil, transformCostCenter(cc))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	version, _, err := web.MatchVersion(r)
	if err != nil {
		respondVersionError(w, err)
		return
	}

	req, err := web.ParamsFromContext[CostCenterRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	cc, err := h.svc.UpdateCostCenter(r.Context(), UpdateParams{
		ID:       r.PathValue("id"),
		Version:  version,
		ClientID: req.ClientID,
		Code:     req.Code,
		Name:     req.Name,
		Active:   active,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	web.SetETag(w, cc.Version)
	msg := "Cost center updated."
	web.RespondOK(w, &msg, transformCostCenter(&cc))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	version, _, err := web.MatchVersion(r)
	if err != nil {
		respondVersionError(w, err)
		return
	}

	if err := h.svc.DeleteCostCenter(r.Context(), r.PathValue("id"), version); err != nil {
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
	case errors.Is(err, ErrInUse):
		web.RespondConflict(w, err, message.RecordInUse, referencedBy(err))
	case errors.Is(err, ErrImmutableClient):
		web.RespondUnprocessableEntity(w, err, message.ClientScopeConflict, map[string]string{"client_id": "client_id cannot change"})
	case errors.Is(err, ErrUnknownClient):
		web.RespondUnprocessableEntity(w, err, message.InvalidInput, map[string]string{"client_id": "client does not exist"})
	default:
		web.RespondInternalServerError(w, err)
	}
}

// referencedBy names the set that blocks the delete, when the repository
// could tell.
func referencedBy(err error) map[string]string {
	var inUse *InUseError
	if errors.As(err, &inUse) && inUse.ReferencedBy != "" {
		return map[string]string{"referenced_by": inUse.ReferencedBy}
	}
	return nil
}

func respondVersionError(w http.ResponseWriter, err error) {
	if errors.Is(err, web.ErrNoIfMatch) {
		web.RespondPreconditionRequired(w, err, message.VersionRequired, nil)
		return
	}
	web.RespondBadRequest(w, err, message.InvalidInput, nil)
}
