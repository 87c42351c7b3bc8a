package location

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ferdiebergado/hrkit/internal/pkg/message"
	"github.com/ferdiebergado/hrkit/internal/pkg/web"
)

// LocationService is the handler-facing surface of the location feature.
type LocationService interface {
	CreateLocation(ctx context.Context, params CreateParams) (Location, error)
	FindLocation(ctx context.Context, locationID string) (*Location, error)
	ListLocations(ctx context.Context, clientID string, opts web.ListOptions) ([]Location, int64, error)
	LookupLocations(ctx context.Context, clientID string) ([]Location, error)
	UpdateLocation(ctx context.Context, params UpdateParams) (Location, error)
	DeleteLocation(ctx context.Context, locationID string, version int64) error
}

type Handler struct {
	svc LocationService
}

func NewHandler(svc LocationService) *Handler {
	return &Handler{svc: svc}
}

var sortable = map[string]string{
	"name":       "name",
	"city":       "city",
	"country":    "country",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type LocationRequest struct {
	ClientID string `json:"client_id,omitempty" validate:"required,uuid"`
	Name     string `json:"name,omitempty" validate:"required,min=1,max=120"`
	City     string `json:"city,omitempty" validate:"omitempty,max=120"`
	Country  string `json:"country,omitempty" validate:"omitempty,iso3166_1_alpha2"`
	Active   *bool  `json:"active,omitempty"`
}

type LocationData struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Name      string    `json:"name"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListResponse struct {
	Locations []LocationData `json:"locations"`
	Count     *int64         `json:"count,omitempty"`
}

func transformLocation(loc *Location) *LocationData {
	return &LocationData{
		ID:        loc.ID,
		ClientID:  loc.ClientID,
		Name:      loc.Name,
		City:      loc.City,
		Country:   loc.Country,
		Active:    loc.Active,
		CreatedAt: loc.CreatedAt,
		UpdatedAt: loc.UpdatedAt,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[LocationRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	loc, err := h.svc.CreateLocation(r.Context(), CreateParams{
		ClientID: req.ClientID,
		Name:     req.Name,
		City:     req.City,
		Country:  req.Country,
		Active:   active,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	web.SetETag(w, loc.Version)
	w.Header().Set(web.HeaderLocation, "/api/v1/locations/"+loc.ID)
	msg := "Location created."
	web.RespondCreated(w, &msg, transformLocation(&loc))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := web.ParseListOptions(r, sortable, "name")
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	locations, total, err := h.svc.ListLocations(r.Context(), r.URL.Query().Get("client_id"), opts)
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	data := make([]LocationData, 0, len(locations))
	for _, loc := range locations {
		data = append(data, *transformLocation(&loc))
	}

	payload := &ListResponse{Locations: data}
	if opts.Count {
		payload.Count = &total
	}
	web.RespondOK(w, nil, payload)
}

// Lookup serves the cached active location list of one client, meant for
// dropdown population.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		web.RespondBadRequest(w, errors.New("client_id query parameter is required"), message.InvalidInput, nil)
		return
	}

	locations, err := h.svc.LookupLocations(r.Context(), clientID)
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	data := make([]LocationData, 0, len(locations))
	for _, loc := range locations {
		data = append(data, *transformLocation(&loc))
	}
	web.RespondOK(w, nil, &ListResponse{Locations: data})
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	loc, err := h.svc.FindLocation(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	web.SetETag(w, loc.Version)
	web.RespondOK(w, nil, transformLocation(loc))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	version, _, err := web.MatchVersion(r)
	if err != nil {
		respondVersionError(w, err)
		return
	}

	req, err := web.ParamsFromContext[LocationRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	loc, err := h.svc.UpdateLocation(r.Context(), UpdateParams{
		ID:       r.PathValue("id"),
		Version:  version,
		ClientID: req.ClientID,
		Name:     req.Name,
		City:     req.City,
		Country:  req.Country,
		Active:   active,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	web.SetETag(w, loc.Version)
	msg := "Location updated."
	web.RespondOK(w, &msg, transformLocation(&loc))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	version, _, err := web.MatchVersion(r)
	if err != nil {
		respondVersionError(w, err)
		return
	}

	if err := h.svc.DeleteLocation(r.Context(), r.PathValue("id"), version); err != nil {
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
