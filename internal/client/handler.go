package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ferdiebergado/hrkit/internal/pkg/message"
	"github.com/ferdiebergado/hrkit/internal/pkg/web"
)

// ClientService is the handler-facing surface of the client feature.
type ClientService interface {
	CreateClient(ctx context.Context, params CreateParams) (Client, error)
	FindClient(ctx context.Context, clientID string) (*Client, error)
	ListClients(ctx context.Context, opts web.ListOptions) ([]Client, int64, error)
	UpdateClient(ctx context.Context, params UpdateParams) (Client, error)
	DeleteClient(ctx context.Context, clientID string, version int64) error
}

type Handler struct {
	svc ClientService
}

func NewHandler(svc ClientService) *Handler {
	return &Handler{svc: svc}
}

// sortable whitelists the $orderby fields for the client set.
var sortable = map[string]string{
	"name":       "name",
	"code":       "code",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type ClientRequest struct {
	Name   string `json:"name,omitempty" validate:"required,min=1,max=120"`
	Code   string `json:"code,omitempty" validate:"required,alphanum,uppercase,min=2,max=10"`
	Active *bool  `json:"active,omitempty"`
}

type ClientData struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListResponse struct {
	Clients []ClientData `json:"clients"`
	Count   *int64       `json:"count,omitempty"`
}

func transformClient(c *Client) *ClientData {
	return &ClientData{
		ID:        c.ID,
		Name:      c.Name,
		Code:      c.Code,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[ClientRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	c, err := h.svc.CreateClient(r.Context(), CreateParams{
		Name:   req.Name,
		Code:   req.Code,
		Active: active,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	web.SetETag(w, c.Version)
	w.Header().Set(web.HeaderLocation, "/api/v1/clients/"+c.ID)
	msg := "Client created."
	web.RespondCreated(w, &msg, transformClient(&c))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := web.ParseListOptions(r, sortable, "name")
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	clients, total, err := h.svc.ListClients(r.Context(), opts)
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	data := make([]ClientData, 0, len(clients))
	for _, c := range clients {
		data = append(data, *transformClient(&c))
	}

	payload := &ListResponse{Clients: data}
	if opts.Count {
		payload.Count = &total
	}
	web.RespondOK(w, nil, payload)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.FindClient(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	web.SetETag(w, c.Version)
	web.RespondOK(w, nil, transformClient(c))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	version, _, err := web.MatchVersion(r)
	if err != nil {
		respondVersionError(w, err)
		return
	}

	req, err := web.ParamsFromContext[ClientRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	c, err := h.svc.UpdateClient(r.Context(), UpdateParams{
		ID:      r.PathValue("id"),
		Version: version,
		Name:    req.Name,
		Code:    req.Code,
		Active:  active,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	web.SetETag(w, c.Version)
	msg := "Client updated."
	web.RespondOK(w, &msg, transformClient(&c))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	version, _, err := web.MatchVersion(r)
	if err != nil {
		respondVersionError(w, err)
		return
	}

	if err := h.svc.DeleteClient(r.Context(), r.PathValue("id"), version); err != nil {
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
