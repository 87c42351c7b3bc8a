package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ferdiebergado/hrkit/internal/pkg/message"
	"github.com/ferdiebergado/hrkit/internal/pkg/web"
)

// OutboxService is the handler-facing surface of the outbox.
type OutboxService interface {
	CreateEndpoint(ctx context.Context, params CreateEndpointParams) (Endpoint, error)
	FindEndpoint(ctx context.Context, endpointID string) (*Endpoint, error)
	ListEndpoints(ctx context.Context) ([]Endpoint, error)
	UpdateEndpoint(ctx context.Context, params UpdateEndpointParams) (Endpoint, error)
	DeleteEndpoint(ctx context.Context, endpointID string, version int64) error
	ListEvents(ctx context.Context, status string, opts web.ListOptions) ([]Event, error)
}

type Handler struct {
	svc OutboxService
}

func NewHandler(svc OutboxService) *Handler {
	return &Handler{svc: svc}
}

type EndpointRequest struct {
	URL    string   `json:"url,omitempty" validate:"required,url"`
	Secret string   `json:"secret,omitempty" validate:"omitempty,min=16"`
	Events []string `json:"events,omitempty" validate:"required,min=1,dive,required"`
	Active *bool    `json:"active,omitempty"`
}

type EndpointData struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Secret    string    `json:"secret,omitempty"`
	Events    []string  `json:"events"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListEndpointsResponse struct {
	Endpoints []EndpointData `json:"endpoints"`
}

func transformEndpoint(ep *Endpoint) *EndpointData {
	return &EndpointData{
		ID:        ep.ID,
		URL:       ep.URL,
		Events:    ep.Events,
		Active:    ep.Active,
		CreatedAt: ep.CreatedAt,
		UpdatedAt: ep.UpdatedAt,
	}
}

func (h *Handler) CreateEndpoint(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[EndpointRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	params := CreateEndpointParams{
		URL:    req.URL,
		Secret: req.Secret,
		Events: req.Events,
		Active: active,
	}
	generated := req.Secret == ""

	ep, err := h.svc.CreateEndpoint(r.Context(), params)
	if err != nil {
		h.respondError(w, err)
		return
	}

	data := transformEndpoint(&ep)
	if generated {
		// A server-generated secret is shown exactly once.
		data.Secret = ep.Secret
	}

	web.SetETag(w, ep.Version)
	w.Header().Set(web.HeaderLocation, "/api/v1/endpoints/"+ep.ID)
	msg := "Endpoint registered."
	web.RespondCreated(w, &msg, data)
}

func (h *Handler) ListEndpoints(w http.ResponseWriter, r *http.Request) {
	endpoints, err := h.svc.ListEndpoints(r.Context())
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	data := make([]EndpointData, 0, len(endpoints))
	for _, ep := range endpoints {
		data = append(data, *transformEndpoint(&ep))
	}
	web.RespondOK(w, nil, &ListEndpointsResponse{Endpoints: data})
}

func (h *Handler) FindEndpoint(w http.ResponseWriter, r *http.Request) {
	ep, err := h.svc.FindEndpoint(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	web.SetETag(w, ep.Version)
	web.RespondOK(w, nil, transformEndpoint(ep))
}

func (h *Handler) UpdateEndpoint(w http.ResponseWriter, r *http.Request) {
	version, _, err := web.MatchVersion(r)
	if err != nil {
		respondVersionError(w, err)
		return
	}

	req, err := web.ParamsFromContext[EndpointRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	params := UpdateEndpointParams{
		ID:      r.PathValue("id"),
		Version: version,
		URL:     req.URL,
		Events:  req.Events,
		Active:  active,
	}
	ep, err := h.svc.UpdateEndpoint(r.Context(), params)
	if err != nil {
		h.respondError(w, err)
		return
	}

	web.SetETag(w, ep.Version)
	msg := "Endpoint updated."
	web.RespondOK(w, &msg, transformEndpoint(&ep))
}

func (h *Handler) DeleteEndpoint(w http.ResponseWriter, r *http.Request) {
	version, _, err := web.MatchVersion(r)
	if err != nil {
		respondVersionError(w, err)
		return
	}

	if err := h.svc.DeleteEndpoint(r.Context(), r.PathValue("id"), version); err != nil {
		h.respondError(w, err)
		return
	}

	web.RespondNoContent(w)
}

type EventData struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	Payload       json.RawMessage `json:"payload"`
	Status        string          `json:"status"`
	Attempts      int             `json:"attempts"`
	NextAttemptAt time.Time       `json:"next_attempt_at"`
	CreatedAt     time.Time       `json:"created_at"`
	DeliveredAt   *time.Time      `json:"delivered_at,omitempty"`
}

type ListEventsResponse struct {
	Events []EventData `json:"events"`
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	opts, err := web.ParseListOptions(r, nil, "created_at")
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	status := r.URL.Query().Get("status")
	switch status {
	case "", StatusPending, StatusDelivered, StatusDead:
	default:
		web.RespondBadRequest(w, errors.New("unknown status filter: "+status), message.InvalidInput, nil)
		return
	}

	events, err := h.svc.ListEvents(r.Context(), status, opts)
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	data := make([]EventData, 0, len(events))
	for _, ev := range events {
		data = append(data, EventData{
			ID:            ev.ID,
			Kind:          ev.Kind,
			Payload:       ev.Payload,
			Status:        ev.Status,
			Attempts:      ev.Attempts,
			NextAttemptAt: ev.NextAttemptAt,
			CreatedAt:     ev.CreatedAt,
			DeliveredAt:   ev.DeliveredAt,
		})
	}
	web.RespondOK(w, nil, &ListEventsResponse{Events: data})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEndpointNotFound):
		web.RespondNotFound(w, err, message.NotFound, nil)
	case errors.Is(err, ErrVersionMismatch):
		web.RespondPreconditionFailed(w, err, message.VersionMismatch, nil)
	case errors.Is(err, ErrDuplicateURL):
		web.RespondConflict(w, err, message.DuplicateEntry, nil)
	case errors.Is(err, ErrInvalidURL):
		web.RespondUnprocessableEntity(w, err, "The endpoint url is not allowed.", nil)
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
