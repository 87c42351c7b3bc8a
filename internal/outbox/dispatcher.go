package outbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/ferdiebergado/hrkit/internal/config"
	"github.com/ferdiebergado/hrkit/internal/pkg/security"
	"github.com/ferdiebergado/hrkit/internal/pkg/web"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	HeaderEventID   = "X-Event-Id"
	HeaderEventKind = "X-Event-Kind"
	HeaderSignature = "X-Signature"
)

// DispatcherStore is the slice of the outbox repository the dispatcher needs.
type DispatcherStore interface {
	ClaimDue(ctx context.Context, limit int, lease time.Duration) ([]Event, error)
	MarkDelivered(ctx context.Context, eventID string) error
	Reschedule(ctx context.Context, eventID string, backoff time.Duration) error
	MarkDead(ctx context.Context, eventID string) error
}

// EndpointSource lists the endpoints eligible for delivery.
type EndpointSource interface {
	ListActive(ctx context.Context) ([]Endpoint, error)
}

// Dispatcher drains the outbox: it claims due events, POSTs each to every
// subscribed endpoint with an HMAC signature, and reschedules or deads the
// ones that fail. Delivery is at-least-once; receivers dedupe on X-Event-Id.
type Dispatcher struct {
	store     DispatcherStore
	endpoints EndpointSource
	client    *http.Client
	limiter   *rate.Limiter
	cfg       *config.Outbox
}

// NewDispatcher wires a dispatcher. A nil client gets the default delivery
// client, whose dialer refuses private addresses unless the config allows
// them.
func NewDispatcher(store DispatcherStore, endpoints EndpointSource, client *http.Client, cfg *config.Outbox) *Dispatcher {
	if client == nil {
		dialer := &net.Dialer{
			Timeout: cfg.DeliverTimeout.Duration,
			Control: security.SafeDialControl(cfg.AllowPrivate),
		}
		client = &http.Client{
			Timeout: cfg.DeliverTimeout.Duration,
			Transport: &http.Transport{
				Proxy:       http.ProxyFromEnvironment,
				DialContext: dialer.DialContext,
			},
		}
	}

	return &Dispatcher{
		store:     store,
		endpoints: endpoints,
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Workers),
		cfg:       cfg,
	}
}

// Run polls the outbox until the context is canceled.
func (d *Dispatcher) Run(ctx context.Context) error {
	slog.Info("Outbox dispatcher started.",
		"poll_interval", d.cfg.PollInterval.Duration,
		"batch_size", d.cfg.BatchSize,
		"workers", d.cfg.Workers,
	)

	ticker := time.NewTicker(d.cfg.PollInterval.Duration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox dispatcher stopped.")
			return nil
		case <-ticker.C:
			if err := d.DispatchDue(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("outbox dispatch round failed", "reason", err)
			}
		}
	}
}

// DispatchDue runs one dispatch round. Exported so tests and ops tooling can
// drive the dispatcher without the polling loop.
func (d *Dispatcher) DispatchDue(ctx context.Context) error {
	// The claim lease covers the worst-case backoff so a crashed worker's
	// events come due again on their own.
	lease := d.backoffFor(d.cfg.MaxAttempts)
	events, err := d.store.ClaimDue(ctx, d.cfg.BatchSize, lease)
	if err != nil {
		return fmt.Errorf("claim due events: %w", err)
	}

	if len(events) == 0 {
		return nil
	}

	endpoints, err := d.endpoints.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active endpoints: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Workers)
	for _, ev := range events {
		g.Go(func() error {
			d.deliverEvent(gctx, ev, endpoints)
			return nil
		})
	}

	return g.Wait()
}

func (d *Dispatcher) deliverEvent(ctx context.Context, ev Event, endpoints []Endpoint) {
	body, err := json.Marshal(&Delivery{
		ID:         ev.ID,
		Kind:       ev.Kind,
		OccurredAt: ev.CreatedAt,
		Data:       ev.Payload,
	})
	if err != nil {
		slog.Error("marshal delivery", "event_id", ev.ID, "reason", err)
		d.fail(ctx, ev)
		return
	}

	delivered := true
	for _, ep := range endpoints {
		if !ep.Subscribed(ev.Kind) {
			continue
		}
		if err := d.send(ctx, &ep, ev, body); err != nil {
			slog.Warn("webhook delivery failed",
				"event_id", ev.ID,
				"kind", ev.Kind,
				"endpoint_id", ep.ID,
				"attempt", ev.Attempts,
				"reason", err,
			)
			delivered = false
		}
	}

	if !delivered {
		d.fail(ctx, ev)
		return
	}

	if err := d.store.MarkDelivered(ctx, ev.ID); err != nil {
		// The event stays claimed and will be re-delivered after the lease.
		slog.Error("mark event delivered", "event_id", ev.ID, "reason", err)
		return
	}

	slog.Info("event delivered", "event_id", ev.ID, "kind", ev.Kind, "attempt", ev.Attempts)
}

func (d *Dispatcher) send(ctx context.Context, ep *Endpoint, ev Event, body []byte) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build delivery request: %w", err)
	}

	req.Header.Set(web.HeaderContentType, web.MimeJSON)
	req.Header.Set(HeaderEventID, ev.ID)
	req.Header.Set(HeaderEventKind, ev.Kind)
	req.Header.Set(HeaderSignature, security.SignPayload(body, ep.Secret))

	res, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	defer res.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("endpoint responded with status %d", res.StatusCode)
	}

	return nil
}

func (d *Dispatcher) fail(ctx context.Context, ev Event) {
	if ev.Attempts >= d.cfg.MaxAttempts {
		if err := d.store.MarkDead(ctx, ev.ID); err != nil {
			slog.Error("mark event dead", "event_id", ev.ID, "reason", err)
		}
		slog.Warn("event exhausted its attempts", "event_id", ev.ID, "kind", ev.Kind, "attempts", ev.Attempts)
		return
	}

	backoff := d.backoffFor(ev.Attempts)
	if err := d.store.Reschedule(ctx, ev.ID, backoff); err != nil {
		slog.Error("reschedule event", "event_id", ev.ID, "reason", err)
		return
	}
}

// backoffFor returns the delay before the attempt after the given one:
// base * factor^(attempts-1).
func (d *Dispatcher) backoffFor(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	mult := math.Pow(float64(d.cfg.RetryFactor), float64(attempts-1))
	return time.Duration(float64(d.cfg.RetryBase.Duration) * mult)
}
