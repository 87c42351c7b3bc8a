package outbox_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ferdiebergado/hrkit/internal/config"
	"github.com/ferdiebergado/hrkit/internal/model"
	"github.com/ferdiebergado/hrkit/internal/outbox"
	"github.com/ferdiebergado/hrkit/internal/pkg/security"
	"github.com/ferdiebergado/hrkit/internal/pkg/timex"
)

func dispatcherCfg() *config.Outbox {
	return &config.Outbox{
		PollInterval:   timex.Duration{Duration: time.Second},
		BatchSize:      10,
		Workers:        2,
		MaxAttempts:    5,
		RetryBase:      timex.Duration{Duration: 30 * time.Second},
		RetryFactor:    4,
		DeliverTimeout: timex.Duration{Duration: 5 * time.Second},
		RatePerSecond:  100,
		AllowPrivate:   true,
	}
}

func pendingEvent(id, kind string, attempts int) outbox.Event {
	return outbox.Event{
		ID:            id,
		Kind:          kind,
		Payload:       json.RawMessage(`{"entity":{"id":"e1"}}`),
		Status:        outbox.StatusPending,
		Attempts:      attempts,
		NextAttemptAt: time.Now(),
		CreatedAt:     time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC),
	}
}

func endpoint(url, secret string, events ...string) outbox.Endpoint {
	return outbox.Endpoint{
		Model:  model.Model{ID: "ep1", Version: 1},
		URL:    url,
		Secret: secret,
		Events: events,
		Active: true,
	}
}

func TestDispatcher_DeliversSignedEvents(t *testing.T) {
	t.Parallel()

	const secret = "topsecret"

	var mu sync.Mutex
	var gotBody []byte
	var gotHeaders http.Header
	receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotBody = body
		gotHeaders = r.Header.Clone()
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer receiver.Close()

	delivered := make(chan string, 1)
	store := &outbox.StubStore{
		ClaimDueFunc: func(_ context.Context, _ int, _ time.Duration) ([]outbox.Event, error) {
			return []outbox.Event{pendingEvent("ev1", "employees.created", 1)}, nil
		},
		MarkDeliveredFunc: func(_ context.Context, eventID string) error {
			delivered <- eventID
			return nil
		},
	}
	endpoints := &outbox.StubEndpointSource{
		ListActiveFunc: func(_ context.Context) ([]outbox.Endpoint, error) {
			return []outbox.Endpoint{endpoint(receiver.URL, secret, "employees.created")}, nil
		},
	}

	d := outbox.NewDispatcher(store, endpoints, receiver.Client(), dispatcherCfg())
	if err := d.DispatchDue(context.Background()); err != nil {
		t.Fatalf("d.DispatchDue() error = %v", err)
	}

	select {
	case eventID := <-delivered:
		if eventID != "ev1" {
			t.Errorf("delivered event = %q, want: %q", eventID, "ev1")
		}
	default:
		t.Fatal("MarkDelivered() was not called")
	}

	mu.Lock()
	defer mu.Unlock()

	if got := gotHeaders.Get("X-Event-Id"); got != "ev1" {
		t.Errorf("X-Event-Id = %q, want: %q", got, "ev1")
	}
	if got := gotHeaders.Get("X-Event-Kind"); got != "employees.created" {
		t.Errorf("X-Event-Kind = %q, want: %q", got, "employees.created")
	}
	if !security.VerifySignature(gotBody, secret, gotHeaders.Get("X-Signature")) {
		t.Error("X-Signature does not verify against the body")
	}

	var delivery outbox.Delivery
	if err := json.Unmarshal(gotBody, &delivery); err != nil {
		t.Fatalf("unmarshal delivery body: %v", err)
	}
	if delivery.ID != "ev1" || delivery.Kind != "employees.created" {
		t.Errorf("delivery = %+v, want id ev1 and kind employees.created", delivery)
	}
}

func TestDispatcher_SkipsUnsubscribedEndpoints(t *testing.T) {
	t.Parallel()

	receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("unsubscribed endpoint must not receive the event")
		w.WriteHeader(http.StatusOK)
	}))
	defer receiver.Close()

	delivered := false
	store := &outbox.StubStore{
		ClaimDueFunc: func(_ context.Context, _ int, _ time.Duration) ([]outbox.Event, error) {
			return []outbox.Event{pendingEvent("ev1", "employees.created", 1)}, nil
		},
		MarkDeliveredFunc: func(_ context.Context, _ string) error {
			delivered = true
			return nil
		},
	}
	endpoints := &outbox.StubEndpointSource{
		ListActiveFunc: func(_ context.Context) ([]outbox.Endpoint, error) {
			return []outbox.Endpoint{endpoint(receiver.URL, "s", "clients.deleted")}, nil
		},
	}

	d := outbox.NewDispatcher(store, endpoints, receiver.Client(), dispatcherCfg())
	if err := d.DispatchDue(context.Background()); err != nil {
		t.Fatalf("d.DispatchDue() error = %v", err)
	}

	// No subscriber means nothing to wait for; the event is done.
	if !delivered {
		t.Error("an event with no subscribers must still be marked delivered")
	}
}

func TestDispatcher_ReschedulesFailedDeliveries(t *testing.T) {
	t.Parallel()

	receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer receiver.Close()

	var rescheduled time.Duration
	store := &outbox.StubStore{
		ClaimDueFunc: func(_ context.Context, _ int, _ time.Duration) ([]outbox.Event, error) {
			return []outbox.Event{pendingEvent("ev1", "employees.created", 2)}, nil
		},
		RescheduleFunc: func(_ context.Context, eventID string, backoff time.Duration) error {
			if eventID != "ev1" {
				t.Errorf("rescheduled event = %q, want: %q", eventID, "ev1")
			}
			rescheduled = backoff
			return nil
		},
		MarkDeliveredFunc: func(_ context.Context, _ string) error {
			t.Error("MarkDelivered() must not run for a failed delivery")
			return nil
		},
	}
	endpoints := &outbox.StubEndpointSource{
		ListActiveFunc: func(_ context.Context) ([]outbox.Endpoint, error) {
			return []outbox.Endpoint{endpoint(receiver.URL, "s", "*")}, nil
		},
	}

	d := outbox.NewDispatcher(store, endpoints, receiver.Client(), dispatcherCfg())
	if err := d.DispatchDue(context.Background()); err != nil {
		t.Fatalf("d.DispatchDue() error = %v", err)
	}

	// Attempt 2 of base 30s, factor 4: 30s * 4^1.
	if want := 2 * time.Minute; rescheduled != want {
		t.Errorf("rescheduled backoff = %v, want: %v", rescheduled, want)
	}
}

func TestDispatcher_DeadsExhaustedEvents(t *testing.T) {
	t.Parallel()

	receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer receiver.Close()

	deaded := false
	store := &outbox.StubStore{
		ClaimDueFunc: func(_ context.Context, _ int, _ time.Duration) ([]outbox.Event, error) {
			return []outbox.Event{pendingEvent("ev1", "employees.created", 5)}, nil
		},
		MarkDeadFunc: func(_ context.Context, eventID string) error {
			if eventID != "ev1" {
				t.Errorf("deaded event = %q, want: %q", eventID, "ev1")
			}
			deaded = true
			return nil
		},
		RescheduleFunc: func(_ context.Context, _ string, _ time.Duration) error {
			t.Error("Reschedule() must not run once the attempt budget is spent")
			return nil
		},
	}
	endpoints := &outbox.StubEndpointSource{
		ListActiveFunc: func(_ context.Context) ([]outbox.Endpoint, error) {
			return []outbox.Endpoint{endpoint(receiver.URL, "s", "*")}, nil
		},
	}

	d := outbox.NewDispatcher(store, endpoints, receiver.Client(), dispatcherCfg())
	if err := d.DispatchDue(context.Background()); err != nil {
		t.Fatalf("d.DispatchDue() error = %v", err)
	}

	if !deaded {
		t.Error("MarkDead() was not called for the exhausted event")
	}
}

func TestDispatcher_PartialFailureKeepsEventPending(t *testing.T) {
	t.Parallel()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer bad.Close()

	rescheduled := false
	store := &outbox.StubStore{
		ClaimDueFunc: func(_ context.Context, _ int, _ time.Duration) ([]outbox.Event, error) {
			return []outbox.Event{pendingEvent("ev1", "clients.updated", 1)}, nil
		},
		RescheduleFunc: func(_ context.Context, _ string, _ time.Duration) error {
			rescheduled = true
			return nil
		},
		MarkDeliveredFunc: func(_ context.Context, _ string) error {
			t.Error("an event is delivered only when every subscriber accepted it")
			return nil
		},
	}
	endpoints := &outbox.StubEndpointSource{
		ListActiveFunc: func(_ context.Context) ([]outbox.Endpoint, error) {
			return []outbox.Endpoint{
				endpoint(good.URL, "s1", "*"),
				endpoint(bad.URL, "s2", "*"),
			}, nil
		},
	}

	d := outbox.NewDispatcher(store, endpoints, good.Client(), dispatcherCfg())
	if err := d.DispatchDue(context.Background()); err != nil {
		t.Fatalf("d.DispatchDue() error = %v", err)
	}

	if !rescheduled {
		t.Error("a partially failed event must be rescheduled")
	}
}
