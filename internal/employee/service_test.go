package employee_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ferdiebergado/hrkit/internal/employee"
	"github.com/ferdiebergado/hrkit/internal/model"
	"github.com/ferdiebergado/hrkit/internal/outbox"
	"github.com/ferdiebergado/hrkit/internal/platform/db"
	"github.com/jackc/pgx/v5/pgconn"
)

func noopRecorder() *outbox.StubRecorder {
	return &outbox.StubRecorder{
		RecordFunc: func(_ context.Context, _ string, _ any) error { return nil },
	}
}

func fixedBadges(badge string) *employee.StubBadgeSource {
	return &employee.StubBadgeSource{
		NextFunc: func(_ context.Context, _ string) (string, error) { return badge, nil },
	}
}

func strPtr(s string) *string { return &s }

func TestService_CreateEmployee(t *testing.T) {
	t.Parallel()

	var recordedKind string
	repo := &employee.StubRepo{
		CreateFunc: func(_ context.Context, params employee.CreateParams) (employee.Employee, error) {
			if params.BadgeID != "EMP-00042" {
				return employee.Employee{}, errors.New("badge not assigned before insert")
			}
			return employee.Employee{
				Model:     model.Model{ID: "e1", Version: 1},
				ClientID:  params.ClientID,
				BadgeID:   params.BadgeID,
				FirstName: params.FirstName,
				LastName:  params.LastName,
				Email:     params.Email,
				Active:    params.Active,
			}, nil
		},
		CostCenterClientFunc: func(_ context.Context, _ string) (string, error) {
			return "client-a", nil
		},
	}
	recorder := &outbox.StubRecorder{
		RecordFunc: func(_ context.Context, kind string, _ any) error {
			recordedKind = kind
			return nil
		},
	}

	svc := employee.NewService(repo, &db.StubTxManager{}, recorder, fixedBadges("EMP-00042"), 3)
	created, err := svc.CreateEmployee(context.Background(), employee.CreateParams{
		ClientID:     "client-a",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		CostCenterID: strPtr("cc1"),
		HiredAt:      "2026-01-15",
		Active:       true,
	})
	if err != nil {
		t.Fatalf("svc.CreateEmployee() error = %v", err)
	}

	if created.BadgeID != "EMP-00042" {
		t.Errorf("created.BadgeID = %q, want: %q", created.BadgeID, "EMP-00042")
	}
	if want := "employees.created"; recordedKind != want {
		t.Errorf("recordedKind = %q, want: %q", recordedKind, want)
	}
}

func TestService_CreateEmployee_ScopeViolation(t *testing.T) {
	t.Parallel()

	repo := &employee.StubRepo{
		CostCenterClientFunc: func(_ context.Context, _ string) (string, error) {
			return "client-b", nil
		},
		CreateFunc: func(_ context.Context, _ employee.CreateParams) (employee.Employee, error) {
			t.Error("Create() must not run on a scope violation")
			return employee.Employee{}, nil
		},
	}

	svc := employee.NewService(repo, &db.StubTxManager{}, noopRecorder(), fixedBadges("EMP-00001"), 3)
	_, err := svc.CreateEmployee(context.Background(), employee.CreateParams{
		ClientID:     "client-a",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		CostCenterID: strPtr("cc-of-other-client"),
		HiredAt:      "2026-01-15",
	})
	if !errors.Is(err, employee.ErrClientScope) {
		t.Fatalf("svc.CreateEmployee() error = %v, want: %v", err, employee.ErrClientScope)
	}
}

func TestService_CreateEmployee_RetriesTransientConflicts(t *testing.T) {
	t.Parallel()

	attempts := 0
	repo := &employee.StubRepo{
		CreateFunc: func(_ context.Context, params employee.CreateParams) (employee.Employee, error) {
			attempts++
			if attempts < 3 {
				return employee.Employee{}, fmt.Errorf("create employee: %w", &pgconn.PgError{Code: "40001"})
			}
			return employee.Employee{
				Model:    model.Model{ID: "e1", Version: 1},
				ClientID: params.ClientID,
				BadgeID:  params.BadgeID,
			}, nil
		},
	}

	svc := employee.NewService(repo, &db.StubTxManager{}, noopRecorder(), fixedBadges("EMP-00007"), 3)
	created, err := svc.CreateEmployee(context.Background(), employee.CreateParams{
		ClientID:  "client-a",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		HiredAt:   "2026-01-15",
	})
	if err != nil {
		t.Fatalf("svc.CreateEmployee() error = %v after retries", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want: 3", attempts)
	}
	if created.BadgeID != "EMP-00007" {
		t.Errorf("created.BadgeID = %q, want: %q", created.BadgeID, "EMP-00007")
	}
}

func TestService_CreateEmployee_RetryBudgetExhausted(t *testing.T) {
	t.Parallel()

	attempts := 0
	repo := &employee.StubRepo{
		CreateFunc: func(_ context.Context, _ employee.CreateParams) (employee.Employee, error) {
			attempts++
			return employee.Employee{}, fmt.Errorf("create employee: %w", &pgconn.PgError{Code: "40001"})
		},
	}

	svc := employee.NewService(repo, &db.StubTxManager{}, noopRecorder(), fixedBadges("EMP-00001"), 3)
	_, err := svc.CreateEmployee(context.Background(), employee.CreateParams{
		ClientID: "client-a",
		HiredAt:  "2026-01-15",
	})
	if err == nil {
		t.Fatal("svc.CreateEmployee() error = nil, want the conflict to surface")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want: 3", attempts)
	}
}

func TestService_UpdateEmployee_ClientIsImmutable(t *testing.T) {
	t.Parallel()

	repo := &employee.StubRepo{
		FindFunc: func(_ context.Context, employeeID string) (*employee.Employee, error) {
			return &employee.Employee{
				Model:    model.Model{ID: employeeID, Version: 1},
				ClientID: "client-a",
			}, nil
		},
		UpdateFunc: func(_ context.Context, _ employee.UpdateParams) (employee.Employee, error) {
			t.Error("Update() must not run when client_id changes")
			return employee.Employee{}, nil
		},
	}

	svc := employee.NewService(repo, &db.StubTxManager{}, noopRecorder(), fixedBadges("EMP-00001"), 3)
	_, err := svc.UpdateEmployee(context.Background(), employee.UpdateParams{
		ID:       "e1",
		Version:  1,
		ClientID: "client-b",
	})
	if !errors.Is(err, employee.ErrImmutableClient) {
		t.Fatalf("svc.UpdateEmployee() error = %v, want: %v", err, employee.ErrImmutableClient)
	}
}

func TestService_UpdateEmployee_ScopeCheckedAgainstExistingClient(t *testing.T) {
	t.Parallel()

	repo := &employee.StubRepo{
		FindFunc: func(_ context.Context, employeeID string) (*employee.Employee, error) {
			return &employee.Employee{
				Model:    model.Model{ID: employeeID, Version: 1},
				ClientID: "client-a",
			}, nil
		},
		LocationClientFunc: func(_ context.Context, _ string) (string, error) {
			return "client-b", nil
		},
	}

	svc := employee.NewService(repo, &db.StubTxManager{}, noopRecorder(), fixedBadges("EMP-00001"), 3)
	_, err := svc.UpdateEmployee(context.Background(), employee.UpdateParams{
		ID:         "e1",
		Version:    1,
		ClientID:   "client-a",
		LocationID: strPtr("loc-of-other-client"),
	})
	if !errors.Is(err, employee.ErrClientScope) {
		t.Fatalf("svc.UpdateEmployee() error = %v, want: %v", err, employee.ErrClientScope)
	}
}

func TestService_DeleteEmployee(t *testing.T) {
	t.Parallel()

	var recordedKind string
	repo := &employee.StubRepo{
		FindFunc: func(_ context.Context, employeeID string) (*employee.Employee, error) {
			return &employee.Employee{
				Model:    model.Model{ID: employeeID, Version: 4},
				ClientID: "client-a",
				BadgeID:  "EMP-00042",
			}, nil
		},
		DeleteFunc: func(_ context.Context, _ string, version int64) error {
			if version != 4 {
				return errors.New("version not forwarded")
			}
			return nil
		},
	}
	recorder := &outbox.StubRecorder{
		RecordFunc: func(_ context.Context, kind string, _ any) error {
			recordedKind = kind
			return nil
		},
	}

	svc := employee.NewService(repo, &db.StubTxManager{}, recorder, fixedBadges("EMP-00001"), 3)
	if err := svc.DeleteEmployee(context.Background(), "e1", 4); err != nil {
		t.Fatalf("svc.DeleteEmployee() error = %v", err)
	}
	if want := "employees.deleted"; recordedKind != want {
		t.Errorf("recordedKind = %q, want: %q", recordedKind, want)
	}
}
