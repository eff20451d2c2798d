package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/choreboard/internal/database"
	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/recurrence"
	"github.com/dukerupert/choreboard/internal/store"
)

type credit struct {
	kidID  string
	amount int64
	label  string
}

// recordingLedger captures every credit call for assertions.
type recordingLedger struct {
	mu      sync.Mutex
	credits []credit
	err     error
}

func (l *recordingLedger) CreditReward(ctx context.Context, kidID string, amountCents int64, label string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.credits = append(l.credits, credit{kidID: kidID, amount: amountCents, label: label})
	return nil
}

func (l *recordingLedger) all() []credit {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]credit(nil), l.credits...)
}

func setupEngine(t *testing.T) (*Engine, *store.ChoreStore, *recordingLedger) {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewChoreStore(store.NewKVStore(db), logger)
	led := &recordingLedger{}
	return New(st, led, logger), st, led
}

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }

func mustCreate(t *testing.T, e *Engine, in DefinitionInput) *model.ChoreDefinition {
	t.Helper()
	def, err := e.CreateDefinition(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateDefinition: %v", err)
	}
	return def
}

func dailyInput(due time.Time) DefinitionInput {
	return DefinitionInput{
		Title:      "Feed the cat",
		DueDate:    due,
		Recurrence: recurrence.Rule{Kind: recurrence.Daily},
	}
}

func TestCreateDefinitionValidation(t *testing.T) {
	e, _, _ := setupEngine(t)
	ctx := context.Background()

	end := d(2024, 3, 1)
	tests := []struct {
		name string
		in   DefinitionInput
	}{
		{"missing title", DefinitionInput{DueDate: d(2024, 3, 1)}},
		{"blank title", DefinitionInput{Title: "   ", DueDate: d(2024, 3, 1)}},
		{"missing due date", DefinitionInput{Title: "Dishes"}},
		{"negative reward", DefinitionInput{Title: "Dishes", DueDate: d(2024, 3, 1), RewardCents: int64Ptr(-50)}},
		{"bad recurrence", DefinitionInput{Title: "Dishes", DueDate: d(2024, 3, 1), Recurrence: recurrence.Rule{Kind: recurrence.Monthly}}},
		{"end before start", DefinitionInput{
			Title:         "Dishes",
			DueDate:       d(2024, 3, 10),
			Recurrence:    recurrence.Rule{Kind: recurrence.Daily},
			RecurrenceEnd: &end,
		}},
	}

	for _, tt := range tests {
		_, err := e.CreateDefinition(ctx, tt.in)
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: error = %v, want ErrInvalid", tt.name, err)
		}
	}
}

func TestCreateAndGetDefinition(t *testing.T) {
	e, _, _ := setupEngine(t)
	ctx := context.Background()

	created := mustCreate(t, e, DefinitionInput{
		Title:       "  Take out trash  ",
		Description: "Bins to the curb",
		DueDate:     time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
		RewardCents: int64Ptr(150),
		Recurrence:  recurrence.Rule{Kind: recurrence.Weekly, Weekday: time.Tuesday},
		Tags:        []string{"outside"},
		SubTasks:    []model.SubTask{{Title: "Recycling"}},
	})

	if created.ID == "" {
		t.Error("created definition has empty id")
	}
	if !created.Active {
		t.Error("created definition should be active")
	}
	if created.Title != "Take out trash" {
		t.Errorf("Title = %q, want trimmed", created.Title)
	}
	if !created.DueDate.Equal(d(2024, 3, 5)) {
		t.Errorf("DueDate = %v, want midnight UTC", created.DueDate)
	}
	if created.SubTasks[0].ID == "" {
		t.Error("subtask was not assigned an id")
	}

	got, err := e.GetDefinition(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetDefinition: %v", err)
	}
	if got.Title != created.Title || *got.RewardCents != 150 {
		t.Errorf("GetDefinition returned %+v", got)
	}

	if _, err := e.GetDefinition(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetDefinition(nope) error = %v, want ErrNotFound", err)
	}
}

func TestUpdateDefinition(t *testing.T) {
	e, _, _ := setupEngine(t)
	ctx := context.Background()

	def := mustCreate(t, e, dailyInput(d(2024, 3, 1)))

	in := dailyInput(d(2024, 3, 2))
	in.Title = "Feed the dog"
	in.RewardCents = int64Ptr(25)

	updated, err := e.UpdateDefinition(ctx, def.ID, in)
	if err != nil {
		t.Fatalf("UpdateDefinition: %v", err)
	}
	if updated.Title != "Feed the dog" || *updated.RewardCents != 25 {
		t.Errorf("updated definition = %+v", updated)
	}
	if !updated.DueDate.Equal(d(2024, 3, 2)) {
		t.Errorf("DueDate = %v, want 2024-03-02", updated.DueDate)
	}

	if _, err := e.UpdateDefinition(ctx, "nope", in); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateDefinition(nope) error = %v, want ErrNotFound", err)
	}
}

func TestDeactivateDefinition(t *testing.T) {
	e, _, _ := setupEngine(t)
	ctx := context.Background()

	def := mustCreate(t, e, dailyInput(d(2024, 3, 1)))
	if err := e.DeactivateDefinition(ctx, def.ID); err != nil {
		t.Fatalf("DeactivateDefinition: %v", err)
	}

	got, err := e.GetDefinition(ctx, def.ID)
	if err != nil {
		t.Fatalf("GetDefinition after deactivate: %v", err)
	}
	if got.Active {
		t.Error("definition should be inactive")
	}

	instances, err := e.Reconcile(ctx, d(2024, 3, 1), d(2024, 3, 5), "")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(instances) != 0 {
		t.Errorf("reconcile produced %d instances for inactive definition", len(instances))
	}

	if err := e.DeactivateDefinition(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeactivateDefinition(nope) error = %v, want ErrNotFound", err)
	}
}

func TestListInstancesFiltersDanglingReferences(t *testing.T) {
	e, st, _ := setupEngine(t)
	ctx := context.Background()

	def := mustCreate(t, e, dailyInput(d(2024, 3, 1)))
	if _, err := e.Reconcile(ctx, d(2024, 3, 1), d(2024, 3, 2), ""); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	// Inject an orphan directly; definitions are never hard-deleted
	// through the engine, but old data may contain them.
	instances, err := st.LoadInstances()
	if err != nil {
		t.Fatalf("LoadInstances: %v", err)
	}
	instances = append(instances, model.ChoreInstance{
		ID:           "ghost_2024-03-01",
		DefinitionID: "ghost",
		Date:         d(2024, 3, 1),
	})
	if err := st.SaveInstances(instances); err != nil {
		t.Fatalf("SaveInstances: %v", err)
	}

	listed, err := e.ListInstances(ctx)
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("ListInstances returned %d instances, want 2", len(listed))
	}
	for _, inst := range listed {
		if inst.DefinitionID != def.ID {
			t.Errorf("unexpected instance %s for definition %s", inst.ID, inst.DefinitionID)
		}
	}
}
