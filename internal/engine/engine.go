package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/choreboard/internal/identity"
	"github.com/dukerupert/choreboard/internal/ledger"
	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/recurrence"
	"github.com/dukerupert/choreboard/internal/store"
)

// ErrNotFound is returned by single-item operations when the referenced
// definition or instance does not exist. Batch operations report the
// same condition per-id instead of returning it.
var ErrNotFound = errors.New("not found")

// ErrInvalid wraps input validation failures so callers can map them to
// a client error instead of a server fault.
var ErrInvalid = errors.New("invalid input")

// Engine owns the chore definition and instance collections. Every
// mutating operation takes the engine lock, reads the full current
// collection, computes the new one, and persists it as a unit before
// releasing the lock, so the engine is a single-writer serialization
// point for the whole store.
type Engine struct {
	mu     sync.Mutex
	store  *store.ChoreStore
	ledger ledger.Ledger
	logger *slog.Logger
}

func New(st *store.ChoreStore, lg ledger.Ledger, logger *slog.Logger) *Engine {
	if lg == nil {
		lg = ledger.Nop{}
	}
	return &Engine{store: st, ledger: lg, logger: logger}
}

// DefinitionInput carries the caller-settable fields of a definition.
type DefinitionInput struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	AssignedKidID *string         `json:"assigned_kid_id"`
	DueDate       time.Time       `json:"due_date"`
	RewardCents   *int64          `json:"reward_cents"`
	Recurrence    recurrence.Rule `json:"recurrence"`
	RecurrenceEnd *time.Time      `json:"recurrence_end"`
	EarlyStart    *time.Time      `json:"early_start"`
	Tags          []string        `json:"tags"`
	SubTasks      []model.SubTask `json:"sub_tasks"`
}

func (in *DefinitionInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if in.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", ErrInvalid)
	}
	if in.RewardCents != nil && *in.RewardCents < 0 {
		return fmt.Errorf("%w: reward amount must not be negative", ErrInvalid)
	}
	if err := in.Recurrence.Validate(); err != nil {
		return fmt.Errorf("%w: recurrence: %v", ErrInvalid, err)
	}
	if in.Recurrence.IsRecurring() && in.RecurrenceEnd != nil {
		if model.DateOnly(*in.RecurrenceEnd).Before(model.DateOnly(in.DueDate)) {
			return fmt.Errorf("%w: recurrence end %s is before start %s", ErrInvalid,
				in.RecurrenceEnd.Format("2006-01-02"), in.DueDate.Format("2006-01-02"))
		}
	}
	return nil
}

func (in *DefinitionInput) apply(def *model.ChoreDefinition) {
	def.Title = strings.TrimSpace(in.Title)
	def.Description = in.Description
	def.AssignedKidID = in.AssignedKidID
	def.DueDate = model.DateOnly(in.DueDate)
	def.RewardCents = in.RewardCents
	def.Recurrence = in.Recurrence
	def.RecurrenceEnd = normalizeDatePtr(in.RecurrenceEnd)
	def.EarlyStart = normalizeDatePtr(in.EarlyStart)
	def.Tags = in.Tags
	def.SubTasks = in.SubTasks
	for i := range def.SubTasks {
		if def.SubTasks[i].ID == "" {
			def.SubTasks[i].ID = uuid.NewString()
		}
	}
}

// CreateDefinition validates and stores a new chore template.
func (e *Engine) CreateDefinition(ctx context.Context, in DefinitionInput) (*model.ChoreDefinition, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	defs, err := e.store.LoadDefinitions()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	def := model.ChoreDefinition{
		ID:        uuid.NewString(),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(&def)

	defs = append(defs, def)
	if err := e.store.SaveDefinitions(defs); err != nil {
		return nil, err
	}
	return &def, nil
}

// UpdateDefinition replaces the caller-settable fields of a definition.
// A recurrence change applied here is an unscoped full-series edit: the
// next reconciliation regenerates from the updated rule and drops stale
// in-range dates. Use ApplyScopedEdit to split a series at a date.
func (e *Engine) UpdateDefinition(ctx context.Context, id string, in DefinitionInput) (*model.ChoreDefinition, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	defs, err := e.store.LoadDefinitions()
	if err != nil {
		return nil, err
	}

	idx := findDefinition(defs, id)
	if idx < 0 {
		return nil, fmt.Errorf("definition %s: %w", id, ErrNotFound)
	}

	in.apply(&defs[idx])
	defs[idx].UpdatedAt = time.Now().UTC()

	if err := e.store.SaveDefinitions(defs); err != nil {
		return nil, err
	}
	return &defs[idx], nil
}

// DeactivateDefinition soft-deletes a definition. Its instances remain
// for history; reconciliation stops producing new ones.
func (e *Engine) DeactivateDefinition(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	defs, err := e.store.LoadDefinitions()
	if err != nil {
		return err
	}

	idx := findDefinition(defs, id)
	if idx < 0 {
		return fmt.Errorf("definition %s: %w", id, ErrNotFound)
	}

	defs[idx].Active = false
	defs[idx].UpdatedAt = time.Now().UTC()

	return e.store.SaveDefinitions(defs)
}

// GetDefinition returns a definition by id, or ErrNotFound.
func (e *Engine) GetDefinition(ctx context.Context, id string) (*model.ChoreDefinition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	defs, err := e.store.LoadDefinitions()
	if err != nil {
		return nil, err
	}
	idx := findDefinition(defs, id)
	if idx < 0 {
		return nil, fmt.Errorf("definition %s: %w", id, ErrNotFound)
	}
	def := defs[idx]
	return &def, nil
}

// ListDefinitions returns all definitions, active and inactive.
func (e *Engine) ListDefinitions(ctx context.Context) ([]model.ChoreDefinition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.LoadDefinitions()
}

// ListInstances returns all instances whose definition still exists.
// Instances with a dangling definition reference are filtered, not
// surfaced as errors.
func (e *Engine) ListInstances(ctx context.Context) ([]model.ChoreInstance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	defs, err := e.store.LoadDefinitions()
	if err != nil {
		return nil, err
	}
	instances, err := e.store.LoadInstances()
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(defs))
	for _, d := range defs {
		known[d.ID] = true
	}

	var out []model.ChoreInstance
	for _, inst := range instances {
		if known[inst.DefinitionID] {
			out = append(out, inst)
		}
	}
	return out, nil
}

func findDefinition(defs []model.ChoreDefinition, id string) int {
	for i := range defs {
		if defs[i].ID == id {
			return i
		}
	}
	return -1
}

func findInstance(instances []model.ChoreInstance, id string) int {
	for i := range instances {
		if instances[i].ID == id {
			return i
		}
	}
	return -1
}

func normalizeDatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := model.DateOnly(*t)
	return &d
}

func newActivity(actor identity.Actor, action, detail string) model.ActivityLogEntry {
	return model.ActivityLogEntry{
		ID:        uuid.NewString(),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
}
