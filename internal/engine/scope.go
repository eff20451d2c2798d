package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/dukerupert/choreboard/internal/identity"
	"github.com/dukerupert/choreboard/internal/model"
)

// Scope selects whether an edit applies to one occurrence or to the
// template plus all its future occurrences.
type Scope string

const (
	ScopeInstance Scope = "instance"
	ScopeSeries   Scope = "series"
)

// ScopedPatch carries the editable fields of a scoped edit. At least one
// field must be set.
type ScopedPatch struct {
	DueDate     *time.Time `json:"due_date,omitempty"`
	RewardCents *int64     `json:"reward_cents,omitempty"`
}

func (p ScopedPatch) validate() error {
	if p.DueDate == nil && p.RewardCents == nil {
		return fmt.Errorf("%w: patch is empty", ErrInvalid)
	}
	if p.RewardCents != nil && *p.RewardCents < 0 {
		return fmt.Errorf("%w: reward amount must not be negative", ErrInvalid)
	}
	return nil
}

// ApplyScopedEdit resolves "edit this occurrence only" versus "edit this
// and all future occurrences" for a recurring definition.
//
// Instance scope touches only the occurrence dated fromDate: a reward
// patch becomes its override, a date patch moves it (the instance keeps
// its id). Series scope updates the definition, deletes every instance
// of the definition dated fromDate or later, and leaves earlier
// instances untouched; a subsequent Reconcile over the forward period
// repopulates the deleted range from the updated definition.
func (e *Engine) ApplyScopedEdit(ctx context.Context, definitionID string, patch ScopedPatch, fromDate time.Time, scope Scope) error {
	if err := patch.validate(); err != nil {
		return err
	}
	if scope != ScopeInstance && scope != ScopeSeries {
		return fmt.Errorf("%w: unknown scope %q", ErrInvalid, scope)
	}
	fromDate = model.DateOnly(fromDate)
	actor := identity.FromContext(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	defs, err := e.store.LoadDefinitions()
	if err != nil {
		return err
	}
	instances, err := e.store.LoadInstances()
	if err != nil {
		return err
	}

	idx := findDefinition(defs, definitionID)
	if idx < 0 {
		return fmt.Errorf("definition %s: %w", definitionID, ErrNotFound)
	}
	def := &defs[idx]

	if scope == ScopeInstance {
		target := -1
		for i := range instances {
			if instances[i].DefinitionID == definitionID && model.DateOnly(instances[i].Date).Equal(fromDate) {
				target = i
				break
			}
		}
		if target < 0 {
			return fmt.Errorf("instance of %s on %s: %w", definitionID, fromDate.Format("2006-01-02"), ErrNotFound)
		}
		inst := &instances[target]
		if patch.RewardCents != nil {
			inst.OverriddenRewardCents = patch.RewardCents
			inst.Activity = append(inst.Activity, newActivity(actor, "reward_overridden",
				fmt.Sprintf("%d cents", *patch.RewardCents)))
		}
		if patch.DueDate != nil {
			moved := model.DateOnly(*patch.DueDate)
			inst.Activity = append(inst.Activity, newActivity(actor, "moved",
				fmt.Sprintf("%s to %s", inst.Date.Format("2006-01-02"), moved.Format("2006-01-02"))))
			inst.Date = moved
		}
		return e.store.SaveInstances(instances)
	}

	// Series scope: the definition changes, future occurrences are
	// rebuilt from it, history before fromDate stays as it happened.
	if patch.DueDate != nil {
		def.DueDate = model.DateOnly(*patch.DueDate)
	}
	if patch.RewardCents != nil {
		def.RewardCents = patch.RewardCents
	}
	def.UpdatedAt = time.Now().UTC()

	kept := instances[:0]
	for _, inst := range instances {
		if inst.DefinitionID == definitionID && !model.DateOnly(inst.Date).Before(fromDate) {
			continue
		}
		kept = append(kept, inst)
	}

	return e.store.SaveDefinitionsAndInstances(defs, kept)
}
