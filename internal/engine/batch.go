package engine

import (
	"context"
	"fmt"

	"github.com/dukerupert/choreboard/internal/identity"
	"github.com/dukerupert/choreboard/internal/model"
)

// BatchResult is the full per-id accounting of a batch mutation. Partial
// failure is normal; a batch never aborts because one id is missing.
type BatchResult struct {
	SucceededIDs   []string `json:"succeeded_ids"`
	FailedIDs      []string `json:"failed_ids"`
	SucceededCount int      `json:"succeeded_count"`
	FailedCount    int      `json:"failed_count"`
}

func (r *BatchResult) succeed(id string) {
	r.SucceededIDs = append(r.SucceededIDs, id)
	r.SucceededCount++
}

func (r *BatchResult) fail(id string) {
	r.FailedIDs = append(r.FailedIDs, id)
	r.FailedCount++
}

type creditJob struct {
	def  model.ChoreDefinition
	inst model.ChoreInstance
}

// BatchSetComplete sets the completion flag on each listed instance.
// Completing moves an instance to the completed column; un-completing
// moves it to in-progress, never back to to-do. The reward ledger is
// credited once per false-to-true transition, after the batch has been
// persisted.
func (e *Engine) BatchSetComplete(ctx context.Context, ids []string, target bool) (BatchResult, error) {
	actor := identity.FromContext(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	defs, err := e.store.LoadDefinitions()
	if err != nil {
		return BatchResult{}, err
	}
	instances, err := e.store.LoadInstances()
	if err != nil {
		return BatchResult{}, err
	}

	defsByID := make(map[string]*model.ChoreDefinition, len(defs))
	for i := range defs {
		defsByID[defs[i].ID] = &defs[i]
	}

	var result BatchResult
	var credits []creditJob
	for _, id := range ids {
		idx := findInstance(instances, id)
		if idx < 0 {
			result.fail(id)
			continue
		}
		inst := &instances[idx]

		transition := target && !inst.Complete
		inst.Complete = target
		if target {
			inst.Category = model.CategoryCompleted
			inst.Activity = append(inst.Activity, newActivity(actor, "completed", ""))
		} else {
			inst.Category = model.CategoryInProgress
			inst.Activity = append(inst.Activity, newActivity(actor, "uncompleted", ""))
		}

		if transition {
			if def, ok := defsByID[inst.DefinitionID]; ok {
				credits = append(credits, creditJob{def: *def, inst: *inst})
			}
		}
		result.succeed(id)
	}

	if err := e.store.SaveInstances(instances); err != nil {
		return BatchResult{}, err
	}

	// Credits fire only after the completion state is durably persisted.
	for _, job := range credits {
		e.dispatchReward(ctx, &job.def, &job.inst)
	}
	return result, nil
}

// SetComplete is the single-item form of BatchSetComplete. It fails fast
// with ErrNotFound instead of reporting per-id.
func (e *Engine) SetComplete(ctx context.Context, id string, target bool) error {
	result, err := e.BatchSetComplete(ctx, []string{id}, target)
	if err != nil {
		return err
	}
	if result.FailedCount > 0 {
		return fmt.Errorf("instance %s: %w", id, ErrNotFound)
	}
	return nil
}

// BatchSetCategory moves each listed instance to the given kanban
// column. No completion side effects fire.
func (e *Engine) BatchSetCategory(ctx context.Context, ids []string, category model.CategoryStatus) (BatchResult, error) {
	if !category.Valid() {
		return BatchResult{}, fmt.Errorf("%w: unknown category %q", ErrInvalid, category)
	}
	actor := identity.FromContext(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	instances, err := e.store.LoadInstances()
	if err != nil {
		return BatchResult{}, err
	}

	var result BatchResult
	for _, id := range ids {
		idx := findInstance(instances, id)
		if idx < 0 {
			result.fail(id)
			continue
		}
		instances[idx].Category = category
		instances[idx].Activity = append(instances[idx].Activity,
			newActivity(actor, "category_changed", string(category)))
		result.succeed(id)
	}

	if err := e.store.SaveInstances(instances); err != nil {
		return BatchResult{}, err
	}
	return result, nil
}

// BatchAssignKid points each listed definition at a new assignee. A nil
// kidID clears the assignment.
func (e *Engine) BatchAssignKid(ctx context.Context, definitionIDs []string, kidID *string) (BatchResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	defs, err := e.store.LoadDefinitions()
	if err != nil {
		return BatchResult{}, err
	}

	var result BatchResult
	for _, id := range definitionIDs {
		idx := findDefinition(defs, id)
		if idx < 0 {
			result.fail(id)
			continue
		}
		defs[idx].AssignedKidID = kidID
		result.succeed(id)
	}

	if err := e.store.SaveDefinitions(defs); err != nil {
		return BatchResult{}, err
	}
	return result, nil
}
