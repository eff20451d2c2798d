package engine

import (
	"context"
	"sort"
	"time"

	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/recurrence"
)

// Reconcile expands every active definition over [rangeStart, rangeEnd]
// and merges the result with the stored instance set, then persists the
// merged set. The merge never overwrites state on an instance that
// already exists, and re-running it with the same arguments is a no-op.
func (e *Engine) Reconcile(ctx context.Context, rangeStart, rangeEnd time.Time, defaultCategory model.CategoryStatus) ([]model.ChoreInstance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	defs, err := e.store.LoadDefinitions()
	if err != nil {
		return nil, err
	}
	existing, err := e.store.LoadInstances()
	if err != nil {
		return nil, err
	}

	merged := reconcile(defs, existing, rangeStart, rangeEnd, defaultCategory)
	if err := e.store.SaveInstances(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// reconcile is the pure merge core behind Reconcile.
//
// Preservation rules, in order:
//   - instances of missing or inactive definitions are kept untouched
//   - instances dated outside [rangeStart, rangeEnd] are kept untouched
//   - instances explicitly moved off their deterministic date are kept
//   - instances dated before the definition's due date are kept; they
//     are history from before a series split moved the start forward
//   - in-range instances whose date is no longer in the definition's
//     occurrence set are dropped as stale
//   - everything else is kept exactly as stored
//
// Dates in the occurrence set with no surviving instance id get a fresh
// instance in defaultCategory (TO_DO when empty).
func reconcile(defs []model.ChoreDefinition, existing []model.ChoreInstance, rangeStart, rangeEnd time.Time, defaultCategory model.CategoryStatus) []model.ChoreInstance {
	rangeStart = model.DateOnly(rangeStart)
	rangeEnd = model.DateOnly(rangeEnd)
	if defaultCategory == "" {
		defaultCategory = model.CategoryToDo
	}

	defsByID := make(map[string]*model.ChoreDefinition, len(defs))
	for i := range defs {
		defsByID[defs[i].ID] = &defs[i]
	}

	// Occurrence dates per active definition.
	wanted := make(map[string]map[string]time.Time) // def id -> date key -> date
	for i := range defs {
		def := &defs[i]
		if !def.Active {
			continue
		}
		dates := recurrence.Dates(def.Recurrence, def.DueDate, def.RecurrenceEnd, def.EarlyStart, rangeStart, rangeEnd)
		byKey := make(map[string]time.Time, len(dates))
		for _, d := range dates {
			byKey[d.Format("2006-01-02")] = d
		}
		wanted[def.ID] = byKey
	}

	seen := make(map[string]bool, len(existing))
	var merged []model.ChoreInstance
	for _, inst := range existing {
		inst.Date = model.DateOnly(inst.Date)
		seen[inst.ID] = true

		def, ok := defsByID[inst.DefinitionID]
		if !ok || !def.Active {
			merged = append(merged, inst)
			continue
		}
		if inst.Date.Before(rangeStart) || inst.Date.After(rangeEnd) {
			merged = append(merged, inst)
			continue
		}
		if inst.ID != model.InstanceID(inst.DefinitionID, inst.Date) {
			// Explicitly moved occurrence; the user chose this date.
			merged = append(merged, inst)
			continue
		}
		if _, want := wanted[inst.DefinitionID][inst.Date.Format("2006-01-02")]; want {
			merged = append(merged, inst)
			continue
		}
		if inst.Date.Before(model.DateOnly(def.DueDate)) {
			// Pre-series history, left behind by a series split.
			merged = append(merged, inst)
			continue
		}
		// Stale in-range occurrence, e.g. after a shortened series.
	}

	for i := range defs {
		def := &defs[i]
		for _, d := range wanted[def.ID] {
			id := model.InstanceID(def.ID, d)
			if seen[id] {
				continue
			}
			seen[id] = true
			merged = append(merged, model.ChoreInstance{
				ID:           id,
				DefinitionID: def.ID,
				Date:         d,
				Complete:     false,
				Category:     defaultCategory,
				SubTaskDone:  map[string]bool{},
			})
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].Date.Equal(merged[j].Date) {
			return merged[i].Date.Before(merged[j].Date)
		}
		return merged[i].ID < merged[j].ID
	})
	return merged
}
