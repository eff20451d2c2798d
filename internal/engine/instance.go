package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/choreboard/internal/identity"
	"github.com/dukerupert/choreboard/internal/model"
)

// mutateInstance runs fn against the named instance under the engine
// lock and persists the collection. Shared by the single-field edits.
func (e *Engine) mutateInstance(ctx context.Context, id string, fn func(inst *model.ChoreInstance, actor identity.Actor)) error {
	actor := identity.FromContext(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	instances, err := e.store.LoadInstances()
	if err != nil {
		return err
	}

	idx := findInstance(instances, id)
	if idx < 0 {
		return fmt.Errorf("instance %s: %w", id, ErrNotFound)
	}
	fn(&instances[idx], actor)

	return e.store.SaveInstances(instances)
}

// AddComment appends a comment to an instance. Comments are append-only
// and are never edited or removed.
func (e *Engine) AddComment(ctx context.Context, instanceID, text string) (*model.Comment, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrInvalid)
	}

	var comment model.Comment
	err := e.mutateInstance(ctx, instanceID, func(inst *model.ChoreInstance, actor identity.Actor) {
		comment = model.Comment{
			ID:         uuid.NewString(),
			AuthorID:   actor.ID,
			AuthorName: actor.Name,
			Text:       text,
			CreatedAt:  time.Now().UTC(),
		}
		inst.Comments = append(inst.Comments, comment)
		inst.Activity = append(inst.Activity, newActivity(actor, "comment_added", ""))
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// SetSubTaskDone flips one subtask's completion flag on an instance.
func (e *Engine) SetSubTaskDone(ctx context.Context, instanceID, subTaskID string, done bool) error {
	return e.mutateInstance(ctx, instanceID, func(inst *model.ChoreInstance, actor identity.Actor) {
		if inst.SubTaskDone == nil {
			inst.SubTaskDone = map[string]bool{}
		}
		inst.SubTaskDone[subTaskID] = done
		inst.Activity = append(inst.Activity, newActivity(actor, "subtask_toggled",
			subTaskID+"="+strconv.FormatBool(done)))
	})
}

// SetSkipped marks an occurrence as skipped for the day without
// completing it.
func (e *Engine) SetSkipped(ctx context.Context, instanceID string, skipped bool) error {
	return e.mutateInstance(ctx, instanceID, func(inst *model.ChoreInstance, actor identity.Actor) {
		inst.Skipped = skipped
		inst.Activity = append(inst.Activity, newActivity(actor, "skipped_set",
			strconv.FormatBool(skipped)))
	})
}

// SetDescriptionOverride sets or clears (nil) the instance-level
// description override.
func (e *Engine) SetDescriptionOverride(ctx context.Context, instanceID string, description *string) error {
	return e.mutateInstance(ctx, instanceID, func(inst *model.ChoreInstance, actor identity.Actor) {
		inst.DescriptionOverride = description
		inst.Activity = append(inst.Activity, newActivity(actor, "description_overridden", ""))
	})
}
