package engine

import (
	"context"
	"fmt"

	"github.com/dukerupert/choreboard/internal/model"
)

// dispatchReward credits the assigned kid for a verified completion
// transition. The instance override beats the definition amount. No
// credit is issued for zero/absent rewards or unassigned definitions.
// A ledger failure is logged and never rolls back the completion.
func (e *Engine) dispatchReward(ctx context.Context, def *model.ChoreDefinition, inst *model.ChoreInstance) {
	amount := inst.EffectiveRewardCents(def)
	if amount == nil || *amount <= 0 {
		return
	}
	if def.AssignedKidID == nil {
		return
	}

	label := fmt.Sprintf("%s (%s)", def.Title, inst.Date.Format("2006-01-02"))
	if err := e.ledger.CreditReward(ctx, *def.AssignedKidID, *amount, label); err != nil {
		e.logger.Error("credit reward",
			"instance_id", inst.ID,
			"kid_id", *def.AssignedKidID,
			"amount_cents", *amount,
			"error", err,
		)
	}
}
