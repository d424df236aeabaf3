package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/sjperalta/cobuy-api/internal/models"
)

// PlanFSM wraps an installment plan with its state machine
type PlanFSM struct {
	plan *models.InstallmentPlan
	fsm  *fsm.FSM
}

// NewPlanFSM creates a new plan state machine
func NewPlanFSM(plan *models.InstallmentPlan) *PlanFSM {
	pfsm := &PlanFSM{
		plan: plan,
	}

	active := []string{string(models.PlanStatusActive)}
	pfsm.fsm = fsm.NewFSM(
		string(plan.Status),
		fsm.Events{
			// active → completed
			{Name: "complete", Src: active, Dst: string(models.PlanStatusCompleted)},

			// active → cancelled
			{Name: "cancel", Src: active, Dst: string(models.PlanStatusCancelled)},
		},
		fsm.Callbacks{},
	)

	return pfsm
}

// Complete transitions the plan to completed state
func (p *PlanFSM) Complete(ctx context.Context) error {
	return p.transition(ctx, "complete")
}

// Cancel transitions the plan to cancelled state
func (p *PlanFSM) Cancel(ctx context.Context) error {
	return p.transition(ctx, "cancel")
}

func (p *PlanFSM) transition(ctx context.Context, event string) error {
	if !p.plan.IsActive() {
		return fmt.Errorf("plan cannot %s in current state: %s", event, p.plan.Status)
	}

	if err := p.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("failed to %s plan: %w", event, err)
	}

	p.plan.Status = models.PlanStatus(p.fsm.Current())
	return nil
}

// Current returns the current state
func (p *PlanFSM) Current() string {
	return p.fsm.Current()
}

// Can checks if a transition is possible
func (p *PlanFSM) Can(event string) bool {
	return p.fsm.Can(event)
}
