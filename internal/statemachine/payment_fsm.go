package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"
	"github.com/sjperalta/cobuy-api/internal/models"
)

// PaymentFSM wraps a monthly payment with its state machine
type PaymentFSM struct {
	payment *models.MonthlyPayment
	fsm     *fsm.FSM
}

// NewPaymentFSM creates a new payment state machine
func NewPaymentFSM(payment *models.MonthlyPayment) *PaymentFSM {
	pfsm := &PaymentFSM{
		payment: payment,
	}

	pfsm.fsm = fsm.NewFSM(
		string(payment.Status),
		fsm.Events{
			// pending → paid
			{Name: "pay", Src: []string{string(models.PaymentStatusPending)}, Dst: string(models.PaymentStatusPaid)},
		},
		fsm.Callbacks{
			"enter_" + string(models.PaymentStatusPaid): func(_ context.Context, e *fsm.Event) {
				if len(e.Args) > 0 {
					if at, ok := e.Args[0].(time.Time); ok {
						pfsm.payment.PaymentDate = &at
					}
				}
				if len(e.Args) > 1 {
					if method, ok := e.Args[1].(string); ok && method != "" {
						pfsm.payment.PaymentMethod = &method
					}
				}
			},
		},
	)

	return pfsm
}

// Pay records the payment as paid at the given time
func (p *PaymentFSM) Pay(ctx context.Context, at time.Time, method string) error {
	if !p.payment.MayPay() {
		return fmt.Errorf("payment cannot be paid in current state: %s", p.payment.Status)
	}

	if err := p.fsm.Event(ctx, "pay", at, method); err != nil {
		return fmt.Errorf("failed to pay payment: %w", err)
	}

	p.payment.Status = models.PaymentStatus(p.fsm.Current())
	return nil
}

// Current returns the current state
func (p *PaymentFSM) Current() string {
	return p.fsm.Current()
}

// Can checks if a transition is possible
func (p *PaymentFSM) Can(event string) bool {
	return p.fsm.Can(event)
}
