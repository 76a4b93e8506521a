package manager

import (
	"context"
	"fmt"

	"github.com/shamank/odoo-sdk-go/pkg/model"
)

// SubscriptionModel is the model holding subscriptions: sale orders with a
// recurring plan.
const SubscriptionModel = "sale.order"

// SubscriptionManager creates, reads and cancels subscriptions.
type SubscriptionManager struct {
	ex Executor
}

// NewSubscriptionManager returns a manager over ex.
func NewSubscriptionManager(ex Executor) *SubscriptionManager {
	return &SubscriptionManager{ex: ex}
}

// Create inserts a subscription order and returns its id.
func (m *SubscriptionManager) Create(ctx context.Context, d model.SubscriptionDraft) (int64, error) {
	if d.PartnerID <= 0 || d.PlanID <= 0 {
		return 0, fmt.Errorf("%w: subscription needs a partner and a plan", ErrInvalidDraft)
	}
	if len(d.Lines) == 0 {
		return 0, fmt.Errorf("%w: subscription needs at least one line", ErrInvalidDraft)
	}
	return create(ctx, m.ex, SubscriptionModel, d.Vals())
}

// Get reads one subscription.
func (m *SubscriptionManager) Get(ctx context.Context, id int64) (model.Subscription, error) {
	row, err := readOne(ctx, m.ex, SubscriptionModel, id, model.SubscriptionFields)
	if err != nil {
		return model.Subscription{}, err
	}
	return model.DecodeSubscription(row), nil
}

// ListForPartner returns the partner's recurring orders.
func (m *SubscriptionManager) ListForPartner(ctx context.Context, partnerID int64, q Query) ([]model.Subscription, error) {
	domain := model.Where("partner_id", "=", partnerID).And("plan_id", "!=", false)
	rows, err := searchRead(ctx, m.ex, SubscriptionModel, domain, model.SubscriptionFields, q)
	if err != nil {
		return nil, err
	}
	out := make([]model.Subscription, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.DecodeSubscription(row))
	}
	return out, nil
}

// Cancel cancels the subscription order.
func (m *SubscriptionManager) Cancel(ctx context.Context, id int64) error {
	return call(ctx, m.ex, SubscriptionModel, "action_cancel", id)
}
