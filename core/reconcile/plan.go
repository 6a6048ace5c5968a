package reconcile

import (
	"stock-reconciler/core/inventory"

	"github.com/shopspring/decimal"
)

// BuildPlan computes the actions a merge of invoice into inv would perform.
// It does NOT change inv; use ApplyPlan for that.
func (r *Reconciler) BuildPlan(inv inventory.Table, invoice inventory.InvoiceTable) *Plan {
	plan := &Plan{Actions: make([]Action, 0, len(invoice))}
	touched := make(map[string]struct{}, len(invoice))

	for _, key := range invoice.Keys() {
		delta := invoice[key]
		touched[key] = struct{}{}

		rec, exists := inv.Get(key)
		if !exists {
			after := r.defaults.NewRecord(delta)
			plan.Actions = append(plan.Actions, Action{
				Type:          ActionInsert,
				Key:           key,
				Before:        decimal.Zero,
				Delta:         delta,
				After:         after.Quantity,
				ReorderNeeded: after.NeedsReorder(),
			})
			plan.Summary.NewItems++
			continue
		}

		rec.Quantity = rec.Quantity.Add(delta)
		plan.Actions = append(plan.Actions, Action{
			Type:          ActionUpdate,
			Key:           key,
			Before:        rec.Quantity.Sub(delta),
			Delta:         delta,
			After:         rec.Quantity,
			ReorderNeeded: rec.NeedsReorder(),
		})
		plan.Summary.UpdatedItems++
	}

	plan.Summary.InvoiceLines = len(invoice)
	plan.Summary.TotalItems = inv.Len() + plan.Summary.NewItems

	// Untouched items keep their quantity but are still counted against their threshold.
	for _, action := range plan.Actions {
		if action.ReorderNeeded {
			plan.Summary.ReorderNeeded++
		}
	}
	for key, rec := range inv.Records {
		if _, ok := touched[key]; ok {
			continue
		}
		if rec.NeedsReorder() {
			plan.Summary.ReorderNeeded++
		}
	}

	return plan
}
