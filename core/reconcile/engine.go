package reconcile

import (
	"stock-reconciler/core/inventory"

	"go.uber.org/zap"
)

// Reconciler merges invoices into inventory tables.
// It holds no table state; every call works on the values passed in.
type Reconciler struct {
	defaults inventory.Defaults
	logger   *zap.Logger
}

// New creates a Reconciler that gives new items the supplied defaults.
// A nil logger disables logging.
func New(defaults inventory.Defaults, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{defaults: defaults, logger: logger}
}

// Defaults returns the defaults given to new items.
func (r *Reconciler) Defaults() inventory.Defaults {
	return r.defaults
}

// Merge applies the invoice to the inventory and returns the updated table with the plan
// that produced it. The input table is left untouched.
//
// Each invoice line is either inserted (item unknown, its quantity becomes the initial
// stock) or added to the existing quantity, so every invoiced amount is counted exactly
// once. Reorder flags are then recomputed for the whole table.
func (r *Reconciler) Merge(inv inventory.Table, invoice inventory.InvoiceTable) (inventory.Table, *Plan) {
	plan := r.BuildPlan(inv, invoice)
	return r.ApplyPlan(inv, plan), plan
}

// ApplyPlan executes the actions of a plan against a copy of inv.
// Actions are resolved against the table they are applied to: an insert for an item that
// already exists adds to it, an update for a missing item creates it.
func (r *Reconciler) ApplyPlan(inv inventory.Table, plan *Plan) inventory.Table {
	out := inv.Clone()
	if out.Records == nil {
		out.Records = make(map[string]inventory.Record)
	}

	for _, action := range plan.Actions {
		rec, exists := out.Records[action.Key]
		if !exists {
			out.Records[action.Key] = r.defaults.NewRecord(action.Delta)
			r.logger.Info("Added new item",
				zap.String("item", action.Key),
				zap.String("quantity", action.Delta.String()),
			)
			continue
		}

		rec.Quantity = rec.Quantity.Add(action.Delta)
		out.Records[action.Key] = rec
	}

	recomputeFlags(out)
	return out
}

// RecomputeFlags returns a copy of t with every reorder flag set to quantity < threshold.
// It is a full recomputation, so edits made to quantities or thresholds outside a merge
// are honored. Applying it twice yields the same flags.
func RecomputeFlags(t inventory.Table) inventory.Table {
	out := t.Clone()
	recomputeFlags(out)
	return out
}

func recomputeFlags(t inventory.Table) {
	for key, rec := range t.Records {
		rec.ReorderNeeded = rec.NeedsReorder()
		t.Records[key] = rec
	}
}

// ReorderReport projects the items whose reorder flag is set, sorted by item name.
func ReorderReport(t inventory.Table) Report {
	report := Report{Rows: []ReportRow{}}
	for _, key := range t.Keys() {
		rec := t.Records[key]
		if !rec.ReorderNeeded {
			continue
		}
		report.Rows = append(report.Rows, ReportRow{
			Item:             key,
			Quantity:         rec.Quantity,
			ReorderThreshold: rec.ReorderThreshold,
			OrderSuggestion:  rec.OrderSuggestion,
		})
	}
	return report
}
