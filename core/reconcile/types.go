package reconcile

import (
	"github.com/shopspring/decimal"
)

// ActionType represents the kind of change a reconcile applies to one item.
type ActionType string

const (
	// ActionInsert creates an item first seen on the invoice.
	ActionInsert ActionType = "insert"
	// ActionUpdate adds the invoiced quantity to an existing item.
	ActionUpdate ActionType = "update"
)

// Action represents a planned change to a single item.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the item name.
	Key string `json:"key"`

	// Before is the stock prior to the action (zero for inserts).
	Before decimal.Decimal `json:"before"`

	// Delta is the invoiced quantity.
	Delta decimal.Decimal `json:"delta"`

	// After is the projected stock once applied.
	After decimal.Decimal `json:"after"`

	// ReorderNeeded is the projected reorder flag once applied.
	ReorderNeeded bool `json:"reorder_needed"`
}

// Plan contains the actions of a reconcile and aggregate counts.
type Plan struct {
	// Actions lists one action per invoice line, sorted by key.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// TotalItems is the number of items after the plan is applied.
	TotalItems int `json:"total_items"`

	// InvoiceLines is the number of invoice lines considered.
	InvoiceLines int `json:"invoice_lines"`

	// NewItems counts insert actions.
	NewItems int `json:"new_items"`

	// UpdatedItems counts update actions.
	UpdatedItems int `json:"updated_items"`

	// ReorderNeeded counts items below their threshold after the plan is applied.
	ReorderNeeded int `json:"reorder_needed"`
}

// NewKeys returns the keys of the insert actions.
func (p *Plan) NewKeys() []string {
	var keys []string
	for _, a := range p.Actions {
		if a.Type == ActionInsert {
			keys = append(keys, a.Key)
		}
	}
	return keys
}

// ReportRow is one item of the reorder report.
type ReportRow struct {
	Item             string          `json:"item" yaml:"item"`
	Quantity         decimal.Decimal `json:"quantity" yaml:"quantity"`
	ReorderThreshold decimal.Decimal `json:"reorder_threshold" yaml:"reorder_threshold"`
	OrderSuggestion  decimal.Decimal `json:"order_suggestion" yaml:"order_suggestion"`
}

// Report lists the items that need reordering, sorted by item name.
type Report struct {
	Rows []ReportRow `json:"items" yaml:"items"`
}

// Empty reports whether no item needs reordering.
func (r Report) Empty() bool {
	return len(r.Rows) == 0
}
