package inventory

import (
	stock "stock-reconciler/core/inventory"
)

// ItemView is the JSON shape of one inventory record.
type ItemView struct {
	Item             string            `json:"item"`
	Quantity         string            `json:"quantity"`
	ReorderThreshold string            `json:"reorder_threshold"`
	OrderSuggestion  string            `json:"order_suggestion"`
	ReorderNeeded    bool              `json:"reorder_needed"`
	Extra            map[string]string `json:"extra,omitempty"`
}

// TableView is the JSON shape of a whole inventory.
type TableView struct {
	Items []ItemView `json:"items"`
	Total int        `json:"total"`
}

// NewTableView converts a table, rows sorted by item.
func NewTableView(t stock.Table) TableView {
	view := TableView{Items: make([]ItemView, 0, t.Len()), Total: t.Len()}
	for _, key := range t.Keys() {
		r := t.Records[key]
		view.Items = append(view.Items, ItemView{
			Item:             key,
			Quantity:         r.Quantity.String(),
			ReorderThreshold: r.ReorderThreshold.String(),
			OrderSuggestion:  r.OrderSuggestion.String(),
			ReorderNeeded:    r.ReorderNeeded,
			Extra:            r.Extra,
		})
	}
	return view
}

// ErrorResponse is returned by every failing endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ReconcileResponse is returned by POST /inventory/reconcile.
type ReconcileResponse struct {
	DryRun bool   `json:"dry_run"`
	Plan   any    `json:"plan"`
	Report any    `json:"report"`
	Output string `json:"output,omitempty"`
	Link   string `json:"link,omitempty"`
}
