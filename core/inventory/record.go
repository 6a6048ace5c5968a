package inventory

import "github.com/shopspring/decimal"

// Column names of the inventory and invoice tables.
const (
	ColItem             = "Item"
	ColQuantity         = "Quantity"
	ColReorderThreshold = "Reorder_Threshold"
	ColOrderSuggestion  = "Order_Suggestion"
	ColReorderNeeded    = "Reorder_Needed"
)

// Record is the stock state of a single item.
type Record struct {
	// Quantity is the on-hand stock.
	Quantity decimal.Decimal `json:"quantity"`

	// ReorderThreshold is the stock level below which the item must be reordered.
	ReorderThreshold decimal.Decimal `json:"reorder_threshold"`

	// OrderSuggestion is the recommended replenishment quantity.
	OrderSuggestion decimal.Decimal `json:"order_suggestion"`

	// ReorderNeeded is derived from Quantity and ReorderThreshold; it is never read from input.
	ReorderNeeded bool `json:"reorder_needed"`

	// Extra carries additional input columns through unchanged.
	Extra map[string]string `json:"extra,omitempty"`
}

// NeedsReorder reports whether the record is below its threshold.
func (r Record) NeedsReorder() bool {
	return r.Quantity.LessThan(r.ReorderThreshold)
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r.Extra != nil {
		extra := make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			extra[k] = v
		}
		r.Extra = extra
	}
	return r
}

// Defaults holds the values given to items first seen on an invoice.
type Defaults struct {
	// Threshold is the reorder threshold of a new item.
	Threshold decimal.Decimal
	// OrderSuggestion is the order suggestion of a new item.
	OrderSuggestion decimal.Decimal
}

// StandardDefaults returns a threshold of 5 and an order suggestion of 10.
func StandardDefaults() Defaults {
	return Defaults{
		Threshold:       decimal.NewFromInt(5),
		OrderSuggestion: decimal.NewFromInt(10),
	}
}

// NewRecord builds the record of an item first seen with the given quantity.
func (d Defaults) NewRecord(quantity decimal.Decimal) Record {
	return Record{
		Quantity:         quantity,
		ReorderThreshold: d.Threshold,
		OrderSuggestion:  d.OrderSuggestion,
		ReorderNeeded:    false,
	}
}
