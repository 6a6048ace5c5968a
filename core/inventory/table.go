package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Table is the inventory keyed by item name.
// Values are treated as immutable: operations that change a table return a new one.
type Table struct {
	// Records maps item name to its record. Keys are case-sensitive and unique.
	Records map[string]Record

	// ExtraColumns lists additional input columns in their original order.
	ExtraColumns []string
}

// NewTable returns an empty table.
func NewTable() Table {
	return Table{Records: make(map[string]Record)}
}

// Len returns the number of items.
func (t Table) Len() int {
	return len(t.Records)
}

// Get returns the record of an item.
func (t Table) Get(item string) (Record, bool) {
	r, ok := t.Records[item]
	return r, ok
}

// Keys returns the item names sorted for deterministic output.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t.Records))
	for k := range t.Records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy; the copy shares nothing with t.
func (t Table) Clone() Table {
	out := Table{
		Records:      make(map[string]Record, len(t.Records)),
		ExtraColumns: append([]string(nil), t.ExtraColumns...),
	}
	for k, r := range t.Records {
		out.Records[k] = r.Clone()
	}
	return out
}

// InvoiceTable maps item name to the quantity received in one shipment.
type InvoiceTable map[string]decimal.Decimal

// Keys returns the invoice item names sorted.
func (t InvoiceTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
