package tabular

import (
	"io"
	"strings"

	"stock-reconciler/core/inventory"
	"stock-reconciler/core/utils"
)

// SourceInventory and SourceInvoice name the two inputs in errors and logs.
const (
	SourceInventory = "inventory"
	SourceInvoice   = "invoice"
)

// ReadInventory decodes an inventory CSV.
//
// The key column and Quantity are required. Reorder_Threshold and Order_Suggestion are
// optional; a missing column or empty cell takes the configured default. Reorder_Needed
// is derived, so its input value is ignored. Any other column is kept as an extra.
func ReadInventory(r io.Reader, opts Options) (inventory.Table, error) {
	header, rows, err := readRows(SourceInventory, r)
	if err != nil {
		return inventory.Table{}, err
	}

	idx := MakeHeaderIndex(header)
	keyCol := opts.keyColumn()

	keyPos, err := requireColumn(SourceInventory, idx, keyCol)
	if err != nil {
		return inventory.Table{}, err
	}
	qtyPos, err := requireColumn(SourceInventory, idx, inventory.ColQuantity)
	if err != nil {
		return inventory.Table{}, err
	}
	thresholdPos, hasThreshold := idx.Lookup(inventory.ColReorderThreshold)
	suggestionPos, hasSuggestion := idx.Lookup(inventory.ColOrderSuggestion)

	known := map[string]struct{}{
		strings.ToLower(keyCol):                        {},
		strings.ToLower(inventory.ColQuantity):         {},
		strings.ToLower(inventory.ColReorderThreshold): {},
		strings.ToLower(inventory.ColOrderSuggestion):  {},
		strings.ToLower(inventory.ColReorderNeeded):    {},
	}

	table := inventory.NewTable()
	extraPos := make(map[string]int)
	for i, h := range header {
		name := utils.CleanText(h)
		if name == "" {
			continue
		}
		if _, ok := known[strings.ToLower(utils.CleanCell(h))]; ok {
			continue
		}
		if _, dup := extraPos[name]; dup {
			continue
		}
		extraPos[name] = i
		table.ExtraColumns = append(table.ExtraColumns, name)
	}

	seen := make(map[string]int, len(rows))
	for _, rw := range rows {
		key, err := keyCell(SourceInventory, rw, keyPos, keyCol, seen)
		if err != nil {
			return inventory.Table{}, err
		}

		rec := inventory.Record{
			ReorderThreshold: opts.Defaults.Threshold,
			OrderSuggestion:  opts.Defaults.OrderSuggestion,
		}

		if rec.Quantity, err = parseQuantity(SourceInventory, rw, qtyPos, inventory.ColQuantity, false); err != nil {
			return inventory.Table{}, err
		}
		if hasThreshold && rw.cell(thresholdPos) != "" {
			if rec.ReorderThreshold, err = parseQuantity(SourceInventory, rw, thresholdPos, inventory.ColReorderThreshold, false); err != nil {
				return inventory.Table{}, err
			}
		}
		if hasSuggestion && rw.cell(suggestionPos) != "" {
			if rec.OrderSuggestion, err = parseQuantity(SourceInventory, rw, suggestionPos, inventory.ColOrderSuggestion, false); err != nil {
				return inventory.Table{}, err
			}
		}

		if len(extraPos) > 0 {
			rec.Extra = make(map[string]string, len(extraPos))
			for name, pos := range extraPos {
				rec.Extra[name] = rw.cell(pos)
			}
		}

		table.Records[key] = rec
	}

	return table, nil
}

// ReadInvoice decodes an invoice CSV into item → received quantity.
// Only the key column and Quantity are read; other columns are ignored.
func ReadInvoice(r io.Reader, opts Options) (inventory.InvoiceTable, error) {
	header, rows, err := readRows(SourceInvoice, r)
	if err != nil {
		return nil, err
	}

	idx := MakeHeaderIndex(header)
	keyCol := opts.keyColumn()

	keyPos, err := requireColumn(SourceInvoice, idx, keyCol)
	if err != nil {
		return nil, err
	}
	qtyPos, err := requireColumn(SourceInvoice, idx, inventory.ColQuantity)
	if err != nil {
		return nil, err
	}

	invoice := make(inventory.InvoiceTable, len(rows))
	seen := make(map[string]int, len(rows))
	for _, rw := range rows {
		key, err := keyCell(SourceInvoice, rw, keyPos, keyCol, seen)
		if err != nil {
			return nil, err
		}
		qty, err := parseQuantity(SourceInvoice, rw, qtyPos, inventory.ColQuantity, opts.AllowNegativeInvoice)
		if err != nil {
			return nil, err
		}
		invoice[key] = qty
	}

	return invoice, nil
}
