package tabular

import (
	"encoding/csv"
	"io"

	"stock-reconciler/core/inventory"
	"stock-reconciler/core/utils"
)

// Header returns the output header for a table: key column, the four inventory
// columns, then the extra columns in input order.
func Header(t inventory.Table, opts Options) []string {
	header := []string{
		opts.keyColumn(),
		inventory.ColQuantity,
		inventory.ColReorderThreshold,
		inventory.ColOrderSuggestion,
		inventory.ColReorderNeeded,
	}
	return append(header, t.ExtraColumns...)
}

// WriteInventory encodes a table as CSV, rows sorted by item name.
// The output is accepted by ReadInventory with the same options.
func WriteInventory(w io.Writer, t inventory.Table, opts Options) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header(t, opts)); err != nil {
		return err
	}

	for _, key := range t.Keys() {
		rec := t.Records[key]
		line := []string{
			key,
			rec.Quantity.String(),
			rec.ReorderThreshold.String(),
			rec.OrderSuggestion.String(),
			utils.FormatBool(rec.ReorderNeeded),
		}
		for _, col := range t.ExtraColumns {
			line = append(line, rec.Extra[col])
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
