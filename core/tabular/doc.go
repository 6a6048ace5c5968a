// Package tabular reads and writes the inventory and invoice CSV tables.
//
// Input files come from spreadsheets, so the reader tolerates the usual artifacts:
// a UTF-8 BOM, header names in any case, padded or quoted cells, Excel ="..." formulas
// and thousands separators in numbers.
//
// Validation happens here, before the reconciler sees any data:
//   - a missing key or Quantity column, an empty item name or a bad number returns an
//     errors.InputFormatError naming the input, line and column;
//   - an item name that appears twice returns an errors.SchemaMismatchError.
//
// WriteInventory emits a stable header (key, Quantity, Reorder_Threshold,
// Order_Suggestion, Reorder_Needed, extras) so its output loads back unchanged.
package tabular
