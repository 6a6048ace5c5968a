// Package reconcile merges invoice receipts into an inventory table.
//
// # Merge
//
// A reconcile runs in two steps that mirror a dry run and a real run:
//
//  1. BuildPlan walks the invoice once and produces one Action per line: an insert for
//     an item the inventory does not know (its invoiced quantity becomes the initial
//     stock, threshold and order suggestion come from the configured Defaults) or an
//     update that adds the invoiced quantity to the existing stock.
//  2. ApplyPlan executes the actions on a copy of the table and recomputes every reorder
//     flag (quantity < threshold), including items the invoice did not mention.
//
// Merge chains both. None of these functions mutate their inputs, so a caller holding the
// pre-merge table still sees the original values.
//
// # Reports
//
// ReorderReport projects the flagged items, sorted by name, for printing or export.
//
// # Cache
//
// Cache keeps loaded inventory snapshots for the HTTP feature, with a TTL and
// singleflight stampede protection.
//
// # Usage Example
//
//	r := reconcile.New(inventory.StandardDefaults(), logger)
//	updated, plan := r.Merge(current, invoice)
//	report := reconcile.ReorderReport(updated)
package reconcile
