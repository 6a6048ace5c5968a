// Package inventory holds the data model shared by the loader, the reconciler and the stores.
//
// A Table maps item names to Records; an InvoiceTable maps item names to received
// quantities. Quantities are decimals so fractional receipts add up exactly.
// Defaults carries the threshold and order suggestion given to items that are first
// seen on an invoice.
package inventory
