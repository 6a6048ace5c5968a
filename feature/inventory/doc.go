// Package inventory implements the stock reconciliation feature.
//
// It connects the pure reconcile engine to concrete table locations:
//   - plain paths are CSV files, replaced atomically on save;
//   - s3://name are CSV objects in the configured bucket;
//   - db://table are database tables upserted in one transaction.
//
// # Components
//
//   - Resolver: maps a location string to a Store or invoice Source.
//   - Service: loads, merges, saves, reports and publishes, one writer at a time.
//   - Handler: exposes the inventory over HTTP.
//   - Feature: registers the handler with the loader.
//
// # HTTP Endpoints
//
//   - GET  /inventory           : full table with reorder flags.
//   - GET  /inventory/reorder   : items below their threshold.
//   - GET  /inventory/export    : CSV download.
//   - POST /inventory/reconcile : merge an uploaded invoice (multipart field "invoice").
package inventory
