package inventory

import (
	"fmt"

	"stock-reconciler/core/storage"
	"stock-reconciler/core/tabular"

	"gorm.io/gorm"
)

// Resolver opens stores and sources for locations.
type Resolver struct {
	client      storage.Client
	bucket      string
	db          *gorm.DB
	autoMigrate bool
	opts        tabular.Options
}

// NewResolver creates a Resolver. client and db may be nil when no location needs them.
func NewResolver(client storage.Client, bucket string, db *gorm.DB, autoMigrate bool, opts tabular.Options) *Resolver {
	return &Resolver{client: client, bucket: bucket, db: db, autoMigrate: autoMigrate, opts: opts}
}

// Options returns the table options used by every store.
func (r *Resolver) Options() tabular.Options {
	return r.opts
}

// Store returns the inventory store for raw.
func (r *Resolver) Store(raw string) (Store, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return nil, err
	}

	switch loc.Scheme {
	case SchemeObject:
		if r.client == nil {
			return nil, fmt.Errorf("%s: object storage is not configured", loc)
		}
		return NewObjectStore(r.client, r.bucket, loc.Path, r.opts), nil
	case SchemeDB:
		if r.db == nil {
			return nil, fmt.Errorf("%s: database is not configured", loc)
		}
		return NewDBStore(r.db, loc.Path, r.autoMigrate), nil
	default:
		return NewFileStore(loc.Path, r.opts), nil
	}
}

// Source returns a CSV source for raw. Database locations hold inventories only.
func (r *Resolver) Source(raw string) (Source, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return nil, err
	}

	switch loc.Scheme {
	case SchemeObject:
		if r.client == nil {
			return nil, fmt.Errorf("%s: object storage is not configured", loc)
		}
		return NewObjectStore(r.client, r.bucket, loc.Path, r.opts), nil
	case SchemeDB:
		return nil, fmt.Errorf("%s: invoices cannot be read from a database", loc)
	default:
		return NewFileStore(loc.Path, r.opts), nil
	}
}
