package integrity

import (
	"context"
	"fmt"

	"stock-reconciler/core/storage"
	"stock-reconciler/feature/integrity/checks"
	"stock-reconciler/feature/inventory"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InventoryReport is the result of loading the served inventory.
type InventoryReport struct {
	Location      string `json:"location"`
	Status        string `json:"status"` // "ok" or "error"
	Items         int    `json:"items"`
	ReorderNeeded int    `json:"reorder_needed"`
	Error         string `json:"error,omitempty"`
}

// Service handles integrity checks.
type Service struct {
	client    storage.Client
	bucket    string
	region    string
	db        *gorm.DB
	inventory *inventory.Service
	location  string
	logger    *zap.Logger
}

// Options holds the dependencies of a Service. Nil client, DB or inventory
// service disable the matching check.
type Options struct {
	Storage   storage.Client
	Bucket    string
	Region    string
	DB        *gorm.DB
	Inventory *inventory.Service
	Location  string
	Logger    *zap.Logger
}

// NewService creates a new integrity service.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:    opts.Storage,
		bucket:    opts.Bucket,
		region:    opts.Region,
		db:        opts.DB,
		inventory: opts.Inventory,
		location:  opts.Location,
		logger:    logger,
	}
}

// CheckStorage reports whether the bucket exists.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.bucket)
}

// FixStorage creates the bucket.
func (s *Service) FixStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.client == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	return checks.FixStorage(ctx, s.client, s.bucket, s.region, s.logger)
}

// CheckDatabase compares the inventory table with the expected schema.
func (s *Service) CheckDatabase() (*checks.DatabaseReport, error) {
	return checks.CheckDatabaseIntegrity(s.db, s.table())
}

// table is the served db:// table, or the default one for other locations.
func (s *Service) table() string {
	loc, err := inventory.ParseLocation(s.location)
	if err == nil && loc.Scheme == inventory.SchemeDB {
		return loc.Path
	}
	return inventory.DefaultTable
}

// CheckInventory loads the served inventory, bypassing the cache.
func (s *Service) CheckInventory(ctx context.Context) (*InventoryReport, error) {
	if s.inventory == nil || s.location == "" {
		return nil, fmt.Errorf("no inventory location is configured")
	}

	report := &InventoryReport{Location: s.location, Status: "ok"}
	t, err := s.inventory.Load(ctx, s.location)
	if err != nil {
		report.Status = "error"
		report.Error = err.Error()
		return report, nil
	}

	report.Items = len(t.Records)
	for _, r := range t.Records {
		if r.ReorderNeeded {
			report.ReorderNeeded++
		}
	}
	return report, nil
}
