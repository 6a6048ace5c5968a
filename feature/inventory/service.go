package inventory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	stock "stock-reconciler/core/inventory"
	"stock-reconciler/core/lock"
	"stock-reconciler/core/reconcile"
	"stock-reconciler/core/storage"
	"stock-reconciler/core/tabular"

	"go.uber.org/zap"
)

// PublishConfig controls where published inventories go.
type PublishConfig struct {
	Bucket  string
	Region  string
	Prefix  string
	LinkTTL time.Duration
}

// Options holds the dependencies of a Service.
type Options struct {
	Resolver   *Resolver
	Reconciler *reconcile.Reconciler
	// Locker serializes reconciles. Defaults to an in-process mutex.
	Locker lock.Locker
	// Cache holds loaded tables for the HTTP handlers. Defaults to no caching.
	Cache *reconcile.Cache
	// Storage is required for publishing only.
	Storage storage.Client
	Publish PublishConfig
	Logger  *zap.Logger
}

// Service runs reconciles and reports against inventory locations.
type Service struct {
	resolver   *Resolver
	reconciler *reconcile.Reconciler
	locker     lock.Locker
	cache      *reconcile.Cache
	client     storage.Client
	publish    PublishConfig
	logger     *zap.Logger
}

// NewService creates a new inventory service.
func NewService(opts Options) *Service {
	s := &Service{
		resolver:   opts.Resolver,
		reconciler: opts.Reconciler,
		locker:     opts.Locker,
		cache:      opts.Cache,
		client:     opts.Storage,
		publish:    opts.Publish,
		logger:     opts.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.locker == nil {
		s.locker = lock.NewMutexLocker()
	}
	if s.cache == nil {
		s.cache = reconcile.NewCache(0)
	}
	if s.reconciler == nil {
		s.reconciler = reconcile.New(s.resolver.Options().Defaults, s.logger)
	}
	return s
}

// ReconcileRequest describes one reconcile run.
type ReconcileRequest struct {
	// Inventory is the location of the current table.
	Inventory string
	// Output is where the updated table is saved. Empty means Inventory.
	Output string
	// Invoice holds the received quantities.
	Invoice stock.InvoiceTable
	// DryRun plans without saving.
	DryRun bool
	// Publish uploads the saved table and returns a download link.
	Publish bool
}

// ReconcileResult is the outcome of a reconcile run.
type ReconcileResult struct {
	Plan   *reconcile.Plan
	Report reconcile.Report
	// Output is the location written, empty for dry runs.
	Output string
	// Link is the presigned download URL when published.
	Link string
}

// LoadInvoice reads and validates the invoice at raw.
func (s *Service) LoadInvoice(ctx context.Context, raw string) (stock.InvoiceTable, error) {
	src, err := s.resolver.Source(raw)
	if err != nil {
		return nil, err
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return s.ParseInvoice(rc)
}

// ParseInvoice reads and validates an invoice CSV stream.
func (s *Service) ParseInvoice(r io.Reader) (stock.InvoiceTable, error) {
	return tabular.ReadInvoice(r, s.resolver.Options())
}

// Load reads the inventory at raw and recomputes its reorder flags.
func (s *Service) Load(ctx context.Context, raw string) (stock.Table, error) {
	store, err := s.resolver.Store(raw)
	if err != nil {
		return stock.Table{}, err
	}
	t, err := store.Load(ctx)
	if err != nil {
		return stock.Table{}, err
	}
	return reconcile.RecomputeFlags(t), nil
}

// Snapshot returns the inventory at raw through the cache. The result must not be modified.
func (s *Service) Snapshot(ctx context.Context, raw string) (stock.Table, error) {
	store, err := s.resolver.Store(raw)
	if err != nil {
		return stock.Table{}, err
	}
	return s.cache.GetOrLoad(ctx, store.Location().String(), store.Load)
}

// Report returns the reorder report of the inventory at raw.
func (s *Service) Report(ctx context.Context, raw string) (reconcile.Report, error) {
	t, err := s.Load(ctx, raw)
	if err != nil {
		return reconcile.Report{}, err
	}
	return reconcile.ReorderReport(t), nil
}

// Validate loads both inputs and returns the summary of the plan they would produce.
func (s *Service) Validate(ctx context.Context, inventoryRaw, invoiceRaw string) (reconcile.PlanSummary, error) {
	t, err := s.Load(ctx, inventoryRaw)
	if err != nil {
		return reconcile.PlanSummary{}, err
	}
	invoice, err := s.LoadInvoice(ctx, invoiceRaw)
	if err != nil {
		return reconcile.PlanSummary{}, err
	}
	return s.reconciler.BuildPlan(t, invoice).Summary, nil
}

// Export writes the inventory at raw as CSV.
func (s *Service) Export(ctx context.Context, raw string, w io.Writer) error {
	t, err := s.Snapshot(ctx, raw)
	if err != nil {
		return err
	}
	return tabular.WriteInventory(w, t, s.resolver.Options())
}

// Reconcile merges an invoice into an inventory and saves the result.
// Nothing is written unless loading, merging and encoding all succeed.
func (s *Service) Reconcile(ctx context.Context, req ReconcileRequest) (*ReconcileResult, error) {
	in, err := s.resolver.Store(req.Inventory)
	if err != nil {
		return nil, err
	}
	outRaw := req.Output
	if outRaw == "" {
		outRaw = req.Inventory
	}
	out, err := s.resolver.Store(outRaw)
	if err != nil {
		return nil, err
	}

	if !req.DryRun {
		unlock, err := s.locker.Lock(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire reconcile lock: %w", err)
		}
		defer func() {
			if err := unlock(); err != nil {
				s.logger.Warn("Failed to release reconcile lock", zap.Error(err))
			}
		}()
	}

	current, err := in.Load(ctx)
	if err != nil {
		return nil, err
	}

	plan := s.reconciler.BuildPlan(current, req.Invoice)

	if req.DryRun {
		projected := reconcile.New(s.reconciler.Defaults(), nil).ApplyPlan(current, plan)
		return &ReconcileResult{Plan: plan, Report: reconcile.ReorderReport(projected)}, nil
	}

	updated := s.reconciler.ApplyPlan(current, plan)
	if err := out.Save(ctx, updated); err != nil {
		return nil, err
	}

	s.cache.Invalidate(in.Location().String())
	s.cache.Invalidate(out.Location().String())

	result := &ReconcileResult{
		Plan:   plan,
		Report: reconcile.ReorderReport(updated),
		Output: out.Location().String(),
	}

	s.logger.Info("Inventory reconciled",
		zap.String("inventory", in.Location().String()),
		zap.String("output", result.Output),
		zap.Int("invoice_lines", plan.Summary.InvoiceLines),
		zap.Int("new_items", plan.Summary.NewItems),
		zap.Int("updated_items", plan.Summary.UpdatedItems),
		zap.Int("reorder_needed", plan.Summary.ReorderNeeded),
	)

	if req.Publish {
		link, err := s.Publish(ctx, out.Location(), updated)
		if err != nil {
			return result, fmt.Errorf("inventory saved to %s but publishing failed: %w", result.Output, err)
		}
		result.Link = link
	}

	return result, nil
}

// Publish uploads t under the publish prefix and returns a presigned download link.
func (s *Service) Publish(ctx context.Context, loc Location, t stock.Table) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	var buf bytes.Buffer
	if err := tabular.WriteInventory(&buf, t, s.resolver.Options()); err != nil {
		return "", err
	}

	if err := storage.EnsureBucket(ctx, s.client, s.publish.Bucket, s.publish.Region); err != nil {
		return "", err
	}

	object := path.Join(s.publish.Prefix, loc.Base())
	if err := putCSV(ctx, s.client, s.publish.Bucket, object, buf.Bytes()); err != nil {
		return "", err
	}

	ttl := s.publish.LinkTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	u, err := s.client.PresignedGetObject(ctx, s.publish.Bucket, object, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", object, err)
	}

	s.logger.Info("Inventory published",
		zap.String("object", object),
		zap.Duration("valid_for", ttl),
		zap.String("url", u.String()),
	)
	return u.String(), nil
}
