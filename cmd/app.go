package cmd

import (
	"fmt"
	"strings"
	"time"

	"stock-reconciler/core/config"
	"stock-reconciler/core/database"
	"stock-reconciler/core/lock"
	"stock-reconciler/core/logger"
	"stock-reconciler/core/reconcile"
	"stock-reconciler/core/storage"
	"stock-reconciler/core/tabular"
	"stock-reconciler/feature/inventory"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app bundles what every command needs.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	svc     *inventory.Service
	client  storage.Client
	db      *gorm.DB
	closers []func() error
}

// needs lists the backends a command will touch.
type needs struct {
	locations []string
	publish   bool
	storage   bool
	database  bool
	cacheTTL  time.Duration
}

func (n needs) uses(prefix string) bool {
	for _, l := range n.locations {
		if strings.HasPrefix(strings.TrimSpace(l), prefix) {
			return true
		}
	}
	return false
}

// loadApp loads configuration and builds the logger.
func loadApp() (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &app{cfg: cfg, log: l}, nil
}

// wire builds the inventory service. Storage and database connections are opened
// only when a location needs them.
func (a *app) wire(n needs) error {
	defaults, err := a.cfg.Inventory.Defaults()
	if err != nil {
		return fmt.Errorf("invalid inventory defaults: %w", err)
	}

	opts := tabular.Options{
		KeyColumn:            a.cfg.Inventory.KeyColumn,
		Defaults:             defaults,
		AllowNegativeInvoice: a.cfg.Inventory.AllowNegativeInvoice,
	}

	var client storage.Client
	if n.publish || n.storage || n.uses("s3://") {
		client, err = storage.NewClient(a.cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	var db *gorm.DB
	if n.database || n.uses("db://") {
		db, err = database.Connect(a.cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		a.log.Info("Connected to database", zap.String("driver", a.cfg.Database.Driver))
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
	}

	locker, closeLock, err := lock.New(a.cfg.Lock)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closeLock)

	a.client, a.db = client, db
	a.svc = inventory.NewService(inventory.Options{
		Resolver:   inventory.NewResolver(client, a.cfg.Storage.Bucket, db, a.cfg.Database.AutoMigrate, opts),
		Reconciler: reconcile.New(defaults, a.log),
		Locker:     locker,
		Cache:      reconcile.NewCache(n.cacheTTL),
		Storage:    client,
		Publish: inventory.PublishConfig{
			Bucket:  a.cfg.Storage.Bucket,
			Region:  a.cfg.Storage.Region,
			Prefix:  a.cfg.Storage.PublishPrefix,
			LinkTTL: time.Duration(a.cfg.Storage.LinkTTLMinutes) * time.Minute,
		},
		Logger: a.log,
	})
	return nil
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn("Failed to close resource", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

// pick returns flag when set, otherwise the configured value.
func pick(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}

