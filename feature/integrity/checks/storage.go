package checks

import (
	"context"
	"fmt"

	"stock-reconciler/core/storage"

	"go.uber.org/zap"
)

// StorageReport is the result of the object storage check.
type StorageReport struct {
	Bucket string `json:"bucket"`
	Exists bool   `json:"exists"`
	Status string `json:"status"` // "ok", "missing", "fixed"
}

// CheckStorage verifies that the bucket used for s3:// locations and publishing exists.
func CheckStorage(ctx context.Context, client storage.Client, bucket string) (*StorageReport, error) {
	if client == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	report := &StorageReport{Bucket: bucket, Exists: exists, Status: "ok"}
	if !exists {
		report.Status = "missing"
	}
	return report, nil
}

// FixStorage creates the bucket.
func FixStorage(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger) (*StorageReport, error) {
	if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
		return nil, err
	}
	logger.Info("Created bucket", zap.String("bucket", bucket))
	return &StorageReport{Bucket: bucket, Exists: true, Status: "fixed"}, nil
}
