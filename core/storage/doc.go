// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so s3:// inventory
// locations and the publish step can be tested with the mock in core/storage/mocks.
// Both AWS S3 and self-hosted MinIO instances are supported.
//
// # Operations
//
//   - BucketExists / MakeBucket: used by EnsureBucket before the first write.
//   - PutObject: uploads a complete inventory CSV.
//   - GetObject: retrieves an inventory or invoice as a stream.
//   - PresignedGetObject: produces the time-limited link logged after publishing.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
