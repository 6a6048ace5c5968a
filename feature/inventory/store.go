package inventory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	stock "stock-reconciler/core/inventory"
	"stock-reconciler/core/errors"
	"stock-reconciler/core/storage"
	"stock-reconciler/core/tabular"

	"github.com/minio/minio-go/v7"
)

// Store loads and saves a whole inventory table.
// Save is all-or-nothing: a failed save leaves the previous content in place.
type Store interface {
	// Location returns the location the store reads and writes.
	Location() Location
	// Load reads the full table.
	Load(ctx context.Context) (stock.Table, error)
	// Save replaces the stored table.
	Save(ctx context.Context, t stock.Table) error
}

// Source reads a CSV table such as an invoice.
type Source interface {
	Location() Location
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileStore keeps a table in a local CSV file.
type FileStore struct {
	path string
	opts tabular.Options
}

// NewFileStore creates a FileStore for path.
func NewFileStore(path string, opts tabular.Options) *FileStore {
	return &FileStore{path: path, opts: opts}
}

// Location implements Store.
func (s *FileStore) Location() Location {
	return Location{Scheme: SchemeFile, Path: s.path}
}

// Open implements Source.
func (s *FileStore) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.WrapIO("open", s.path, err)
	}
	return f, nil
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context) (stock.Table, error) {
	rc, err := s.Open(ctx)
	if err != nil {
		return stock.Table{}, err
	}
	defer rc.Close()
	return tabular.ReadInventory(rc, s.opts)
}

// Save writes the table to a temporary file in the target directory and renames it
// over the destination, so readers never observe a partial file.
func (s *FileStore) Save(_ context.Context, t stock.Table) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.WrapIO("create", s.path, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tabular.WriteInventory(tmp, t, s.opts); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", s.path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("sync", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.WrapIO("rename", s.path, err)
	}
	return nil
}

// ObjectStore keeps a table as a CSV object in a bucket.
type ObjectStore struct {
	client storage.Client
	bucket string
	object string
	opts   tabular.Options
}

// NewObjectStore creates an ObjectStore for bucket/object.
func NewObjectStore(client storage.Client, bucket, object string, opts tabular.Options) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, object: object, opts: opts}
}

// Location implements Store.
func (s *ObjectStore) Location() Location {
	return Location{Scheme: SchemeObject, Path: s.object}
}

// Open implements Source.
func (s *ObjectStore) Open(ctx context.Context) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, objectError("get", s.Location().String(), err)
	}
	return &objectReader{ReadCloser: obj, name: s.Location().String()}, nil
}

// Load implements Store.
func (s *ObjectStore) Load(ctx context.Context) (stock.Table, error) {
	rc, err := s.Open(ctx)
	if err != nil {
		return stock.Table{}, err
	}
	defer rc.Close()
	return tabular.ReadInventory(rc, s.opts)
}

// Save encodes the whole table before a single PutObject; object writes are atomic.
func (s *ObjectStore) Save(ctx context.Context, t stock.Table) error {
	var buf bytes.Buffer
	if err := tabular.WriteInventory(&buf, t, s.opts); err != nil {
		return errors.WrapIO("encode", s.Location().String(), err)
	}
	return putCSV(ctx, s.client, s.bucket, s.object, buf.Bytes())
}

func putCSV(ctx context.Context, client storage.Client, bucket, object string, data []byte) error {
	_, err := client.PutObject(ctx, bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return errors.WrapIO("put", "s3://"+object, err)
	}
	return nil
}

// objectReader turns lazy GetObject read failures into IOErrors.
type objectReader struct {
	io.ReadCloser
	name string
}

func (r *objectReader) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	if err != nil && err != io.EOF {
		return n, objectError("read", r.name, err)
	}
	return n, err
}

// objectError wraps a storage failure as an IOError, naming missing objects plainly.
func objectError(op, name string, err error) error {
	if storage.IsNotFound(err) {
		err = fmt.Errorf("object does not exist: %w", err)
	}
	return errors.WrapIO(op, name, err)
}
