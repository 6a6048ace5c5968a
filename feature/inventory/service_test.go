package inventory

import (
	"context"
	stderrors "errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"stock-reconciler/core/errors"
	"stock-reconciler/core/reconcile"
	"stock-reconciler/core/storage/mocks"
	"stock-reconciler/core/tabular"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func newTestService(t *testing.T, client *mocks.Client) (*Service, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	opts := Options{
		Resolver: NewResolver(nil, "inventory", nil, false, tabular.DefaultOptions()),
		Cache:    reconcile.NewCache(time.Minute),
		Publish:  PublishConfig{Bucket: "inventory", Prefix: "published", LinkTTL: 15 * time.Minute},
		Logger:   logger,
	}
	if client != nil {
		opts.Resolver = NewResolver(client, "inventory", nil, false, tabular.DefaultOptions())
		opts.Storage = client
	}
	return NewService(opts), logs
}

func TestService_Reconcile(t *testing.T) {
	dir := t.TempDir()
	inv := writeFile(t, dir, "inventory.csv", inventoryCSV)
	invoicePath := writeFile(t, dir, "invoice.csv", "Item,Quantity\nNut,5\nWasher,3\n")
	out := filepath.Join(dir, "updated.csv")

	svc, logs := newTestService(t, nil)
	ctx := context.Background()

	invoice, err := svc.LoadInvoice(ctx, invoicePath)
	require.NoError(t, err)

	result, err := svc.Reconcile(ctx, ReconcileRequest{Inventory: inv, Output: out, Invoice: invoice})
	require.NoError(t, err)
	assert.Equal(t, out, result.Output)
	assert.Equal(t, 1, result.Plan.Summary.NewItems)
	assert.Equal(t, 1, result.Plan.Summary.UpdatedItems)

	// Bolt (3 < 5) and the new Washer (3 < 5) need reordering.
	require.Len(t, result.Report.Rows, 2)
	assert.Equal(t, "Bolt", result.Report.Rows[0].Item)
	assert.Equal(t, "Washer", result.Report.Rows[1].Item)

	saved, err := svc.Load(ctx, out)
	require.NoError(t, err)
	assert.True(t, saved.Records["Nut"].Quantity.Equal(d("45")))
	assert.True(t, saved.Records["Washer"].Quantity.Equal(d("3")))
	assert.True(t, saved.Records["Washer"].OrderSuggestion.Equal(d("10")))

	original, err := os.ReadFile(inv)
	require.NoError(t, err)
	assert.Equal(t, inventoryCSV, string(original), "input inventory is untouched")

	assert.Equal(t, 1, logs.FilterMessage("Added new item").Len())
	assert.Equal(t, 1, logs.FilterMessage("Inventory reconciled").Len())
}

func TestService_ReconcileDryRun(t *testing.T) {
	dir := t.TempDir()
	inv := writeFile(t, dir, "inventory.csv", inventoryCSV)
	out := filepath.Join(dir, "updated.csv")

	svc, logs := newTestService(t, nil)
	invoice, err := svc.ParseInvoice(strings.NewReader("Item,Quantity\nBolt,10\nGear,1\n"))
	require.NoError(t, err)

	result, err := svc.Reconcile(context.Background(), ReconcileRequest{Inventory: inv, Output: out, Invoice: invoice, DryRun: true})
	require.NoError(t, err)
	assert.Empty(t, result.Output)
	assert.Len(t, result.Plan.Actions, 2)

	// Bolt reaches 13 and leaves the report; Gear is new and below its threshold.
	require.Len(t, result.Report.Rows, 1)
	assert.Equal(t, "Gear", result.Report.Rows[0].Item)

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "dry run writes nothing")
	assert.Equal(t, 0, logs.FilterMessage("Added new item").Len())
}

func TestService_ReconcileInPlace(t *testing.T) {
	dir := t.TempDir()
	inv := writeFile(t, dir, "inventory.csv", inventoryCSV)

	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	before, err := svc.Snapshot(ctx, inv)
	require.NoError(t, err)
	assert.True(t, before.Records["Bolt"].ReorderNeeded)

	invoice, err := svc.ParseInvoice(strings.NewReader("Item,Quantity\nBolt,2\n"))
	require.NoError(t, err)
	_, err = svc.Reconcile(ctx, ReconcileRequest{Inventory: inv, Invoice: invoice})
	require.NoError(t, err)

	after, err := svc.Snapshot(ctx, inv)
	require.NoError(t, err)
	assert.True(t, after.Records["Bolt"].Quantity.Equal(d("5")), "cache was invalidated")
	assert.False(t, after.Records["Bolt"].ReorderNeeded)
}

func TestService_ConcurrentReconcilesAreSerialized(t *testing.T) {
	dir := t.TempDir()
	inv := writeFile(t, dir, "inventory.csv", inventoryCSV)

	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	invoice, err := svc.ParseInvoice(strings.NewReader("Item,Quantity\nNut,1\n"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reconcile(ctx, ReconcileRequest{Inventory: inv, Invoice: invoice})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.Load(ctx, inv)
	require.NoError(t, err)
	assert.True(t, got.Records["Nut"].Quantity.Equal(d("48")), "no update is lost, got %s", got.Records["Nut"].Quantity)
}

func TestService_ReconcileFailsBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	inv := writeFile(t, dir, "inventory.csv", "Item,Quantity\nBolt,3\nBolt,4\n")
	out := filepath.Join(dir, "updated.csv")

	svc, _ := newTestService(t, nil)
	_, err := svc.Reconcile(context.Background(), ReconcileRequest{Inventory: inv, Output: out, Invoice: nil})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSchemaMismatch))

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestService_Report(t *testing.T) {
	inv := writeFile(t, t.TempDir(), "inventory.csv", inventoryCSV)
	svc, _ := newTestService(t, nil)

	report, err := svc.Report(context.Background(), inv)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "Bolt", report.Rows[0].Item)
	assert.True(t, report.Rows[0].OrderSuggestion.Equal(d("20")))
}

func TestService_Validate(t *testing.T) {
	dir := t.TempDir()
	inv := writeFile(t, dir, "inventory.csv", inventoryCSV)
	good := writeFile(t, dir, "good.csv", "Item,Quantity\nBolt,1\nGear,2\n")
	bad := writeFile(t, dir, "bad.csv", "Item,Qty\nBolt,1\n")

	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	summary, err := svc.Validate(ctx, inv, good)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.InvoiceLines)
	assert.Equal(t, 1, summary.NewItems)
	assert.Equal(t, 3, summary.TotalItems)

	_, err = svc.Validate(ctx, inv, bad)
	assert.True(t, errors.Is(err, errors.ErrInputFormat))

	_, err = svc.Validate(ctx, inv, "db://invoices")
	assert.ErrorContains(t, err, "invoices cannot be read from a database")
}

func TestService_ReconcilePublishes(t *testing.T) {
	dir := t.TempDir()
	inv := writeFile(t, dir, "inventory.csv", inventoryCSV)
	out := filepath.Join(dir, "updated.csv")

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "inventory").Return(true, nil)
	client.On("PutObject", mock.Anything, "inventory", "published/updated.csv", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)
	link, _ := url.Parse("https://minio.local/inventory/published/updated.csv?X-Amz-Signature=abc")
	client.On("PresignedGetObject", mock.Anything, "inventory", "published/updated.csv", 15*time.Minute, url.Values(nil)).
		Return(link, nil)

	svc, logs := newTestService(t, client)
	invoice, err := svc.ParseInvoice(strings.NewReader("Item,Quantity\nNut,1\n"))
	require.NoError(t, err)

	result, err := svc.Reconcile(context.Background(), ReconcileRequest{Inventory: inv, Output: out, Invoice: invoice, Publish: true})
	require.NoError(t, err)
	assert.Equal(t, link.String(), result.Link)
	client.AssertExpectations(t)

	entries := logs.FilterMessage("Inventory published").All()
	require.Len(t, entries, 1)
	assert.Equal(t, link.String(), entries[0].ContextMap()["url"])
}

func TestService_PublishFailureKeepsSavedOutput(t *testing.T) {
	dir := t.TempDir()
	inv := writeFile(t, dir, "inventory.csv", inventoryCSV)
	out := filepath.Join(dir, "updated.csv")

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "inventory").Return(false, stderrors.New("dial tcp: connection refused"))

	svc, _ := newTestService(t, client)
	result, err := svc.Reconcile(context.Background(), ReconcileRequest{Inventory: inv, Output: out, Publish: true})
	require.Error(t, err)
	assert.ErrorContains(t, err, "publishing failed")
	require.NotNil(t, result)
	assert.Equal(t, out, result.Output)

	_, statErr := os.Stat(out)
	assert.NoError(t, statErr)
}

func TestService_PublishWithoutStorage(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.Publish(context.Background(), Location{Scheme: SchemeFile, Path: "x.csv"}, sampleTable())
	assert.ErrorContains(t, err, "object storage is not configured")
}
