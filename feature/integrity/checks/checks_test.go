package checks

import (
	"context"
	stderrors "errors"
	"testing"

	"stock-reconciler/core/database"
	"stock-reconciler/core/storage/mocks"
	"stock-reconciler/feature/inventory"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}
	return gormDB, mock
}

func columns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
}

func TestCheckStorage(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "inventory").Return(false, nil)

	report, err := CheckStorage(context.Background(), client, "inventory")
	require.NoError(t, err)
	assert.False(t, report.Exists)
	assert.Equal(t, "missing", report.Status)
}

func TestCheckStorage_Error(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "inventory").Return(false, stderrors.New("connection refused"))

	_, err := CheckStorage(context.Background(), client, "inventory")
	assert.ErrorContains(t, err, "connection refused")
}

func TestCheckStorage_NotConfigured(t *testing.T) {
	_, err := CheckStorage(context.Background(), nil, "inventory")
	assert.Error(t, err)
}

func TestFixStorage(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "inventory").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "inventory", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

	report, err := FixStorage(context.Background(), client, "inventory", "eu-west-1", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "fixed", report.Status)
	client.AssertExpectations(t)
}

func TestCheckDatabaseIntegrity_Matched(t *testing.T) {
	db, sqlMock := setupMockDB(t)

	rows := columns().
		AddRow("item", "varchar(255)", "NO", "PRI", nil, "").
		AddRow("quantity", "decimal(38,18)", "NO", "", nil, "").
		AddRow("reorder_threshold", "decimal(38,18)", "NO", "", nil, "").
		AddRow("order_suggestion", "decimal(38,18)", "NO", "", nil, "").
		AddRow("reorder_needed", "tinyint(1)", "NO", "", nil, "").
		AddRow("updated_at", "datetime(3)", "YES", "", nil, "")
	sqlMock.ExpectQuery("SHOW COLUMNS FROM `inventory_items`").WillReturnRows(rows)

	report, err := CheckDatabaseIntegrity(db, "")
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Equal(t, inventory.DefaultTable, report.Table)
	assert.Empty(t, report.MissingColumns)
	assert.Empty(t, report.TypeMismatches)
}

func TestCheckDatabaseIntegrity_Mismatch(t *testing.T) {
	db, sqlMock := setupMockDB(t)

	rows := columns().
		AddRow("item", "varchar(255)", "NO", "PRI", nil, "").
		AddRow("quantity", "int(11)", "NO", "", nil, "").
		AddRow("reorder_threshold", "decimal(38,18)", "NO", "", nil, "")
	sqlMock.ExpectQuery("SHOW COLUMNS FROM `stock`").WillReturnRows(rows)

	report, err := CheckDatabaseIntegrity(db, "stock")
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.ElementsMatch(t, []string{"order_suggestion", "reorder_needed", "updated_at"}, report.MissingColumns)
	require.Len(t, report.TypeMismatches, 1)
	assert.Contains(t, report.TypeMismatches[0], "quantity")
}

func TestCheckDatabaseIntegrity_InspectFailure(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	sqlMock.ExpectQuery("SHOW COLUMNS FROM `inventory_items`").WillReturnError(stderrors.New("table doesn't exist"))

	report, err := CheckDatabaseIntegrity(db, "")
	require.NoError(t, err)
	assert.False(t, report.Matched)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "table doesn't exist")
}

func TestCheckDatabaseIntegrity_SQLite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	store := inventory.NewDBStore(db, inventory.DefaultTable, true)
	require.NoError(t, store.Prepare(context.Background()))

	report, err := CheckDatabaseIntegrity(db, inventory.DefaultTable)
	require.NoError(t, err)
	assert.True(t, report.Matched, "%+v", report)
}

func TestCheckDatabaseIntegrity_NilDB(t *testing.T) {
	_, err := CheckDatabaseIntegrity(nil, "")
	assert.Error(t, err)
}

func TestTypeMatches(t *testing.T) {
	assert.True(t, typeMatches("decimal(38,18)", "decimal(38,18)"))
	assert.True(t, typeMatches("decimal(38,18)", "numeric"))
	assert.False(t, typeMatches("decimal(38,18)", "int(11)"))
}
