// Package testhelpers provisions a real Postgres database for tests built
// with the integration tag.
package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"

	"repairdesk/pkg/database"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool *pgxpool.Pool
}

// SetupTestDB connects to TEST_DATABASE_URL and applies the schema. The test
// is skipped when the variable is unset.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := zaptest.NewLogger(t)
	pool, err := database.NewPool(ctx, dsn, logger)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	return &TestDB{Pool: pool}
}

// SeedItem inserts an inventory item and returns its id.
func SeedItem(t *testing.T, db *TestDB, name string, threshold int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO inventory_items (id, name, out_of_stock_threshold) VALUES ($1, $2, $3)`,
		id, name, threshold)
	if err != nil {
		t.Fatalf("Failed to create test item: %v", err)
	}
	return id
}

// SeedBatch inserts a full batch for itemID.
func SeedBatch(t *testing.T, db *TestDB, itemID uuid.UUID, batchNo string, quantity int, unitPrice string) {
	t.Helper()

	_, err := db.Pool.Exec(context.Background(), `
		INSERT INTO inventory_batches (item_id, batch_no, unit_price, original_quantity, remaining_quantity, purchase_date, supplier_id)
		VALUES ($1, $2, $3, $4, $4, $5, $6)`,
		itemID, batchNo, decimal.RequireFromString(unitPrice), quantity, time.Now().UTC(), uuid.New())
	if err != nil {
		t.Fatalf("Failed to create test batch: %v", err)
	}
}

// SeedJob inserts a repair job. A nil warrantyExp means the job carries no
// warranty.
func SeedJob(t *testing.T, db *TestDB, warrantyExp *time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO jobs (id, customer_name, product_name, warranty_exp_date) VALUES ($1, $2, $3, $4)`,
		id, "Test Customer", "Test Laptop", warrantyExp)
	if err != nil {
		t.Fatalf("Failed to create test job: %v", err)
	}
	return id
}
