package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
)

var testDB *TestDB

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	testDB, err = SetupTestDatabase(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up test database: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := testDB.Teardown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to tear down test database: %v\n", err)
	}

	os.Exit(code)
}

// resetDB truncates all tables before a test.
func resetDB(t *testing.T) {
	t.Helper()
	if err := testDB.CleanupTables(context.Background()); err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}
