package db

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMigrationVersionsSortedAndEmbedded(t *testing.T) {
	versions, err := migrationVersions()
	if err != nil {
		t.Fatalf("migrationVersions: %v", err)
	}
	if len(versions) == 0 {
		t.Fatal("expected at least one embedded migration")
	}
	if versions[0] != "001_audit_events.sql" {
		t.Fatalf("want first migration 001_audit_events.sql, got %q", versions[0])
	}
	for i := 1; i < len(versions); i++ {
		if versions[i-1] >= versions[i] {
			t.Fatalf("migrations not sorted: %v", versions)
		}
	}
	body, err := migrationFiles.ReadFile("migrations/" + versions[0])
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if !strings.Contains(string(body), "CREATE TABLE IF NOT EXISTS audit_events") {
		t.Fatal("first migration must create audit_events")
	}
}

func TestAuditEventRoundTrip(t *testing.T) {
	databaseURL := os.Getenv("GATEWAY_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("GATEWAY_TEST_DATABASE_URL not set")
	}

	database, err := New(databaseURL)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	gateway := "test-" + uuid.NewString()[:8]
	ev := &AuditEvent{
		EventID:       uuid.NewString(),
		Gateway:       gateway,
		ExecutionID:   "exec-1",
		ToolName:      "transferTokens",
		RequestedName: "send",
		Status:        "ok",
		Source:        "demo",
		DurationMS:    12,
		EvidenceHash:  strings.Repeat("a", 64),
		CreatedAt:     time.Now().UTC(),
	}
	if err := database.InsertAuditEvent(ctx, ev); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := database.ListAuditEvents(ctx, gateway, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 event, got %d", len(got))
	}
	if got[0].ToolName != "transferTokens" || got[0].RequestedName != "send" {
		t.Fatalf("unexpected event: %+v", got[0])
	}
	if got[0].Caller != "" || got[0].ErrorCode != "" {
		t.Fatalf("want empty nullable fields, got caller=%q error_code=%q", got[0].Caller, got[0].ErrorCode)
	}
}
