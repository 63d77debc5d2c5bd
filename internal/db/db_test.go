package db

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	database, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestOpen_AppliesMigrations(t *testing.T) {
	database := openTestDB(t)
	if err := database.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var n int
	err := database.Conn().QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&n)
	if err != nil {
		t.Fatalf("documents table missing: %v", err)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("second open should succeed: %v", err)
	}
	second.Close()
}

func TestGetSetRemove(t *testing.T) {
	database := openTestDB(t)

	if _, ok, err := database.Get("missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	if err := database.Set("ai-context-p1-projectState", `{"projectId":"p1"}`); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, err := database.Get("ai-context-p1-projectState")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if v != `{"projectId":"p1"}` {
		t.Errorf("value: got %q", v)
	}

	// Overwrite.
	if err := database.Set("ai-context-p1-projectState", `{"projectId":"p1","v":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _, _ = database.Get("ai-context-p1-projectState")
	if v != `{"projectId":"p1","v":2}` {
		t.Errorf("overwritten value: got %q", v)
	}

	if err := database.Remove("ai-context-p1-projectState"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := database.Get("ai-context-p1-projectState"); ok {
		t.Error("key should be gone after remove")
	}
}
