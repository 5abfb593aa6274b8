package db

import "testing"

func TestEnsureSchemaIdempotent(t *testing.T) {
	db := NewTestDB(t)

	if err := EnsureSchema(db); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}

	for _, table := range []string{"users", "items", "portfolios", "settings", "revoked_tokens"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestCityUnique(t *testing.T) {
	db := NewTestDB(t)

	insert := `INSERT INTO portfolios (id, city, created_at, updated_at) VALUES (?, ?, datetime('now'), datetime('now'))`
	if _, err := db.Exec(insert, "a", "Islamabad"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := db.Exec(insert, "b", "Islamabad"); err == nil {
		t.Fatal("expected unique violation on duplicate city")
	}
}

func TestDSN(t *testing.T) {
	got := DSN("data.sqlite3")
	want := "data.sqlite3?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	if got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
	if got := DSN("file:x.db?cache=shared"); got[:len("file:x.db?cache=shared&_pragma=")] != "file:x.db?cache=shared&_pragma=" {
		t.Errorf("existing query not extended: %q", got)
	}
}

func TestPragmasApplied(t *testing.T) {
	db := NewTestDB(t)

	var mode string
	if err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatal(err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
	var fk int
	if err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatal(err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}
