package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "apps.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open(%q): %v", path, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func storedVersion(t *testing.T, s *DB) string {
	t.Helper()
	var v string
	if err := s.SQL().QueryRow("SELECT app_version FROM _schema_meta WHERE id = 1").Scan(&v); err != nil {
		t.Fatalf("query stored version: %v", err)
	}
	return v
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file missing: %v", err)
	}
}

func TestOpen_BadPath(t *testing.T) {
	if _, err := Open(context.Background(), "/nonexistent/dir/apps.db"); err == nil {
		t.Error("expected error for an unwritable path")
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := openTemp(t)

	var mode string
	if err := s.SQL().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var fk int
	if err := s.SQL().QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestTx(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	if _, err := s.SQL().ExecContext(ctx, "CREATE TABLE t (name TEXT)"); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := s.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO t VALUES ('kept')")
		return err
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	boom := errors.New("boom")
	err = s.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO t VALUES ('dropped')"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("rollback err = %v, want boom", err)
	}

	var n int
	if err := s.SQL().QueryRowContext(ctx, "SELECT COUNT(*) FROM t").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

func TestMigrate(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	calls := 0
	migrations := []Migration{
		{Version: 1, Description: "create data", Up: func(tx *sql.Tx) error {
			calls++
			_, err := tx.Exec("CREATE TABLE data (name TEXT)")
			return err
		}},
		{Version: 2, Description: "add version", Up: func(tx *sql.Tx) error {
			calls++
			_, err := tx.Exec("ALTER TABLE data ADD COLUMN version TEXT")
			return err
		}},
	}

	for range 2 {
		if err := s.Migrate(ctx, "builder", migrations); err != nil {
			t.Fatalf("Migrate: %v", err)
		}
	}
	if calls != 2 {
		t.Errorf("migration steps ran %d times, want 2", calls)
	}
	if _, err := s.SQL().ExecContext(ctx, "INSERT INTO data (name, version) VALUES ('iPerf3', '3.19.1')"); err != nil {
		t.Errorf("insert after migration: %v", err)
	}
}

func TestMigrate_ComponentsAreIsolated(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	step := func(table string) []Migration {
		return []Migration{{Version: 1, Description: table, Up: func(tx *sql.Tx) error {
			_, err := tx.Exec("CREATE TABLE " + table + " (id INTEGER)")
			return err
		}}}
	}

	if err := s.Migrate(ctx, "a", step("a_data")); err != nil {
		t.Fatalf("a: %v", err)
	}
	if err := s.Migrate(ctx, "b", step("b_data")); err != nil {
		t.Fatalf("b: %v", err)
	}
	var n int
	if err := s.SQL().QueryRow("SELECT COUNT(*) FROM _migrations").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("recorded migrations = %d, want 2", n)
	}
}

func TestMigrate_FailureKeepsEarlierSteps(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	migrations := []Migration{
		{Version: 1, Description: "ok", Up: func(tx *sql.Tx) error {
			_, err := tx.Exec("CREATE TABLE data (id INTEGER)")
			return err
		}},
		{Version: 2, Description: "broken", Up: func(tx *sql.Tx) error {
			_, err := tx.Exec("NOT SQL")
			return err
		}},
	}

	if err := s.Migrate(ctx, "builder", migrations); err == nil {
		t.Fatal("expected an error from the broken step")
	}
	var n int
	if err := s.SQL().QueryRow("SELECT COUNT(*) FROM _migrations WHERE component = 'builder'").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("recorded migrations = %d, want 1", n)
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name    string
		steps   []string
		wantErr bool
		want    string
	}{
		{name: "first run", steps: []string{"0.4.0"}, want: "0.4.0"},
		{name: "same version", steps: []string{"0.4.0", "0.4.0"}, want: "0.4.0"},
		{name: "upgrade", steps: []string{"0.4.0", "v0.5.0"}, want: "v0.5.0"},
		{name: "downgrade refused", steps: []string{"0.5.0", "0.4.0"}, wantErr: true, want: "0.5.0"},
		{name: "dev binary", steps: []string{"0.5.0", "dev"}, want: "dev"},
		{name: "dev database", steps: []string{"dev", "0.1.0"}, want: "0.1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openTemp(t)
			ctx := context.Background()
			var err error
			for _, v := range tt.steps {
				err = s.CheckVersion(ctx, v)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrNewerSchema) {
					t.Errorf("err = %v, want ErrNewerSchema", err)
				}
			} else if err != nil {
				t.Fatalf("CheckVersion: %v", err)
			}
			if got := storedVersion(t, s); got != tt.want {
				t.Errorf("stored version = %q, want %q", got, tt.want)
			}
		})
	}
}
