package database

import (
	"strings"
	"testing"
)

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("loadMigrations() returned no migrations")
	}
	if migrations[0].version != "0001_init" {
		t.Errorf("first version = %q, want %q", migrations[0].version, "0001_init")
	}
	for i := 1; i < len(migrations); i++ {
		if migrations[i-1].version >= migrations[i].version {
			t.Errorf("migrations out of order: %q before %q", migrations[i-1].version, migrations[i].version)
		}
	}
}

func TestInitMigrationCreatesTables(t *testing.T) {
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	sql := migrations[0].sql
	for _, table := range []string{"material_records", "material_pictures", "audit_trails"} {
		if !strings.Contains(sql, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Errorf("init migration does not create %s", table)
		}
	}
	if !strings.Contains(sql, "ON DELETE CASCADE") {
		t.Error("pictures should cascade on material delete")
	}
}
