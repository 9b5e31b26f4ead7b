package database

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
)

const (
	createSamples = "CREATE TABLE samples (id INTEGER PRIMARY KEY, kw REAL NOT NULL) STRICT;"
	createNotes   = "CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT NOT NULL) STRICT;"
)

// useMigrations swaps the package migration source for the test duration.
func useMigrations(t *testing.T, files fstest.MapFS) {
	t.Helper()
	prevFS, prevDir := MigrationsFS, MigrationsDir
	MigrationsFS, MigrationsDir = files, "sql"
	t.Cleanup(func() { MigrationsFS, MigrationsDir = prevFS, prevDir })
}

func testMigrations() fstest.MapFS {
	return fstest.MapFS{
		"sql/20261002_090000_notes.sql":   {Data: []byte(createNotes)},
		"sql/20261001_090000_samples.sql": {Data: []byte(createSamples)},
		"sql/README.md":                   {Data: []byte("ignored")},
	}
}

func tableExists(t *testing.T, db *DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count)
	if err != nil {
		t.Fatalf("querying sqlite_master: %v", err)
	}
	return count == 1
}

func recordedVersions(t *testing.T, db *DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		t.Fatalf("querying schema_migrations: %v", err)
	}
	defer rows.Close()
	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("scan: %v", err)
		}
		versions = append(versions, v)
	}
	return versions
}

func TestMigrate(t *testing.T) {
	useMigrations(t, testMigrations())
	db := openTestDB(t)
	ctx := context.Background()

	n, err := db.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Migrate() applied %d, want 2", n)
	}
	for _, table := range []string{"samples", "notes"} {
		if !tableExists(t, db, table) {
			t.Errorf("table %s not created", table)
		}
	}

	n, err = db.Migrate(ctx)
	if err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	if n != 0 {
		t.Errorf("second Migrate() applied %d, want 0", n)
	}
}

func TestMigrateAppliesOnlyNew(t *testing.T) {
	files := testMigrations()
	delete(files, "sql/20261002_090000_notes.sql")
	useMigrations(t, files)
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	files["sql/20261002_090000_notes.sql"] = &fstest.MapFile{Data: []byte(createNotes)}
	n, err := db.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() after adding a file error = %v", err)
	}
	if n != 1 || !tableExists(t, db, "notes") {
		t.Errorf("applied %d, notes exists %v, want 1 and true", n, tableExists(t, db, "notes"))
	}
}

func TestMigrateDetectsEditedMigration(t *testing.T) {
	files := testMigrations()
	useMigrations(t, files)
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	files["sql/20261001_090000_samples.sql"] = &fstest.MapFile{
		Data: []byte("CREATE TABLE samples (id INTEGER PRIMARY KEY) STRICT;"),
	}
	if _, err := db.Migrate(ctx); !errors.Is(err, ErrMigrationChanged) {
		t.Errorf("Migrate() error = %v, want ErrMigrationChanged", err)
	}
}

func TestMigrateNoMigrations(t *testing.T) {
	prev := MigrationsFS
	MigrationsFS = nil
	t.Cleanup(func() { MigrationsFS = prev })

	db := openTestDB(t)
	if n, err := db.Migrate(context.Background()); err != nil || n != 0 {
		t.Errorf("Migrate() with no source = %d, %v, want 0, nil", n, err)
	}
}

func TestMigrateFailureRollsBack(t *testing.T) {
	files := testMigrations()
	files["sql/20261003_090000_broken.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE broken (;")}
	useMigrations(t, files)
	db := openTestDB(t)

	n, err := db.Migrate(context.Background())
	if err == nil {
		t.Fatal("Migrate() should fail on invalid SQL")
	}
	if n != 2 {
		t.Errorf("Migrate() applied %d before failing, want 2", n)
	}

	got := recordedVersions(t, db)
	if len(got) != 2 || got[1] != "20261002_090000" {
		t.Errorf("recorded versions = %v, want the two valid migrations", got)
	}
	if tableExists(t, db, "broken") {
		t.Error("broken migration left a table behind")
	}
}

func TestLoadMigrations(t *testing.T) {
	useMigrations(t, testMigrations())

	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("len = %d, want 2", len(migrations))
	}
	if migrations[0].Name != "samples" || migrations[1].Name != "notes" {
		t.Errorf("order = %s, %s, want samples, notes", migrations[0].Name, migrations[1].Name)
	}
	if migrations[0].SQL != createSamples {
		t.Errorf("SQL = %q", migrations[0].SQL)
	}
	if len(migrations[0].Checksum) != 64 || migrations[0].Checksum == migrations[1].Checksum {
		t.Errorf("checksums = %q, %q", migrations[0].Checksum, migrations[1].Checksum)
	}
}

func TestLoadMigrationsDuplicateVersion(t *testing.T) {
	files := testMigrations()
	files["sql/20261001_090000_other.sql"] = &fstest.MapFile{Data: []byte(createNotes)}
	useMigrations(t, files)

	if _, err := loadMigrations(); err == nil {
		t.Error("loadMigrations() should reject a reused version")
	}
}

func TestLoadMigrationsMissingDir(t *testing.T) {
	useMigrations(t, fstest.MapFS{})
	MigrationsDir = "absent"

	if _, err := loadMigrations(); err == nil {
		t.Error("loadMigrations() should fail for a missing directory")
	}
}

func TestParseMigrationName(t *testing.T) {
	tests := []struct {
		file        string
		wantVersion string
		wantName    string
		wantOK      bool
	}{
		{"20261016_120000_cycle_runs.sql", "20261016_120000", "cycle_runs", true},
		{"20261016_120000_cycle_runs.up.sql", "", "", false},
		{"20261016_120000.sql", "", "", false},
		{"2026_120000_x.sql", "", "", false},
		{"embed.go", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			version, name, ok := parseMigrationName(tt.file)
			if version != tt.wantVersion || name != tt.wantName || ok != tt.wantOK {
				t.Errorf("parseMigrationName(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.file, version, name, ok, tt.wantVersion, tt.wantName, tt.wantOK)
			}
		})
	}
}
