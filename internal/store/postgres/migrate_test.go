package postgres

import (
	"reflect"
	"testing"

	"github.com/username/grooming-agenda/migrations"
)

func TestExtractGooseUp(t *testing.T) {
	sql := "-- +goose Up\nCREATE TABLE a (id int);\nCREATE INDEX a_idx ON a (id);\n\n-- +goose Down\nDROP TABLE a;\n"

	up, err := extractGooseUp(sql)
	if err != nil {
		t.Fatalf("extractGooseUp() error = %v", err)
	}

	got := splitSQLStatements(up)
	want := []string{"CREATE TABLE a (id int)", "CREATE INDEX a_idx ON a (id)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("statements = %q, want %q", got, want)
	}

	if _, err := extractGooseUp("CREATE TABLE a (id int);"); err == nil {
		t.Error("extractGooseUp() expected error without up marker, got nil")
	}
}

func TestEmbeddedMigrationsHaveUpSections(t *testing.T) {
	for _, name := range []string{"0001_bookings.sql", "0002_public_holidays.sql"} {
		b, err := migrations.FS.ReadFile(name)
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", name, err)
		}
		up, err := extractGooseUp(string(b))
		if err != nil {
			t.Fatalf("%s: extractGooseUp() error = %v", name, err)
		}
		if len(splitSQLStatements(up)) == 0 {
			t.Errorf("%s: no up statements", name)
		}
	}
}
