// Package migrate applies the catalog schema (tracks, drivers, compounds,
// scenarios) via golang-migrate, embedding the SQL files into the binary
// the same way the teacher's migrate package does.
package migrate

import (
	"embed"
	"errors"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

// MigrateDb applies the embedded migrations to dbURI.
func MigrateDb(dbURI string) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, pgxURL(dbURI))
	if err != nil {
		return err
	}
	defer m.Close()
	return runUp(m)
}

// MigrateDbFrom applies migrations found at sourceURL (e.g.
// "file://./migrations") instead of the embedded set, for operators
// running against a checked-out migrations tree rather than the compiled
// binary's snapshot.
func MigrateDbFrom(sourceURL, dbURI string) error {
	m, err := migrate.New(sourceURL, pgxURL(dbURI))
	if err != nil {
		return err
	}
	defer m.Close()
	return runUp(m)
}

func pgxURL(dbURI string) string {
	return strings.Replace(dbURI, "postgresql://", "pgx://", 1)
}

func runUp(m *migrate.Migrate) error {
	err := m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
