package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/pathshala/backend/internal/infrastructure/config"
)

func main() {
	var (
		direction = flag.String("direction", "up", "migration direction: up, down, or force")
		steps     = flag.Int("steps", 0, "number of migrations to apply (0 = all)")
		version   = flag.Int("version", -1, "target version for force")
		path      = flag.String("path", "migrations", "path to migration files")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	m, err := migrate.New("file://"+*path, cfg.Database.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize migrator: %v\n", err)
		os.Exit(1)
	}
	defer m.Close()

	switch *direction {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	case "force":
		if *version < 0 {
			fmt.Fprintln(os.Stderr, "force requires -version")
			os.Exit(1)
		}
		err = m.Force(*version)
	default:
		fmt.Fprintf(os.Stderr, "unknown direction %q\n", *direction)
		os.Exit(1)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	v, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		fmt.Fprintf(os.Stderr, "failed to read version: %v\n", verr)
		os.Exit(1)
	}
	fmt.Printf("migrations complete: version=%d dirty=%v\n", v, dirty)
}
