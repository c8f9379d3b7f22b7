package users

import (
	"bufio"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var gooseUpContext = goose.UpContext

// RunMigrations brings the users schema of a Postgres database up to date.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

// DDL returns the "up" statements of every migration, without goose
// annotations, for operators who provision the table by hand.
func DDL() (string, error) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, name := range files {
		data, err := migrationsFS.ReadFile(name)
		if err != nil {
			return "", err
		}

		sc := bufio.NewScanner(strings.NewReader(string(data)))
		for sc.Scan() {
			line := sc.Text()
			if strings.HasPrefix(line, "-- +goose Down") {
				break
			}
			if strings.HasPrefix(line, "-- +goose") {
				continue
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
		if err := sc.Err(); err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(b.String()) + "\n", nil
}
