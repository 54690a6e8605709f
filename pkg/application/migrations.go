package application

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MigrationManager collects schema files embedded by modules and applies
// them in registration order. Schema files are idempotent (CREATE TABLE IF
// NOT EXISTS style), so re-running on startup is safe.
type MigrationManager interface {
	RegisterSchema(fsys *embed.FS)
	Run(ctx context.Context) error
}

func NewMigrationManager(pool *pgxpool.Pool) MigrationManager {
	return &migrationManager{pool: pool}
}

type migrationManager struct {
	pool    *pgxpool.Pool
	schemas []*embed.FS
}

func (m *migrationManager) RegisterSchema(fsys *embed.FS) {
	m.schemas = append(m.schemas, fsys)
}

func (m *migrationManager) Run(ctx context.Context) error {
	for _, fsys := range m.schemas {
		err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			sql, err := fsys.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read schema %q: %w", path, err)
			}
			if _, err := m.pool.Exec(ctx, string(sql)); err != nil {
				return fmt.Errorf("apply schema %q: %w", path, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
