package setup

import (
	"context"

	"github.com/luisaguirre/cartquotes-backend/pkg/db"
	"github.com/luisaguirre/cartquotes-backend/pkg/migrate"
)

// MigrationEnsurer pushes the schema by running the goose migrations.
type MigrationEnsurer struct {
	client *db.Client
	dir    string
}

// NewMigrationEnsurer builds the production SchemaEnsurer. dir defaults to
// the bundled migrations directory when empty.
func NewMigrationEnsurer(client *db.Client, dir string) *MigrationEnsurer {
	if dir == "" {
		dir = migrate.DefaultDir
	}
	return &MigrationEnsurer{client: client, dir: dir}
}

// Ensure brings the store schema up to date.
func (m *MigrationEnsurer) Ensure(ctx context.Context) error {
	return migrate.Ensure(ctx, m.client, m.dir)
}
