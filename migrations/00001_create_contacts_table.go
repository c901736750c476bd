package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateContactsTable, downCreateContactsTable)
}

func upCreateContactsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE IF NOT EXISTS contacts (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  user_id UUID NOT NULL,
	  nombre TEXT NOT NULL,
	  apellido TEXT NOT NULL,
	  email TEXT,
	  telefono TEXT,
	  empresa TEXT,
	  cargo TEXT,
	  direccion TEXT,
	  notas TEXT,
	  foto_tarjeta_url TEXT,
	  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateContactsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS contacts;`)
	return err
}
