package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upAddContactsOwnerIndex, downAddContactsOwnerIndex)
}

func upAddContactsOwnerIndex(tx *sql.Tx) error {
	_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS contacts_user_id_created_at_idx ON contacts (user_id, created_at DESC);`)
	return err
}

func downAddContactsOwnerIndex(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP INDEX IF EXISTS contacts_user_id_created_at_idx;`)
	return err
}
