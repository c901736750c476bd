package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"contacts-service/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const contactColumns = `id, user_id, nombre, apellido, email, telefono, empresa, cargo, direccion, notas, foto_tarjeta_url, created_at`

// ContactRepository is the narrow view of the contacts table. Every method is
// scoped by owner.
type ContactRepository interface {
	FindByOwner(ctx context.Context, userID uuid.UUID) ([]model.Contact, error)
	// FindByIDAndOwner returns nil, nil when no row matches.
	FindByIDAndOwner(ctx context.Context, id, userID uuid.UUID) (*model.Contact, error)
	Insert(ctx context.Context, contact *model.Contact) (*model.Contact, error)
	// UpdateIfOwned returns nil, nil when no row matches.
	UpdateIfOwned(ctx context.Context, id, userID uuid.UUID, changes model.ContactChanges) (*model.Contact, error)
	DeleteIfOwned(ctx context.Context, id, userID uuid.UUID) (*model.Contact, error)
	// CountByPhotoURL counts the owner's contacts still pointing at photoURL.
	CountByPhotoURL(ctx context.Context, userID uuid.UUID, photoURL string) (int, error)
}

type postgresContactRepository struct {
	db *sqlx.DB
}

func NewPostgresContactRepository(db *sqlx.DB) ContactRepository {
	return &postgresContactRepository{db: db}
}

func (r *postgresContactRepository) FindByOwner(ctx context.Context, userID uuid.UUID) ([]model.Contact, error) {
	contacts := []model.Contact{}
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &contacts, query, userID); err != nil {
		return nil, err
	}

	return contacts, nil
}

func (r *postgresContactRepository) FindByIDAndOwner(ctx context.Context, id, userID uuid.UUID) (*model.Contact, error) {
	var contact model.Contact
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, &contact, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &contact, nil
}

func (r *postgresContactRepository) Insert(ctx context.Context, contact *model.Contact) (*model.Contact, error) {
	query := `
		INSERT INTO contacts (user_id, nombre, apellido, email, telefono, empresa, cargo, direccion, notas, foto_tarjeta_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + contactColumns

	var created model.Contact
	err := r.db.QueryRowxContext(ctx, query,
		contact.UserID, contact.Nombre, contact.Apellido, contact.Email, contact.Telefono,
		contact.Empresa, contact.Cargo, contact.Direccion, contact.Notas, contact.FotoTarjetaURL,
	).StructScan(&created)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *postgresContactRepository) UpdateIfOwned(ctx context.Context, id, userID uuid.UUID, changes model.ContactChanges) (*model.Contact, error) {
	columns := changes.Columns()
	if len(columns) == 0 {
		return r.FindByIDAndOwner(ctx, id, userID)
	}

	var setClauses []string
	var args []interface{}
	argId := 1

	for _, col := range columns {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col.Name, argId))
		args = append(args, col.Value)
		argId++
	}

	query := fmt.Sprintf("UPDATE contacts SET %s WHERE id = $%d AND user_id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), argId, argId+1, contactColumns)
	args = append(args, id, userID)

	var updated model.Contact
	err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &updated, nil
}

// DeleteIfOwned removes the row and returns it, or nil when nothing matched.
func (r *postgresContactRepository) DeleteIfOwned(ctx context.Context, id, userID uuid.UUID) (*model.Contact, error) {
	query := `DELETE FROM contacts WHERE id = $1 AND user_id = $2 RETURNING ` + contactColumns

	var deleted model.Contact
	err := r.db.QueryRowxContext(ctx, query, id, userID).StructScan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &deleted, nil
}

func (r *postgresContactRepository) CountByPhotoURL(ctx context.Context, userID uuid.UUID, photoURL string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM contacts WHERE user_id = $1 AND foto_tarjeta_url = $2`

	if err := r.db.GetContext(ctx, &count, query, userID, photoURL); err != nil {
		return 0, err
	}

	return count, nil
}
