package model

import (
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	Nombre         string    `db:"nombre" json:"nombre"`
	Apellido       string    `db:"apellido" json:"apellido"`
	Email          *string   `db:"email" json:"email"`
	Telefono       *string   `db:"telefono" json:"telefono"`
	Empresa        *string   `db:"empresa" json:"empresa"`
	Cargo          *string   `db:"cargo" json:"cargo"`
	Direccion      *string   `db:"direccion" json:"direccion"`
	Notas          *string   `db:"notas" json:"notas"`
	FotoTarjetaURL *string   `db:"foto_tarjeta_url" json:"foto_tarjeta_url"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ContactChanges holds the mutable columns of a contact. A nil field is left
// untouched by an update. A blank optional field clears the column to NULL,
// the same way a blank field is stored on create.
type ContactChanges struct {
	Nombre         *string
	Apellido       *string
	Email          *string
	Telefono       *string
	Empresa        *string
	Cargo          *string
	Direccion      *string
	Notas          *string
	FotoTarjetaURL *string
}

// Column is one SET target of an update. A nil Value writes NULL.
type Column struct {
	Name  string
	Value *string
}

// NullIfBlank maps an empty optional value to NULL.
func NullIfBlank(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// Columns lists the supplied fields in table column order.
func (c ContactChanges) Columns() []Column {
	fields := []struct {
		name     string
		value    *string
		nullable bool
	}{
		{"nombre", c.Nombre, false},
		{"apellido", c.Apellido, false},
		{"email", c.Email, true},
		{"telefono", c.Telefono, true},
		{"empresa", c.Empresa, true},
		{"cargo", c.Cargo, true},
		{"direccion", c.Direccion, true},
		{"notas", c.Notas, true},
		{"foto_tarjeta_url", c.FotoTarjetaURL, true},
	}

	var columns []Column
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		value := f.value
		if f.nullable {
			value = NullIfBlank(value)
		}
		columns = append(columns, Column{Name: f.name, Value: value})
	}
	return columns
}

func (c ContactChanges) IsEmpty() bool {
	return len(c.Columns()) == 0
}

// Apply merges the supplied fields into contact.
func (c ContactChanges) Apply(contact *Contact) {
	if c.Nombre != nil {
		contact.Nombre = *c.Nombre
	}
	if c.Apellido != nil {
		contact.Apellido = *c.Apellido
	}
	for _, f := range []struct {
		change *string
		target **string
	}{
		{c.Email, &contact.Email},
		{c.Telefono, &contact.Telefono},
		{c.Empresa, &contact.Empresa},
		{c.Cargo, &contact.Cargo},
		{c.Direccion, &contact.Direccion},
		{c.Notas, &contact.Notas},
		{c.FotoTarjetaURL, &contact.FotoTarjetaURL},
	} {
		if f.change != nil {
			*f.target = NullIfBlank(f.change)
		}
	}
}
