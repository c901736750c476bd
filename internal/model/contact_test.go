package model_test

import (
	"testing"

	"contacts-service/internal/model"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestContactChanges_Columns(t *testing.T) {
	changes := model.ContactChanges{
		Notas:    strPtr(""),
		Nombre:   strPtr("Ana"),
		Telefono: strPtr("123"),
	}

	require.Equal(t, []model.Column{
		{Name: "nombre", Value: strPtr("Ana")},
		{Name: "telefono", Value: strPtr("123")},
		{Name: "notas", Value: nil},
	}, changes.Columns())
	require.False(t, changes.IsEmpty())
	require.True(t, model.ContactChanges{}.IsEmpty())
}

func TestContactChanges_Apply(t *testing.T) {
	contact := &model.Contact{Nombre: "Ana", Apellido: "Ruiz", Email: strPtr("ana@example.com")}

	model.ContactChanges{Telefono: strPtr("123")}.Apply(contact)

	require.Equal(t, "Ana", contact.Nombre)
	require.Equal(t, "Ruiz", contact.Apellido)
	require.Equal(t, "ana@example.com", *contact.Email)
	require.Equal(t, "123", *contact.Telefono)
	require.Nil(t, contact.Empresa)
}

func TestContactChanges_ApplyClearsBlankOptionalFields(t *testing.T) {
	contact := &model.Contact{Nombre: "Ana", Apellido: "Ruiz", Email: strPtr("ana@example.com"), Notas: strPtr("vip")}

	model.ContactChanges{Email: strPtr(""), Telefono: strPtr("123")}.Apply(contact)

	require.Nil(t, contact.Email)
	require.Equal(t, "vip", *contact.Notas)
	require.Equal(t, "123", *contact.Telefono)
}

func TestNullIfBlank(t *testing.T) {
	require.Nil(t, model.NullIfBlank(nil))
	require.Nil(t, model.NullIfBlank(strPtr("")))
	require.Equal(t, "x", *model.NullIfBlank(strPtr("x")))
}
