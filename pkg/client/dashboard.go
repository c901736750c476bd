package client

import (
	"context"
	"io"
	"strings"
	"sync"
)

const MaxImageBytes = 5 * 1024 * 1024

const (
	MsgLoadContacts  = "Error al cargar los contactos"
	MsgSaveContact   = "Error al guardar el contacto"
	MsgDeleteContact = "Error al eliminar el contacto"
	MsgUploadImage   = "Error al subir la imagen"
)

// UIError carries the message shown to the user and the underlying cause.
type UIError struct {
	Message string
	Err     error
}

func (e *UIError) Error() string {
	return e.Message
}

func (e *UIError) Unwrap() error {
	return e.Err
}

var (
	ErrNameRequired = &UIError{Message: "Nombre y apellido son requeridos"}
	ErrNotAnImage   = &UIError{Message: "Por favor selecciona una imagen válida"}
	ErrImageTooBig  = &UIError{Message: "La imagen es muy grande. Máximo 5MB"}
)

// ContactsAPI is the part of Client the dashboard uses.
type ContactsAPI interface {
	ListContacts(ctx context.Context) ([]Contact, error)
	CreateContact(ctx context.Context, input ContactInput) (*Contact, error)
	UpdateContact(ctx context.Context, id string, input ContactInput) (*Contact, error)
	DeleteContact(ctx context.Context, id string) error
	UploadImage(ctx context.Context, filename, contentType string, r io.Reader) (*UploadResult, error)
}

func ValidateForm(input ContactInput) error {
	if strings.TrimSpace(input.Nombre) == "" || strings.TrimSpace(input.Apellido) == "" {
		return ErrNameRequired
	}
	return nil
}

func ValidateImage(contentType string, size int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}
	if size > MaxImageBytes {
		return ErrImageTooBig
	}
	return nil
}

// Dashboard is the contact list state of a signed-in user. The list is
// fetched once and then kept in sync locally after each mutation.
type Dashboard struct {
	mu       sync.Mutex
	api      ContactsAPI
	contacts []Contact
	loaded   bool
}

func NewDashboard(api ContactsAPI) *Dashboard {
	return &Dashboard{api: api}
}

// Load fetches the list unless a previous Load succeeded.
func (d *Dashboard) Load(ctx context.Context) error {
	d.mu.Lock()
	loaded := d.loaded
	d.mu.Unlock()
	if loaded {
		return nil
	}
	return d.Reload(ctx)
}

func (d *Dashboard) Reload(ctx context.Context) error {
	contacts, err := d.api.ListContacts(ctx)
	if err != nil {
		return &UIError{Message: MsgLoadContacts, Err: err}
	}

	d.mu.Lock()
	d.contacts = contacts
	d.loaded = true
	d.mu.Unlock()

	return nil
}

// Contacts returns a copy of the current list, newest first.
func (d *Dashboard) Contacts() []Contact {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Contact(nil), d.contacts...)
}

// Save creates a contact when editingID is empty and updates it otherwise.
func (d *Dashboard) Save(ctx context.Context, editingID string, input ContactInput) (*Contact, error) {
	if err := ValidateForm(input); err != nil {
		return nil, err
	}

	if editingID == "" {
		created, err := d.api.CreateContact(ctx, input)
		if err != nil {
			return nil, &UIError{Message: MsgSaveContact, Err: err}
		}

		d.mu.Lock()
		d.contacts = append([]Contact{*created}, d.contacts...)
		d.mu.Unlock()

		return created, nil
	}

	updated, err := d.api.UpdateContact(ctx, editingID, input)
	if err != nil {
		return nil, &UIError{Message: MsgSaveContact, Err: err}
	}

	d.mu.Lock()
	for i := range d.contacts {
		if d.contacts[i].ID == editingID {
			d.contacts[i] = *updated
		}
	}
	d.mu.Unlock()

	return updated, nil
}

// Delete removes the contact after confirm returns true. It reports whether a
// delete was attempted.
func (d *Dashboard) Delete(ctx context.Context, id string, confirm func() bool) (bool, error) {
	if confirm != nil && !confirm() {
		return false, nil
	}

	if err := d.api.DeleteContact(ctx, id); err != nil {
		return true, &UIError{Message: MsgDeleteContact, Err: err}
	}

	d.mu.Lock()
	kept := d.contacts[:0]
	for _, c := range d.contacts {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	d.contacts = kept
	d.mu.Unlock()

	return true, nil
}

// UploadPhoto checks the image locally, uploads it and stores the resulting
// URL in the form.
func (d *Dashboard) UploadPhoto(ctx context.Context, form *ContactInput, filename, contentType string, size int64, r io.Reader) error {
	if err := ValidateImage(contentType, size); err != nil {
		return err
	}

	result, err := d.api.UploadImage(ctx, filename, contentType, r)
	if err != nil {
		return &UIError{Message: MsgUploadImage, Err: err}
	}

	form.FotoTarjetaURL = result.URL
	return nil
}
