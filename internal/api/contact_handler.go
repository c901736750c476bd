package api

import (
	"errors"
	"log/slog"
	"strings"

	"contacts-service/internal/model"
	"contacts-service/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ContactHandler struct {
	contactService service.ContactService
	validate       *validator.Validate
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		validate:       validator.New(),
	}
}

// CreateContactRequest lists every field a caller may set. Anything else in
// the body, user_id included, is dropped by decoding.
type CreateContactRequest struct {
	Nombre         string  `json:"nombre" validate:"required,max=100"`
	Apellido       string  `json:"apellido" validate:"required,max=100"`
	Email          *string `json:"email,omitempty" validate:"omitempty,max=255"`
	Telefono       *string `json:"telefono,omitempty" validate:"omitempty,max=50"`
	Empresa        *string `json:"empresa,omitempty" validate:"omitempty,max=255"`
	Cargo          *string `json:"cargo,omitempty" validate:"omitempty,max=255"`
	Direccion      *string `json:"direccion,omitempty" validate:"omitempty,max=500"`
	Notas          *string `json:"notas,omitempty" validate:"omitempty,max=5000"`
	FotoTarjetaURL *string `json:"foto_tarjeta_url,omitempty" validate:"omitempty,max=2048"`
}

type UpdateContactRequest struct {
	Nombre         *string `json:"nombre,omitempty" validate:"omitempty,min=1,max=100"`
	Apellido       *string `json:"apellido,omitempty" validate:"omitempty,min=1,max=100"`
	Email          *string `json:"email,omitempty" validate:"omitempty,max=255"`
	Telefono       *string `json:"telefono,omitempty" validate:"omitempty,max=50"`
	Empresa        *string `json:"empresa,omitempty" validate:"omitempty,max=255"`
	Cargo          *string `json:"cargo,omitempty" validate:"omitempty,max=255"`
	Direccion      *string `json:"direccion,omitempty" validate:"omitempty,max=500"`
	Notas          *string `json:"notas,omitempty" validate:"omitempty,max=5000"`
	FotoTarjetaURL *string `json:"foto_tarjeta_url,omitempty" validate:"omitempty,max=2048"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func (h *ContactHandler) ListContacts(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	contacts, err := h.contactService.ListContacts(c.UserContext(), identity.ID)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error fetching contacts", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching contacts"})
	}

	return c.Status(fiber.StatusOK).JSON(contacts)
}

func (h *ContactHandler) GetContact(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	contactID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contact not found"})
	}

	contact, err := h.contactService.GetContact(c.UserContext(), contactID, identity.ID)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contact not found"})
		}
		slog.ErrorContext(c.UserContext(), "Error fetching contact", slog.String("contact_id", contactID.String()), slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching contact"})
	}

	return c.Status(fiber.StatusOK).JSON(contact)
}

func (h *ContactHandler) CreateContact(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var request CreateContactRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	request.Nombre = strings.TrimSpace(request.Nombre)
	request.Apellido = strings.TrimSpace(request.Apellido)

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	contact, err := h.contactService.CreateContact(c.UserContext(), identity.ID, service.CreateContactDTO{
		Nombre:         request.Nombre,
		Apellido:       request.Apellido,
		Email:          model.NullIfBlank(request.Email),
		Telefono:       model.NullIfBlank(request.Telefono),
		Empresa:        model.NullIfBlank(request.Empresa),
		Cargo:          model.NullIfBlank(request.Cargo),
		Direccion:      model.NullIfBlank(request.Direccion),
		Notas:          model.NullIfBlank(request.Notas),
		FotoTarjetaURL: model.NullIfBlank(request.FotoTarjetaURL),
	})
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error creating contact", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error creating contact"})
	}

	return c.Status(fiber.StatusCreated).JSON(contact)
}

func (h *ContactHandler) UpdateContact(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	contactID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contact not found"})
	}

	var request UpdateContactRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	request.Nombre = trimPtr(request.Nombre)
	request.Apellido = trimPtr(request.Apellido)

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	contact, err := h.contactService.UpdateContact(c.UserContext(), contactID, identity.ID, model.ContactChanges{
		Nombre:         request.Nombre,
		Apellido:       request.Apellido,
		Email:          request.Email,
		Telefono:       request.Telefono,
		Empresa:        request.Empresa,
		Cargo:          request.Cargo,
		Direccion:      request.Direccion,
		Notas:          request.Notas,
		FotoTarjetaURL: request.FotoTarjetaURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contact not found"})
		}
		slog.ErrorContext(c.UserContext(), "Error updating contact", slog.String("contact_id", contactID.String()), slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error updating contact"})
	}

	return c.Status(fiber.StatusOK).JSON(contact)
}

func (h *ContactHandler) DeleteContact(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	// An id that cannot exist is deleted as trivially as one that does not.
	contactID, err := uuid.Parse(c.Params("id"))
	if err == nil {
		if err := h.contactService.DeleteContact(c.UserContext(), contactID, identity.ID); err != nil {
			slog.ErrorContext(c.UserContext(), "Error deleting contact", slog.String("contact_id", contactID.String()), slog.String("error", err.Error()))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error deleting contact"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Contact deleted successfully"})
}
