package service

import (
	"context"
	"errors"
	"log/slog"

	"contacts-service/internal/events"
	"contacts-service/internal/model"
	"contacts-service/internal/repository"

	"github.com/google/uuid"
)

var ErrContactNotFound = errors.New("contact not found")

type CreateContactDTO struct {
	Nombre         string
	Apellido       string
	Email          *string
	Telefono       *string
	Empresa        *string
	Cargo          *string
	Direccion      *string
	Notas          *string
	FotoTarjetaURL *string
}

type ContactService interface {
	ListContacts(ctx context.Context, userID uuid.UUID) ([]model.Contact, error)
	GetContact(ctx context.Context, id, userID uuid.UUID) (*model.Contact, error)
	CreateContact(ctx context.Context, userID uuid.UUID, dto CreateContactDTO) (*model.Contact, error)
	UpdateContact(ctx context.Context, id, userID uuid.UUID, changes model.ContactChanges) (*model.Contact, error)
	DeleteContact(ctx context.Context, id, userID uuid.UUID) error
}

type contactService struct {
	contactRepo repository.ContactRepository
	publisher   events.EventPublisher
}

func NewContactService(repo repository.ContactRepository, pub events.EventPublisher) ContactService {
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	return &contactService{contactRepo: repo, publisher: pub}
}

func (s *contactService) ListContacts(ctx context.Context, userID uuid.UUID) ([]model.Contact, error) {
	contacts, err := s.contactRepo.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	if contacts == nil {
		contacts = []model.Contact{}
	}

	return contacts, nil
}

func (s *contactService) GetContact(ctx context.Context, id, userID uuid.UUID) (*model.Contact, error) {
	contact, err := s.contactRepo.FindByIDAndOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if contact == nil {
		return nil, ErrContactNotFound
	}

	return contact, nil
}

// CreateContact always stamps the owner from userID.
func (s *contactService) CreateContact(ctx context.Context, userID uuid.UUID, dto CreateContactDTO) (*model.Contact, error) {
	contact := &model.Contact{
		UserID:         userID,
		Nombre:         dto.Nombre,
		Apellido:       dto.Apellido,
		Email:          dto.Email,
		Telefono:       dto.Telefono,
		Empresa:        dto.Empresa,
		Cargo:          dto.Cargo,
		Direccion:      dto.Direccion,
		Notas:          dto.Notas,
		FotoTarjetaURL: dto.FotoTarjetaURL,
	}

	created, err := s.contactRepo.Insert(ctx, contact)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishContactCreated(created); err != nil {
		slog.WarnContext(ctx, "Failed to publish contact event", slog.String("contact_id", created.ID.String()), slog.String("error", err.Error()))
	}

	return created, nil
}

// UpdateContact checks ownership before mutating anything. The check and the
// update are not wrapped in a transaction.
func (s *contactService) UpdateContact(ctx context.Context, id, userID uuid.UUID, changes model.ContactChanges) (*model.Contact, error) {
	existing, err := s.contactRepo.FindByIDAndOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, ErrContactNotFound
	}

	if changes.IsEmpty() {
		return existing, nil
	}

	updated, err := s.contactRepo.UpdateIfOwned(ctx, id, userID, changes)
	if err != nil {
		return nil, err
	}

	if updated == nil {
		return nil, ErrContactNotFound
	}

	if err := s.publisher.PublishContactUpdated(updated); err != nil {
		slog.WarnContext(ctx, "Failed to publish contact event", slog.String("contact_id", updated.ID.String()), slog.String("error", err.Error()))
	}

	return updated, nil
}

// DeleteContact succeeds whether or not a row was removed.
func (s *contactService) DeleteContact(ctx context.Context, id, userID uuid.UUID) error {
	deleted, err := s.contactRepo.DeleteIfOwned(ctx, id, userID)
	if err != nil {
		return err
	}

	if deleted != nil {
		if err := s.publisher.PublishContactDeleted(deleted); err != nil {
			slog.WarnContext(ctx, "Failed to publish contact event", slog.String("contact_id", deleted.ID.String()), slog.String("error", err.Error()))
		}
	}

	return nil
}
