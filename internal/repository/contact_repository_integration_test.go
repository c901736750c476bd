package repository

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"contacts-service/internal/model"
	_ "contacts-service/migrations"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type ContactRepositoryIntegrationTestSuite struct {
	suite.Suite
	db   *sqlx.DB
	repo ContactRepository
	pgc  *postgres.PostgresContainer
	ctx  context.Context
}

func (s *ContactRepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	pgc, err := postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	s.pgc = pgc

	connStr, err := pgc.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("pgx", connStr)
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(goose.SetDialect("postgres"))
	s.Require().NoError(goose.Up(db.DB, "../../migrations"))

	s.repo = NewPostgresContactRepository(s.db)
}

func (s *ContactRepositoryIntegrationTestSuite) TearDownSuite() {
	s.db.Close()
	if err := s.pgc.Terminate(s.ctx); err != nil {
		log.Fatalf("failed to terminate pg container: %s", err)
	}
}

func (s *ContactRepositoryIntegrationTestSuite) TestOwnerScopedLifecycle() {
	owner := uuid.New()
	stranger := uuid.New()

	// Arrange: two contacts for the owner, one for someone else
	first, err := s.repo.Insert(s.ctx, &model.Contact{UserID: owner, Nombre: "Ana", Apellido: "Ruiz"})
	s.Require().NoError(err)
	time.Sleep(5 * time.Millisecond)
	second, err := s.repo.Insert(s.ctx, &model.Contact{UserID: owner, Nombre: "Luis", Apellido: "Paz"})
	s.Require().NoError(err)
	_, err = s.repo.Insert(s.ctx, &model.Contact{UserID: stranger, Nombre: "Eva", Apellido: "Sol"})
	s.Require().NoError(err)

	assert.NotEqual(s.T(), uuid.Nil, first.ID)
	assert.False(s.T(), first.CreatedAt.IsZero())

	// Act + Assert: listing is owner-scoped, newest first
	contacts, err := s.repo.FindByOwner(s.ctx, owner)
	s.Require().NoError(err)
	s.Require().Len(contacts, 2)
	assert.Equal(s.T(), second.ID, contacts[0].ID)
	assert.Equal(s.T(), first.ID, contacts[1].ID)

	// Another owner cannot see, update or delete the row
	found, err := s.repo.FindByIDAndOwner(s.ctx, first.ID, stranger)
	s.Require().NoError(err)
	assert.Nil(s.T(), found)

	telefono := "123"
	updated, err := s.repo.UpdateIfOwned(s.ctx, first.ID, stranger, model.ContactChanges{Telefono: &telefono})
	s.Require().NoError(err)
	assert.Nil(s.T(), updated)

	deleted, err := s.repo.DeleteIfOwned(s.ctx, first.ID, stranger)
	s.Require().NoError(err)
	assert.Nil(s.T(), deleted)

	// The owner can
	updated, err = s.repo.UpdateIfOwned(s.ctx, first.ID, owner, model.ContactChanges{Telefono: &telefono})
	s.Require().NoError(err)
	assert.Equal(s.T(), "123", *updated.Telefono)
	assert.Equal(s.T(), "Ana", updated.Nombre)
	assert.True(s.T(), first.CreatedAt.Equal(updated.CreatedAt))

	deleted, err = s.repo.DeleteIfOwned(s.ctx, first.ID, owner)
	s.Require().NoError(err)
	assert.Equal(s.T(), first.ID, deleted.ID)

	deleted, err = s.repo.DeleteIfOwned(s.ctx, first.ID, owner)
	s.Require().NoError(err)
	assert.Nil(s.T(), deleted)
}

func (s *ContactRepositoryIntegrationTestSuite) TestCountByPhotoURL() {
	owner := uuid.New()
	url := "http://storage.test/contact-cards/" + owner.String() + "/1.jpg"

	_, err := s.repo.Insert(s.ctx, &model.Contact{UserID: owner, Nombre: "Ana", Apellido: "Ruiz", FotoTarjetaURL: &url})
	s.Require().NoError(err)
	_, err = s.repo.Insert(s.ctx, &model.Contact{UserID: uuid.New(), Nombre: "Eva", Apellido: "Sol", FotoTarjetaURL: &url})
	s.Require().NoError(err)

	count, err := s.repo.CountByPhotoURL(s.ctx, owner, url)
	s.Require().NoError(err)
	assert.Equal(s.T(), 1, count)

	count, err = s.repo.CountByPhotoURL(s.ctx, owner, url+"?v=2")
	s.Require().NoError(err)
	assert.Zero(s.T(), count)
}

func TestContactRepositoryIntegration(t *testing.T) {
	if os.Getenv("DOCKER_HOST") == "" {
		t.Skip("Docker is not available, skipping integration test.")
	}
	suite.Run(t, new(ContactRepositoryIntegrationTestSuite))
}
