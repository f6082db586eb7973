package clients

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorales-dev/tradeflow-backend/pkg/db/models"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
)

// ClientDTO is the outward client shape.
type ClientDTO struct {
	ID           uuid.UUID `json:"id"`
	ContractorID uuid.UUID `json:"contractor_id"`
	Name         string    `json:"name"`
	Email        *string   `json:"email,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	AddressLine1 *string   `json:"address_line1,omitempty"`
	AddressLine2 *string   `json:"address_line2,omitempty"`
	City         *string   `json:"city,omitempty"`
	State        *string   `json:"state,omitempty"`
	PostalCode   *string   `json:"postal_code,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpsertClientInput carries client fields for create/update.
type UpsertClientInput struct {
	Name         string  `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	PostalCode   *string `json:"postal_code"`
	Notes        *string `json:"notes"`
}

// Service exposes client book management.
type Service interface {
	Create(ctx context.Context, contractorID uuid.UUID, input UpsertClientInput) (*ClientDTO, error)
	Get(ctx context.Context, contractorID, id uuid.UUID) (*ClientDTO, error)
	List(ctx context.Context, contractorID uuid.UUID) ([]ClientDTO, error)
	Update(ctx context.Context, contractorID, id uuid.UUID, input UpsertClientInput) (*ClientDTO, error)
	Delete(ctx context.Context, contractorID, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds a client service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, contractorID uuid.UUID, input UpsertClientInput) (*ClientDTO, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name is required")
	}

	client := &models.Client{
		ContractorID: contractorID,
		Name:         name,
		Email:        input.Email,
		Phone:        input.Phone,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		PostalCode:   input.PostalCode,
		Notes:        input.Notes,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create client")
	}
	dto := toClientDTO(client)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, contractorID, id uuid.UUID) (*ClientDTO, error) {
	client, err := s.load(ctx, contractorID, id)
	if err != nil {
		return nil, err
	}
	dto := toClientDTO(client)
	return &dto, nil
}

func (s *service) List(ctx context.Context, contractorID uuid.UUID) ([]ClientDTO, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor id is required")
	}
	records, err := s.repo.List(ctx, contractorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list clients")
	}
	out := make([]ClientDTO, 0, len(records))
	for i := range records {
		out = append(out, toClientDTO(&records[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, contractorID, id uuid.UUID, input UpsertClientInput) (*ClientDTO, error) {
	client, err := s.load(ctx, contractorID, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name is required")
	}

	client.Name = name
	client.Email = input.Email
	client.Phone = input.Phone
	client.AddressLine1 = input.AddressLine1
	client.AddressLine2 = input.AddressLine2
	client.City = input.City
	client.State = input.State
	client.PostalCode = input.PostalCode
	client.Notes = input.Notes

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update client")
	}
	dto := toClientDTO(client)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, contractorID, id uuid.UUID) error {
	if contractorID == uuid.Nil || id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "contractor id and client id are required")
	}
	affected, err := s.repo.Delete(ctx, contractorID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete client")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
	}
	return nil
}

func (s *service) load(ctx context.Context, contractorID, id uuid.UUID) (*models.Client, error) {
	if contractorID == uuid.Nil || id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor id and client id are required")
	}
	client, err := s.repo.FindByID(ctx, contractorID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
	}
	return client, nil
}

func toClientDTO(client *models.Client) ClientDTO {
	return ClientDTO{
		ID:           client.ID,
		ContractorID: client.ContractorID,
		Name:         client.Name,
		Email:        client.Email,
		Phone:        client.Phone,
		AddressLine1: client.AddressLine1,
		AddressLine2: client.AddressLine2,
		City:         client.City,
		State:        client.State,
		PostalCode:   client.PostalCode,
		Notes:        client.Notes,
		CreatedAt:    client.CreatedAt,
		UpdatedAt:    client.UpdatedAt,
	}
}
