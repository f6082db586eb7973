package leads

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorales-dev/tradeflow-backend/internal/clients"
	"github.com/dmorales-dev/tradeflow-backend/pkg/db/models"
	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
)

// DefaultSource is recorded when a lead arrives without an origin marker.
const DefaultSource = "manual"

// LeadDTO is the outward lead shape.
type LeadDTO struct {
	ID           uuid.UUID        `json:"id"`
	ContractorID uuid.UUID        `json:"contractor_id"`
	ClientID     *uuid.UUID       `json:"client_id,omitempty"`
	Name         string           `json:"name"`
	Email        *string          `json:"email,omitempty"`
	Phone        *string          `json:"phone,omitempty"`
	Source       string           `json:"source"`
	ProjectType  *string          `json:"project_type,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Status       enums.LeadStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// CreateLeadInput carries intake fields for a new lead.
type CreateLeadInput struct {
	Name        string  `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Source      *string `json:"source"`
	ProjectType *string `json:"project_type"`
	Description *string `json:"description"`
}

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the lead service.
type ServiceParams struct {
	Repo       *Repository
	ClientRepo *clients.Repository
	Tx         TxRunner
}

// Service exposes lead intake and funnel management.
type Service interface {
	Create(ctx context.Context, contractorID uuid.UUID, input CreateLeadInput) (*LeadDTO, error)
	Get(ctx context.Context, contractorID, id uuid.UUID) (*LeadDTO, error)
	List(ctx context.Context, contractorID uuid.UUID, status *enums.LeadStatus) ([]LeadDTO, error)
	UpdateStatus(ctx context.Context, contractorID, id uuid.UUID, status enums.LeadStatus) (*LeadDTO, error)
	ConvertToClient(ctx context.Context, contractorID, id uuid.UUID) (*clients.ClientDTO, error)
}

type service struct {
	repo       *Repository
	clientRepo *clients.Repository
	tx         TxRunner
}

// NewService builds a lead service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lead repo is required")
	}
	if params.ClientRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	return &service{repo: params.Repo, clientRepo: params.ClientRepo, tx: params.Tx}, nil
}

func (s *service) Create(ctx context.Context, contractorID uuid.UUID, input CreateLeadInput) (*LeadDTO, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lead name is required")
	}
	source := DefaultSource
	if input.Source != nil && strings.TrimSpace(*input.Source) != "" {
		source = strings.TrimSpace(*input.Source)
	}

	lead := &models.Lead{
		ContractorID: contractorID,
		Name:         name,
		Email:        input.Email,
		Phone:        input.Phone,
		Source:       source,
		ProjectType:  input.ProjectType,
		Description:  input.Description,
		Status:       enums.LeadStatusNew,
	}
	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create lead")
	}
	dto := toLeadDTO(lead)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, contractorID, id uuid.UUID) (*LeadDTO, error) {
	lead, err := s.load(ctx, contractorID, id)
	if err != nil {
		return nil, err
	}
	dto := toLeadDTO(lead)
	return &dto, nil
}

func (s *service) List(ctx context.Context, contractorID uuid.UUID, status *enums.LeadStatus) ([]LeadDTO, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor id is required")
	}
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid lead status filter").
			WithDetails(map[string]any{"status": string(*status)})
	}
	records, err := s.repo.List(ctx, contractorID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list leads")
	}
	out := make([]LeadDTO, 0, len(records))
	for i := range records {
		out = append(out, toLeadDTO(&records[i]))
	}
	return out, nil
}

// UpdateStatus moves a lead through the funnel. Converted is terminal and is
// only reachable through ConvertToClient, so the linked client always exists.
func (s *service) UpdateStatus(ctx context.Context, contractorID, id uuid.UUID, status enums.LeadStatus) (*LeadDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid lead status").
			WithDetails(map[string]any{"status": string(status)})
	}
	if status == enums.LeadStatusConverted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "use the convert operation to mark a lead converted")
	}

	lead, err := s.load(ctx, contractorID, id)
	if err != nil {
		return nil, err
	}
	if lead.Status == enums.LeadStatusConverted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "converted leads cannot change status").
			WithDetails(map[string]any{"status": string(lead.Status)})
	}

	lead.Status = status
	if err := s.repo.Update(ctx, lead); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update lead")
	}
	dto := toLeadDTO(lead)
	return &dto, nil
}

// ConvertToClient creates a client record from the lead's contact data and
// marks the lead converted, atomically.
func (s *service) ConvertToClient(ctx context.Context, contractorID, id uuid.UUID) (*clients.ClientDTO, error) {
	lead, err := s.load(ctx, contractorID, id)
	if err != nil {
		return nil, err
	}
	if lead.Status == enums.LeadStatusConverted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "lead is already converted")
	}
	if lead.Status == enums.LeadStatusLost {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "lost leads cannot be converted")
	}

	client := &models.Client{
		ContractorID: lead.ContractorID,
		Name:         lead.Name,
		Email:        lead.Email,
		Phone:        lead.Phone,
		Notes:        lead.Description,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.clientRepo.CreateTx(tx, client); err != nil {
			return err
		}
		lead.ClientID = &client.ID
		lead.Status = enums.LeadStatusConverted
		return s.repo.UpdateTx(tx, lead)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "convert lead")
	}

	return s.toClientDTO(ctx, client)
}

func (s *service) toClientDTO(ctx context.Context, client *models.Client) (*clients.ClientDTO, error) {
	created, err := s.clientRepo.FindByID(ctx, client.ContractorID, client.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load converted client")
	}
	dto := clients.ClientDTO{
		ID:           created.ID,
		ContractorID: created.ContractorID,
		Name:         created.Name,
		Email:        created.Email,
		Phone:        created.Phone,
		Notes:        created.Notes,
		CreatedAt:    created.CreatedAt,
		UpdatedAt:    created.UpdatedAt,
	}
	return &dto, nil
}

func (s *service) load(ctx context.Context, contractorID, id uuid.UUID) (*models.Lead, error) {
	if contractorID == uuid.Nil || id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor id and lead id are required")
	}
	lead, err := s.repo.FindByID(ctx, contractorID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "lead not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load lead")
	}
	return lead, nil
}

func toLeadDTO(lead *models.Lead) LeadDTO {
	return LeadDTO{
		ID:           lead.ID,
		ContractorID: lead.ContractorID,
		ClientID:     lead.ClientID,
		Name:         lead.Name,
		Email:        lead.Email,
		Phone:        lead.Phone,
		Source:       lead.Source,
		ProjectType:  lead.ProjectType,
		Description:  lead.Description,
		Status:       lead.Status,
		CreatedAt:    lead.CreatedAt,
		UpdatedAt:    lead.UpdatedAt,
	}
}
