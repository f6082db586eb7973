package contractors

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorales-dev/tradeflow-backend/pkg/config"
	"github.com/dmorales-dev/tradeflow-backend/pkg/db/models"
	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
)

// CreateProfileInput carries the fields for a new contractor profile. The tax
// defaults are optional; when omitted they are seeded from configuration so
// new profiles never start with an invented rate.
type CreateProfileInput struct {
	BusinessName   string
	Email          string
	Phone          *string
	DefaultTaxRate *float64
	DefaultTaxMode *string
}

// UpdateProfileInput carries partial profile updates. Nil fields are left
// untouched.
type UpdateProfileInput struct {
	BusinessName   *string
	Phone          *string
	DefaultTaxRate *float64
	DefaultTaxMode *string
}

// ServiceParams groups dependencies for the contractor service.
type ServiceParams struct {
	Repo *Repository
	Tax  config.TaxConfig
}

// Service exposes contractor profile management.
type Service interface {
	CreateProfile(ctx context.Context, input CreateProfileInput) (*ProfileDTO, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error)
}

type service struct {
	repo *Repository
	tax  config.TaxConfig
}

// NewService builds a contractor service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor repo is required")
	}
	return &service{repo: params.Repo, tax: params.Tax}, nil
}

func (s *service) CreateProfile(ctx context.Context, input CreateProfileInput) (*ProfileDTO, error) {
	name := strings.TrimSpace(input.BusinessName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	rate := s.tax.DefaultSalesTaxRate
	if input.DefaultTaxRate != nil {
		rate = *input.DefaultTaxRate
	}
	if rate < 0 || rate > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "default sales tax rate must be within [0,100]").
			WithDetails(map[string]any{"default_sales_tax_rate": rate})
	}

	modeValue := s.tax.DefaultMode
	if input.DefaultTaxMode != nil {
		modeValue = *input.DefaultTaxMode
	}
	mode, err := enums.ParseTaxMode(modeValue)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid default tax mode")
	}

	contractor := newContractorModel(name, email, input.Phone, rate, mode)
	if err := s.repo.Create(ctx, contractor); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contractor")
	}
	dto := toProfileDTO(contractor)
	return &dto, nil
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error) {
	contractor, err := s.loadContractor(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toProfileDTO(contractor)
	return &dto, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error) {
	contractor, err := s.loadContractor(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.BusinessName != nil {
		name := strings.TrimSpace(*input.BusinessName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name cannot be empty")
		}
		contractor.BusinessName = name
	}
	if input.Phone != nil {
		contractor.Phone = input.Phone
	}
	if input.DefaultTaxRate != nil {
		rate := *input.DefaultTaxRate
		if rate < 0 || rate > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "default sales tax rate must be within [0,100]").
				WithDetails(map[string]any{"default_sales_tax_rate": rate})
		}
		contractor.DefaultTaxRate = rate
	}
	if input.DefaultTaxMode != nil {
		mode, err := enums.ParseTaxMode(*input.DefaultTaxMode)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid default tax mode")
		}
		contractor.DefaultTaxMode = mode
	}

	if err := s.repo.Update(ctx, contractor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update contractor")
	}
	dto := toProfileDTO(contractor)
	return &dto, nil
}

func (s *service) loadContractor(ctx context.Context, id uuid.UUID) (*models.Contractor, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor id is required")
	}
	contractor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "contractor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contractor")
	}
	return contractor, nil
}
