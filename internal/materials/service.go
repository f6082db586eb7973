package materials

import (
	"context"

	"github.com/dmorales-dev/tradeflow-backend/internal/pricing"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
)

// Generator is the slice of the HTTP client the service depends on.
type Generator interface {
	GenerateLineItems(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	SearchMaterials(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// ServiceParams groups dependencies for the materials service.
type ServiceParams struct {
	Client Generator
}

// SuggestedItem is one AI-parsed line already normalized into the canonical
// line-item shape, ready to drop into a job draft. Matches beyond the priced
// one are kept so the UI can offer alternatives.
type SuggestedItem struct {
	Description      string          `json:"description"`
	Quantity         float64         `json:"quantity"`
	Unit             string          `json:"unit"`
	UnitCost         float64         `json:"unit_cost"`
	MarkupPercentage float64         `json:"markup_percentage"`
	Taxable          bool            `json:"taxable"`
	TaxRate          float64         `json:"tax_rate"`
	Image            *string         `json:"image,omitempty"`
	Matches          []MaterialMatch `json:"matches,omitempty"`
}

// Service proxies the contractor-ai endpoints and normalizes their field-name
// drift before anything reaches a caller.
type Service interface {
	SuggestLineItems(ctx context.Context, input GenerateRequest) ([]SuggestedItem, error)
	Search(ctx context.Context, input SearchRequest) ([]MaterialMatch, error)
}

type service struct {
	client Generator
}

// NewService builds the materials service.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "materials client is required")
	}
	return &service{client: params.Client}, nil
}

// SuggestLineItems parses a project description through the external service
// and folds each parsed item with its best priced match into a canonical
// suggestion. A parsed item whose matches carry no price fails normalization
// rather than silently defaulting to zero cost.
func (s *service) SuggestLineItems(ctx context.Context, input GenerateRequest) ([]SuggestedItem, error) {
	resp, err := s.client.GenerateLineItems(ctx, input)
	if err != nil {
		return nil, err
	}

	raws := make([]pricing.RawLineItem, 0, len(resp.ParsedItems))
	for i := range resp.ParsedItems {
		raws = append(raws, toRawItem(resp.ParsedItems[i]))
	}
	items, err := pricing.NormalizeItems(raws)
	if err != nil {
		return nil, err
	}

	out := make([]SuggestedItem, 0, len(items))
	for i, item := range items {
		suggestion := SuggestedItem{
			Description:      item.Description,
			Quantity:         item.Quantity.InexactFloat64(),
			Unit:             item.Unit,
			UnitCost:         item.UnitCost.InexactFloat64(),
			MarkupPercentage: item.MarkupPercent.InexactFloat64(),
			Taxable:          item.Taxable,
			TaxRate:          item.TaxRate.InexactFloat64(),
			Matches:          resp.ParsedItems[i].Matches,
		}
		if match := bestMatch(resp.ParsedItems[i].Matches); match != nil {
			suggestion.Image = match.Image
		}
		out = append(out, suggestion)
	}
	return out, nil
}

func (s *service) Search(ctx context.Context, input SearchRequest) ([]MaterialMatch, error) {
	resp, err := s.client.SearchMaterials(ctx, input)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// toRawItem flattens a parsed item and its best priced match into the union
// shape the normalization adapter accepts.
func toRawItem(parsed ParsedItem) pricing.RawLineItem {
	raw := pricing.RawLineItem{
		Name:     optionalString(parsed.Name),
		Quantity: parsed.Quantity,
		Unit:     parsed.Unit,
	}
	if match := bestMatch(parsed.Matches); match != nil {
		raw.PriceUnit = match.PriceUnit
		if raw.Unit == nil {
			raw.Unit = match.Unit
		}
	}
	return raw
}

// bestMatch returns the first match that actually carries a price.
func bestMatch(matches []MaterialMatch) *MaterialMatch {
	for i := range matches {
		if matches[i].PriceUnit != nil {
			return &matches[i]
		}
	}
	return nil
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
