package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sjperalta/cobuy-api/internal/format"
	"github.com/sjperalta/cobuy-api/internal/models"
	"github.com/sjperalta/cobuy-api/internal/pricing"
	"github.com/sjperalta/cobuy-api/internal/repository"
)

// PropertyService serves the catalog and its pricing estimates
type PropertyService struct {
	repo   repository.PropertyRepository
	policy pricing.Policy
}

func NewPropertyService(repo repository.PropertyRepository, policy pricing.Policy) *PropertyService {
	return &PropertyService{repo: repo, policy: policy}
}

func (s *PropertyService) FindByID(ctx context.Context, id string) (*models.Property, error) {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "property", id)
	}
	return property, nil
}

func (s *PropertyService) List(ctx context.Context, query *repository.ListQuery) ([]models.Property, int64, error) {
	return s.repo.List(ctx, query)
}

// UnitPrices allocates the property price over its fixed units
func (s *PropertyService) UnitPrices(ctx context.Context, id string) ([]pricing.UnitPrice, error) {
	property, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	seq, err := pricing.Allocate(property, s.policy)
	if err != nil {
		return nil, invalidPricing(err)
	}

	var prices []pricing.UnitPrice
	for i, price := range seq {
		prices = append(prices, pricing.UnitPrice{
			UnitID:    i + 1,
			Price:     price,
			Formatted: format.FormatDecimalCurrency(price),
		})
	}
	return prices, nil
}

// ShareEstimate splits an area-divided property between investors
func (s *PropertyService) ShareEstimate(ctx context.Context, id string, investors int) (*pricing.Share, error) {
	property, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	share, err := pricing.EstimateShare(property, investors)
	if err != nil {
		return nil, invalidPricing(err)
	}
	return share, nil
}

func invalidPricing(err error) error {
	if errors.Is(err, pricing.ErrInvalidArgument) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return err
}
