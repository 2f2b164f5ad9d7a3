// Package suppliers manages bulk-goods sources and their landed cost.
package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/calc"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository"
)

// ErrInvalidSupplier is returned when a supplier fails validation.
var ErrInvalidSupplier = errors.New("invalid supplier")

// Service exposes supplier operations backed by a repository.
type Service struct {
	repo   repository.SupplierRepository
	logger *zap.Logger
	newID  func() string
}

// NewService wires the supplier service.
func NewService(repo repository.SupplierRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, newID: uuid.NewString}
}

func (s *Service) List(ctx context.Context) ([]models.Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (models.Supplier, error) {
	return s.repo.GetSupplier(ctx, id)
}

// Create validates and stores a new supplier. Any id on the input is replaced.
func (s *Service) Create(ctx context.Context, supplier models.Supplier) (models.Supplier, error) {
	supplier.ID = s.newID()
	supplier.Name = strings.TrimSpace(supplier.Name)
	if err := validate(supplier); err != nil {
		return models.Supplier{}, err
	}
	if err := s.repo.SaveSupplier(ctx, supplier); err != nil {
		return models.Supplier{}, err
	}
	s.logger.Info("supplier created", zap.String("id", supplier.ID), zap.String("country", supplier.Country))
	return supplier, nil
}

// Update replaces an existing supplier.
func (s *Service) Update(ctx context.Context, id string, supplier models.Supplier) (models.Supplier, error) {
	if _, err := s.repo.GetSupplier(ctx, id); err != nil {
		return models.Supplier{}, err
	}
	supplier.ID = id
	supplier.Name = strings.TrimSpace(supplier.Name)
	if err := validate(supplier); err != nil {
		return models.Supplier{}, err
	}
	if err := s.repo.SaveSupplier(ctx, supplier); err != nil {
		return models.Supplier{}, err
	}
	return supplier, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteSupplier(ctx, id)
}

// LandedCost prices one minimum order from the supplier with the default duty rate.
func (s *Service) LandedCost(ctx context.Context, id string, opts ...calc.LandedOption) (calc.LandedCost, error) {
	supplier, err := s.repo.GetSupplier(ctx, id)
	if err != nil {
		return calc.LandedCost{}, err
	}
	return MOQLandedCost(supplier, opts...)
}

// MOQLandedCost computes the landed cost of a supplier's minimum order.
func MOQLandedCost(supplier models.Supplier, opts ...calc.LandedOption) (calc.LandedCost, error) {
	return calc.CalculateLandedCost(supplier.UnitPrice, supplier.MinimumOrderQuantity, supplier.ShippingCost, opts...)
}

func validate(s models.Supplier) error {
	switch {
	case s.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidSupplier)
	case s.MinimumOrderQuantity <= 0:
		return fmt.Errorf("%w: minimum order quantity must be positive", ErrInvalidSupplier)
	case s.UnitPrice < 0:
		return fmt.Errorf("%w: unit price must not be negative", ErrInvalidSupplier)
	case s.ShippingCost < 0:
		return fmt.Errorf("%w: shipping cost must not be negative", ErrInvalidSupplier)
	case s.LeadTimeDays < 0:
		return fmt.Errorf("%w: lead time must not be negative", ErrInvalidSupplier)
	case s.Rating != nil && (*s.Rating < 1 || *s.Rating > 5):
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidSupplier)
	}
	return nil
}
