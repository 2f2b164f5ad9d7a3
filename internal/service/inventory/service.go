// Package inventory manages inventory records and their in-stock, listed, sold
// lifecycle.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/calc"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository"
)

var (
	// ErrInvalidItem is returned when an item fails validation.
	ErrInvalidItem = errors.New("invalid inventory item")
	// ErrInvalidStatusTransition is returned for backwards status moves and
	// for marking an item sold twice.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// CreateInput carries the user-supplied fields of a new item.
type CreateInput struct {
	Name               string           `json:"name" binding:"required"`
	Category           models.Category  `json:"category" binding:"required"`
	Brand              string           `json:"brand"`
	Size               string           `json:"size"`
	Condition          models.Condition `json:"condition" binding:"required"`
	PurchasePrice      float64          `json:"purchasePrice"`
	PurchaseDate       string           `json:"purchaseDate"`
	EstimatedSellPrice float64          `json:"estimatedSellPrice"`
	Photos             []string         `json:"photos"`
	Notes              string           `json:"notes"`
}

// UpdateInput patches descriptive fields and price corrections. Nil fields are
// left unchanged. Status moves go through ChangeStatus.
type UpdateInput struct {
	Name               *string           `json:"name"`
	Category           *models.Category  `json:"category"`
	Brand              *string           `json:"brand"`
	Size               *string           `json:"size"`
	Condition          *models.Condition `json:"condition"`
	PurchasePrice      *float64          `json:"purchasePrice"`
	PurchaseDate       *string           `json:"purchaseDate"`
	EstimatedSellPrice *float64          `json:"estimatedSellPrice"`
	ActualSellPrice    *float64          `json:"actualSellPrice"`
	ListingURL         *string           `json:"ebayListingUrl"`
	Photos             []string          `json:"photos"`
	Notes              *string           `json:"notes"`
}

// StatusChange moves an item along its lifecycle.
type StatusChange struct {
	Status          models.ItemStatus `json:"status" binding:"required"`
	ActualSellPrice *float64          `json:"actualSellPrice"`
	SoldDate        string            `json:"soldDate"`
	ListingURL      string            `json:"ebayListingUrl"`
}

// Service exposes inventory operations backed by a repository.
type Service struct {
	repo   repository.InventoryRepository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService wires the inventory service.
func NewService(repo repository.InventoryRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// List returns all items.
func (s *Service) List(ctx context.Context) ([]models.InventoryItem, error) {
	return s.repo.ListInventory(ctx)
}

// Get returns one item.
func (s *Service) Get(ctx context.Context, id string) (models.InventoryItem, error) {
	return s.repo.GetInventoryItem(ctx, id)
}

// Create stores a new item in the in-stock state.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.InventoryItem, error) {
	item := models.InventoryItem{
		ID:                 s.newID(),
		Name:               strings.TrimSpace(in.Name),
		Category:           in.Category,
		Brand:              in.Brand,
		Size:               in.Size,
		Condition:          in.Condition,
		PurchasePrice:      in.PurchasePrice,
		PurchaseDate:       in.PurchaseDate,
		EstimatedSellPrice: in.EstimatedSellPrice,
		Status:             models.StatusInStock,
		Photos:             in.Photos,
		Notes:              in.Notes,
	}
	if item.PurchaseDate == "" {
		item.PurchaseDate = s.today()
	}

	if err := validate(item); err != nil {
		return models.InventoryItem{}, err
	}

	if err := s.repo.SaveInventoryItem(ctx, item); err != nil {
		return models.InventoryItem{}, err
	}

	s.logger.Info("inventory item created", zap.String("id", item.ID), zap.String("category", string(item.Category)))
	return item, nil
}

// Update applies a patch to an existing item.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (models.InventoryItem, error) {
	item, err := s.repo.GetInventoryItem(ctx, id)
	if err != nil {
		return models.InventoryItem{}, err
	}

	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Brand != nil {
		item.Brand = *in.Brand
	}
	if in.Size != nil {
		item.Size = *in.Size
	}
	if in.Condition != nil {
		item.Condition = *in.Condition
	}
	if in.PurchasePrice != nil {
		item.PurchasePrice = *in.PurchasePrice
	}
	if in.PurchaseDate != nil {
		item.PurchaseDate = *in.PurchaseDate
	}
	if in.EstimatedSellPrice != nil {
		item.EstimatedSellPrice = *in.EstimatedSellPrice
	}
	if in.ActualSellPrice != nil {
		if item.Status != models.StatusSold {
			return models.InventoryItem{}, fmt.Errorf("%w: actual sell price can only be set on sold items", ErrInvalidItem)
		}
		item.ActualSellPrice = in.ActualSellPrice
	}
	if in.ListingURL != nil {
		item.ListingURL = *in.ListingURL
	}
	if in.Photos != nil {
		item.Photos = in.Photos
	}
	if in.Notes != nil {
		item.Notes = *in.Notes
	}

	if err := validate(item); err != nil {
		return models.InventoryItem{}, err
	}

	if err := s.repo.SaveInventoryItem(ctx, item); err != nil {
		return models.InventoryItem{}, err
	}
	return item, nil
}

// ChangeStatus moves an item forward in its lifecycle. Marking an item sold
// requires the realized sell price; the sold date defaults to today. Sold is
// final: corrections to a sale go through Update.
func (s *Service) ChangeStatus(ctx context.Context, id string, change StatusChange) (models.InventoryItem, error) {
	item, err := s.repo.GetInventoryItem(ctx, id)
	if err != nil {
		return models.InventoryItem{}, err
	}

	if err := CheckTransition(item.Status, change.Status); err != nil {
		return models.InventoryItem{}, err
	}

	switch change.Status {
	case models.StatusSold:
		price := change.ActualSellPrice
		if price == nil {
			price = item.ActualSellPrice
		}
		if price == nil || !validAmount(*price) {
			return models.InventoryItem{}, fmt.Errorf("%w: sold items need a non-negative actual sell price", ErrInvalidItem)
		}
		item.ActualSellPrice = price
		switch {
		case change.SoldDate != "":
			if _, err := time.Parse(models.DateLayout, change.SoldDate); err != nil {
				return models.InventoryItem{}, fmt.Errorf("%w: sold date %q", ErrInvalidItem, change.SoldDate)
			}
			item.SoldDate = change.SoldDate
		case item.SoldDate == "":
			item.SoldDate = s.today()
		}
	case models.StatusListed, models.StatusInStock:
		if change.ActualSellPrice != nil || change.SoldDate != "" {
			return models.InventoryItem{}, fmt.Errorf("%w: sell price and sold date only apply to sold items", ErrInvalidItem)
		}
	}

	if change.ListingURL != "" {
		item.ListingURL = change.ListingURL
	}

	previous := item.Status
	item.Status = change.Status

	if err := s.repo.SaveInventoryItem(ctx, item); err != nil {
		return models.InventoryItem{}, err
	}

	s.logger.Info("inventory status changed",
		zap.String("id", item.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(item.Status)),
	)
	return item, nil
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteInventoryItem(ctx, id)
}

// Stats aggregates the current inventory.
func (s *Service) Stats(ctx context.Context) (calc.InventoryStats, error) {
	items, err := s.repo.ListInventory(ctx)
	if err != nil {
		return calc.InventoryStats{}, err
	}

	stats := calc.AggregateInventory(items)
	for _, skipped := range stats.Skipped {
		s.logger.Debug("skipping malformed inventory record", zap.String("id", skipped.ID), zap.String("reason", skipped.Reason))
	}
	return stats, nil
}

// CheckTransition allows same-status updates and forward moves only. A sold
// item cannot be sold again.
func CheckTransition(from, to models.ItemStatus) error {
	toRank, err := to.Rank()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStatusTransition, err)
	}
	fromRank, err := from.Rank()
	if err != nil {
		// Stored status is unknown; let the caller repair it.
		return nil
	}
	if toRank < fromRank {
		return fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, from, to)
	}
	if from == models.StatusSold && to == models.StatusSold {
		return fmt.Errorf("%w: item is already sold", ErrInvalidStatusTransition)
	}
	return nil
}

func validate(item models.InventoryItem) error {
	switch {
	case item.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	case !item.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidItem, item.Category)
	case !item.Condition.Valid():
		return fmt.Errorf("%w: unknown condition %q", ErrInvalidItem, item.Condition)
	case !validAmount(item.PurchasePrice):
		return fmt.Errorf("%w: purchase price must be a non-negative number", ErrInvalidItem)
	case !validAmount(item.EstimatedSellPrice):
		return fmt.Errorf("%w: estimated sell price must be a non-negative number", ErrInvalidItem)
	case item.ActualSellPrice != nil && !validAmount(*item.ActualSellPrice):
		return fmt.Errorf("%w: actual sell price must be a non-negative number", ErrInvalidItem)
	}
	if item.PurchaseDate != "" {
		if _, err := time.Parse(models.DateLayout, item.PurchaseDate); err != nil {
			return fmt.Errorf("%w: purchase date %q", ErrInvalidItem, item.PurchaseDate)
		}
	}
	return nil
}

func (s *Service) today() string {
	return s.now().Format(models.DateLayout)
}

func validAmount(v float64) bool {
	return calc.Finite(v) && v >= 0
}
